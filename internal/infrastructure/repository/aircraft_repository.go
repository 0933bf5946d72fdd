package repository

import (
	"context"
	"errors"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	domainRepo "github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aircraftRepository struct {
	db *gorm.DB
}

// NewAircraftRepository creates a new aircraft catalog repository
func NewAircraftRepository(db *gorm.DB) domainRepo.AircraftRepository {
	return &aircraftRepository{db: db}
}

func (r *aircraftRepository) CreateClassification(ctx context.Context, classification *entity.AircraftClassification) error {
	return r.db.WithContext(ctx).Create(classification).Error
}

func (r *aircraftRepository) GetClassification(ctx context.Context, id uuid.UUID) (*entity.AircraftClassification, error) {
	var classification entity.AircraftClassification
	err := r.db.WithContext(ctx).First(&classification, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &classification, err
}

func (r *aircraftRepository) GetClassificationByName(ctx context.Context, name string) (*entity.AircraftClassification, error) {
	var classification entity.AircraftClassification
	err := r.db.WithContext(ctx).First(&classification, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &classification, err
}

func (r *aircraftRepository) UpdateClassification(ctx context.Context, classification *entity.AircraftClassification) error {
	return r.db.WithContext(ctx).Save(classification).Error
}

func (r *aircraftRepository) DeleteClassification(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.AircraftClassification{}, "id = ?", id).Error
}

func (r *aircraftRepository) ListClassifications(ctx context.Context) ([]entity.AircraftClassification, error) {
	var classifications []entity.AircraftClassification
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&classifications).Error
	return classifications, err
}

func (r *aircraftRepository) CreateType(ctx context.Context, aircraftType *entity.AircraftType) error {
	return r.db.WithContext(ctx).Create(aircraftType).Error
}

func (r *aircraftRepository) GetType(ctx context.Context, id uuid.UUID) (*entity.AircraftType, error) {
	var aircraftType entity.AircraftType
	err := r.db.WithContext(ctx).
		Preload("Classification").
		First(&aircraftType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &aircraftType, err
}

func (r *aircraftRepository) GetTypeByICAOCode(ctx context.Context, icaoCode string) (*entity.AircraftType, error) {
	var aircraftType entity.AircraftType
	err := r.db.WithContext(ctx).
		Preload("Classification").
		First(&aircraftType, "icao_code = ?", icaoCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &aircraftType, err
}

func (r *aircraftRepository) UpdateType(ctx context.Context, aircraftType *entity.AircraftType) error {
	return r.db.WithContext(ctx).Save(aircraftType).Error
}

func (r *aircraftRepository) DeleteType(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.AircraftType{}, "id = ?", id).Error
}

func (r *aircraftRepository) ListTypes(ctx context.Context, classificationID *uuid.UUID) ([]entity.AircraftType, error) {
	var types []entity.AircraftType
	query := r.db.WithContext(ctx).Preload("Classification")
	if classificationID != nil {
		query = query.Where("classification_id = ?", *classificationID)
	}
	err := query.Order("icao_code ASC").Find(&types).Error
	return types, err
}
