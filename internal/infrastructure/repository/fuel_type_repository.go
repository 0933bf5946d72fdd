package repository

import (
	"context"
	"errors"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	domainRepo "github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fuelTypeRepository struct {
	db *gorm.DB
}

// NewFuelTypeRepository creates a new fuel type repository
func NewFuelTypeRepository(db *gorm.DB) domainRepo.FuelTypeRepository {
	return &fuelTypeRepository{db: db}
}

func (r *fuelTypeRepository) Create(ctx context.Context, fuelType *entity.FuelType) error {
	return r.db.WithContext(ctx).Create(fuelType).Error
}

func (r *fuelTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FuelType, error) {
	var fuelType entity.FuelType
	err := r.db.WithContext(ctx).First(&fuelType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fuelType, err
}

func (r *fuelTypeRepository) GetByCode(ctx context.Context, code string) (*entity.FuelType, error) {
	var fuelType entity.FuelType
	err := r.db.WithContext(ctx).First(&fuelType, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fuelType, err
}

func (r *fuelTypeRepository) Update(ctx context.Context, fuelType *entity.FuelType) error {
	return r.db.WithContext(ctx).Save(fuelType).Error
}

func (r *fuelTypeRepository) UpdatePrice(ctx context.Context, id uuid.UUID, pricePerGallon decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&entity.FuelType{}).
		Where("id = ?", id).
		Update("current_price_per_gallon", pricePerGallon).Error
}

func (r *fuelTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.FuelType{}, "id = ?", id).Error
}

func (r *fuelTypeRepository) List(ctx context.Context) ([]entity.FuelType, error) {
	var fuelTypes []entity.FuelType
	err := r.db.WithContext(ctx).Order("code ASC").Find(&fuelTypes).Error
	return fuelTypes, err
}
