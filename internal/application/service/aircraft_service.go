package service

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AircraftService manages the aircraft catalog: classifications and types
type AircraftService struct {
	aircraftRepo repository.AircraftRepository
}

// NewAircraftService creates a new aircraft service
func NewAircraftService(aircraftRepo repository.AircraftRepository) *AircraftService {
	return &AircraftService{aircraftRepo: aircraftRepo}
}

// ClassificationInput represents the create/update classification input
type ClassificationInput struct {
	Name      string
	SortOrder int
}

// CreateClassification creates a new aircraft classification
func (s *AircraftService) CreateClassification(ctx context.Context, input *ClassificationInput) (*entity.AircraftClassification, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "must not be empty"},
		})
	}

	existing, err := s.aircraftRepo.GetClassificationByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A classification with this name already exists")
	}

	classification := &entity.AircraftClassification{
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}
	if err := s.aircraftRepo.CreateClassification(ctx, classification); err != nil {
		return nil, err
	}
	return classification, nil
}

// GetClassification retrieves a classification by ID
func (s *AircraftService) GetClassification(ctx context.Context, id uuid.UUID) (*entity.AircraftClassification, error) {
	classification, err := s.aircraftRepo.GetClassification(ctx, id)
	if err != nil {
		return nil, err
	}
	if classification == nil {
		return nil, apperror.NewNotFoundError("Classification")
	}
	return classification, nil
}

// ListClassifications lists classifications in display order
func (s *AircraftService) ListClassifications(ctx context.Context) ([]entity.AircraftClassification, error) {
	return s.aircraftRepo.ListClassifications(ctx)
}

// UpdateClassification updates a classification
func (s *AircraftService) UpdateClassification(ctx context.Context, id uuid.UUID, input *ClassificationInput) (*entity.AircraftClassification, error) {
	classification, err := s.GetClassification(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		classification.Name = input.Name
	}
	classification.SortOrder = input.SortOrder

	if err := s.aircraftRepo.UpdateClassification(ctx, classification); err != nil {
		return nil, err
	}
	return classification, nil
}

// DeleteClassification deletes a classification
func (s *AircraftService) DeleteClassification(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClassification(ctx, id); err != nil {
		return err
	}
	return s.aircraftRepo.DeleteClassification(ctx, id)
}

// AircraftTypeInput represents the create/update aircraft type input
type AircraftTypeInput struct {
	ICAOCode         string
	Name             string
	ClassificationID uuid.UUID
	MaxTakeoffWeight decimal.Decimal
}

// CreateType creates a new aircraft type
func (s *AircraftService) CreateType(ctx context.Context, input *AircraftTypeInput) (*entity.AircraftType, error) {
	var fieldErrors []apperror.FieldError
	if input.ICAOCode == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "icao_code", Message: "must not be empty"})
	}
	if input.ClassificationID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "classification_id", Message: "must not be empty"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if _, err := s.GetClassification(ctx, input.ClassificationID); err != nil {
		return nil, err
	}

	existing, err := s.aircraftRepo.GetTypeByICAOCode(ctx, input.ICAOCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("An aircraft type with this ICAO code already exists")
	}

	aircraftType := &entity.AircraftType{
		ICAOCode:         input.ICAOCode,
		Name:             input.Name,
		ClassificationID: input.ClassificationID,
		MaxTakeoffWeight: input.MaxTakeoffWeight,
	}
	if err := s.aircraftRepo.CreateType(ctx, aircraftType); err != nil {
		return nil, err
	}
	return aircraftType, nil
}

// GetType retrieves an aircraft type by ID
func (s *AircraftService) GetType(ctx context.Context, id uuid.UUID) (*entity.AircraftType, error) {
	aircraftType, err := s.aircraftRepo.GetType(ctx, id)
	if err != nil {
		return nil, err
	}
	if aircraftType == nil {
		return nil, apperror.NewNotFoundError("Aircraft type")
	}
	return aircraftType, nil
}

// ListTypes lists aircraft types, optionally filtered by classification
func (s *AircraftService) ListTypes(ctx context.Context, classificationID *uuid.UUID) ([]entity.AircraftType, error) {
	return s.aircraftRepo.ListTypes(ctx, classificationID)
}

// UpdateType updates an aircraft type
func (s *AircraftService) UpdateType(ctx context.Context, id uuid.UUID, input *AircraftTypeInput) (*entity.AircraftType, error) {
	aircraftType, err := s.GetType(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ICAOCode != "" && input.ICAOCode != aircraftType.ICAOCode {
		existing, err := s.aircraftRepo.GetTypeByICAOCode(ctx, input.ICAOCode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("An aircraft type with this ICAO code already exists")
		}
		aircraftType.ICAOCode = input.ICAOCode
	}
	if input.Name != "" {
		aircraftType.Name = input.Name
	}
	if input.ClassificationID != uuid.Nil {
		if _, err := s.GetClassification(ctx, input.ClassificationID); err != nil {
			return nil, err
		}
		aircraftType.ClassificationID = input.ClassificationID
	}
	if !input.MaxTakeoffWeight.IsZero() {
		aircraftType.MaxTakeoffWeight = input.MaxTakeoffWeight
	}

	if err := s.aircraftRepo.UpdateType(ctx, aircraftType); err != nil {
		return nil, err
	}
	return aircraftType, nil
}

// DeleteType deletes an aircraft type
func (s *AircraftService) DeleteType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}
	return s.aircraftRepo.DeleteType(ctx, id)
}
