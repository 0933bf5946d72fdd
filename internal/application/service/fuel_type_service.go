package service

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelTypeService manages fuel products and their pump prices
type FuelTypeService struct {
	fuelTypeRepo repository.FuelTypeRepository
}

// NewFuelTypeService creates a new fuel type service
func NewFuelTypeService(fuelTypeRepo repository.FuelTypeRepository) *FuelTypeService {
	return &FuelTypeService{fuelTypeRepo: fuelTypeRepo}
}

// FuelTypeInput represents the create/update fuel type input
type FuelTypeInput struct {
	Code                  string
	Name                  string
	CurrentPricePerGallon decimal.Decimal
}

// CreateFuelType creates a new fuel type
func (s *FuelTypeService) CreateFuelType(ctx context.Context, input *FuelTypeInput) (*entity.FuelType, error) {
	var fieldErrors []apperror.FieldError
	if input.Code == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "must not be empty"})
	}
	if input.CurrentPricePerGallon.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "current_price_per_gallon", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.fuelTypeRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A fuel type with this code already exists")
	}

	fuelType := &entity.FuelType{
		Code:                  input.Code,
		Name:                  input.Name,
		CurrentPricePerGallon: input.CurrentPricePerGallon,
	}
	if err := s.fuelTypeRepo.Create(ctx, fuelType); err != nil {
		return nil, err
	}
	return fuelType, nil
}

// GetFuelType retrieves a fuel type by ID
func (s *FuelTypeService) GetFuelType(ctx context.Context, id uuid.UUID) (*entity.FuelType, error) {
	fuelType, err := s.fuelTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fuelType == nil {
		return nil, apperror.NewNotFoundError("Fuel type")
	}
	return fuelType, nil
}

// ListFuelTypes lists all fuel types
func (s *FuelTypeService) ListFuelTypes(ctx context.Context) ([]entity.FuelType, error) {
	return s.fuelTypeRepo.List(ctx)
}

// UpdateFuelType updates a fuel type
func (s *FuelTypeService) UpdateFuelType(ctx context.Context, id uuid.UUID, input *FuelTypeInput) (*entity.FuelType, error) {
	fuelType, err := s.GetFuelType(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != "" && input.Code != fuelType.Code {
		existing, err := s.fuelTypeRepo.GetByCode(ctx, input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A fuel type with this code already exists")
		}
		fuelType.Code = input.Code
	}
	if input.Name != "" {
		fuelType.Name = input.Name
	}
	if input.CurrentPricePerGallon.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "current_price_per_gallon", Message: "must not be negative"},
		})
	}
	fuelType.CurrentPricePerGallon = input.CurrentPricePerGallon

	if err := s.fuelTypeRepo.Update(ctx, fuelType); err != nil {
		return nil, err
	}
	return fuelType, nil
}

// UpdatePrice sets the current pump price. Only future receipts pick it up;
// existing drafts keep their snapshotted price.
func (s *FuelTypeService) UpdatePrice(ctx context.Context, id uuid.UUID, pricePerGallon decimal.Decimal) (*entity.FuelType, error) {
	if pricePerGallon.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "price_per_gallon", Message: "must not be negative"},
		})
	}
	if _, err := s.GetFuelType(ctx, id); err != nil {
		return nil, err
	}
	if err := s.fuelTypeRepo.UpdatePrice(ctx, id, pricePerGallon); err != nil {
		return nil, err
	}
	return s.GetFuelType(ctx, id)
}

// DeleteFuelType deletes a fuel type
func (s *FuelTypeService) DeleteFuelType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetFuelType(ctx, id); err != nil {
		return err
	}
	return s.fuelTypeRepo.Delete(ctx, id)
}
