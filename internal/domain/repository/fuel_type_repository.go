package repository

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelTypeRepository defines the interface for fuel product data operations
type FuelTypeRepository interface {
	Create(ctx context.Context, fuelType *entity.FuelType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FuelType, error)
	GetByCode(ctx context.Context, code string) (*entity.FuelType, error)
	Update(ctx context.Context, fuelType *entity.FuelType) error
	UpdatePrice(ctx context.Context, id uuid.UUID, pricePerGallon decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.FuelType, error)
}
