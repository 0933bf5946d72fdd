package repository

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/google/uuid"
)

// AircraftRepository defines the interface for aircraft catalog operations
type AircraftRepository interface {
	CreateClassification(ctx context.Context, classification *entity.AircraftClassification) error
	GetClassification(ctx context.Context, id uuid.UUID) (*entity.AircraftClassification, error)
	GetClassificationByName(ctx context.Context, name string) (*entity.AircraftClassification, error)
	UpdateClassification(ctx context.Context, classification *entity.AircraftClassification) error
	DeleteClassification(ctx context.Context, id uuid.UUID) error
	ListClassifications(ctx context.Context) ([]entity.AircraftClassification, error)

	CreateType(ctx context.Context, aircraftType *entity.AircraftType) error
	GetType(ctx context.Context, id uuid.UUID) (*entity.AircraftType, error)
	GetTypeByICAOCode(ctx context.Context, icaoCode string) (*entity.AircraftType, error)
	UpdateType(ctx context.Context, aircraftType *entity.AircraftType) error
	DeleteType(ctx context.Context, id uuid.UUID) error
	ListTypes(ctx context.Context, classificationID *uuid.UUID) ([]entity.AircraftType, error)
}
