package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FuelType is a dispensable fuel product with its current posted price.
// Receipts snapshot the price at edit time, so price changes never rewrite
// existing drafts.
type FuelType struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code                  string          `gorm:"size:50;unique;not null" json:"code"` // e.g. JET_A, AVGAS_100LL
	Name                  string          `gorm:"size:255;not null" json:"name"`
	CurrentPricePerGallon decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"current_price_per_gallon"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new fuel type
func (f *FuelType) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the FuelType model
func (FuelType) TableName() string {
	return "fuel_types"
}
