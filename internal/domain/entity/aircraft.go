package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AircraftClassification groups aircraft types into fee brackets
// (e.g. Piston, Turboprop, Light Jet). Fee rules and overrides may target a
// classification instead of individual types.
type AircraftClassification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:100;unique;not null" json:"name"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AircraftTypes []AircraftType `gorm:"foreignKey:ClassificationID" json:"aircraft_types,omitempty"`
}

// BeforeCreate generates a UUID before creating a new classification
func (c *AircraftClassification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AircraftClassification model
func (AircraftClassification) TableName() string {
	return "aircraft_classifications"
}

// AircraftType is a concrete aircraft model (e.g. C172, PC12, GLF5)
type AircraftType struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ICAOCode         string          `gorm:"size:10;unique;not null;column:icao_code" json:"icao_code"`
	Name             string          `gorm:"size:255;not null" json:"name"`
	ClassificationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"classification_id"`
	MaxTakeoffWeight decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"max_takeoff_weight"` // pounds
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	Classification *AircraftClassification `gorm:"foreignKey:ClassificationID" json:"classification,omitempty"`
}

// BeforeCreate generates a UUID before creating a new aircraft type
func (t *AircraftType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AircraftType model
func (AircraftType) TableName() string {
	return "aircraft_types"
}
