package entity

import (
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeRule defines a chargeable service fee in the FBO fee schedule.
// A rule either applies to every aircraft (ClassificationID nil) or to one
// classification; per-classification and per-aircraft amounts are layered on
// top via FeeRuleOverride records.
type FeeRule struct {
	ID               uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	FeeCode          string                `gorm:"size:50;unique;not null" json:"fee_code"`
	Description      string                `gorm:"size:255;not null" json:"description"`
	ClassificationID *uuid.UUID            `gorm:"type:uuid;index" json:"classification_id,omitempty"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"amount"`
	CalculationBasis enum.CalculationBasis `gorm:"default:0" json:"calculation_basis"`

	// Fuel-uplift waiver policy: the fee is waived automatically when the
	// receipt's fuel quantity meets the minimum.
	IsWaivableByFuelUplift   bool            `gorm:"default:false" json:"is_waivable_by_fuel_uplift"`
	WaiverMinimumFuelGallons decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"waiver_minimum_fuel_gallons"`

	// CAA discount-program variants; active only when the receipt's customer
	// is a CAA member.
	HasCAAOverride              bool             `gorm:"default:false" json:"has_caa_override"`
	CAAOverrideAmount           *decimal.Decimal `gorm:"type:decimal(18,4);column:caa_override_amount" json:"caa_override_amount,omitempty"`
	CAAWaiverMinimumFuelGallons *decimal.Decimal `gorm:"type:decimal(18,4);column:caa_waiver_minimum_fuel_gallons" json:"caa_waiver_minimum_fuel_gallons,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Classification *AircraftClassification `gorm:"foreignKey:ClassificationID" json:"classification,omitempty"`
	Overrides      []FeeRuleOverride       `gorm:"foreignKey:FeeRuleID" json:"overrides,omitempty"`
}

// BeforeCreate generates a UUID before creating a new fee rule
func (f *FeeRule) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the FeeRule model
func (FeeRule) TableName() string {
	return "fee_rules"
}

// FeeRuleOverride pins a fee rule amount for one classification or one
// aircraft type. Exactly one of ClassificationID/AircraftTypeID is set;
// aircraft-specific overrides win over classification-wide ones.
//
// Each scope gets its own partial unique index: Postgres treats NULLs as
// distinct, so a single composite index over both scope columns would never
// conflict and upserts would accumulate duplicate rows.
type FeeRuleOverride struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	FeeRuleID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_override_classification,unique;index:idx_override_aircraft,unique" json:"fee_rule_id"`
	ClassificationID *uuid.UUID      `gorm:"type:uuid;index:idx_override_classification,unique,where:aircraft_type_id IS NULL" json:"classification_id,omitempty"`
	AircraftTypeID   *uuid.UUID      `gorm:"type:uuid;index:idx_override_aircraft,unique,where:classification_id IS NULL" json:"aircraft_type_id,omitempty"`
	OverrideAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"override_amount"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	FeeRule        FeeRule                 `gorm:"foreignKey:FeeRuleID" json:"-"`
	Classification *AircraftClassification `gorm:"foreignKey:ClassificationID" json:"classification,omitempty"`
	AircraftType   *AircraftType           `gorm:"foreignKey:AircraftTypeID" json:"aircraft_type,omitempty"`
}

// BeforeCreate generates a UUID before creating a new override
func (o *FeeRuleOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the FeeRuleOverride model
func (FeeRuleOverride) TableName() string {
	return "fee_rule_overrides"
}
