package request

import (
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeRuleRequest represents the create/update fee rule request
type FeeRuleRequest struct {
	FeeCode                     string                `json:"fee_code" binding:"required"`
	Description                 string                `json:"description" binding:"required"`
	ClassificationID            *uuid.UUID            `json:"classification_id"`
	Amount                      decimal.Decimal       `json:"amount"`
	CalculationBasis            enum.CalculationBasis `json:"calculation_basis"` // FIXED or PER_UNIT
	IsWaivableByFuelUplift      bool                  `json:"is_waivable_by_fuel_uplift"`
	WaiverMinimumFuelGallons    decimal.Decimal       `json:"waiver_minimum_fuel_gallons"`
	HasCAAOverride              bool                  `json:"has_caa_override"`
	CAAOverrideAmount           *decimal.Decimal      `json:"caa_override_amount"`
	CAAWaiverMinimumFuelGallons *decimal.Decimal      `json:"caa_waiver_minimum_fuel_gallons"`
}

// OverrideRequest represents an override upsert request
type OverrideRequest struct {
	FeeRuleID        uuid.UUID       `json:"fee_rule_id" binding:"required"`
	ClassificationID *uuid.UUID      `json:"classification_id"`
	AircraftTypeID   *uuid.UUID      `json:"aircraft_type_id"`
	OverrideAmount   decimal.Decimal `json:"override_amount"`
}

// BatchOverrideRequest applies several override upserts atomically
type BatchOverrideRequest struct {
	Overrides []OverrideRequest `json:"overrides" binding:"required"`
}

// ClassificationRequest represents the create/update classification request
type ClassificationRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// AircraftTypeRequest represents the create/update aircraft type request
type AircraftTypeRequest struct {
	ICAOCode         string          `json:"icao_code" binding:"required"`
	Name             string          `json:"name"`
	ClassificationID uuid.UUID       `json:"classification_id" binding:"required"`
	MaxTakeoffWeight decimal.Decimal `json:"max_takeoff_weight"`
}

// FuelTypeRequest represents the create/update fuel type request
type FuelTypeRequest struct {
	Code                  string          `json:"code" binding:"required"`
	Name                  string          `json:"name"`
	CurrentPricePerGallon decimal.Decimal `json:"current_price_per_gallon"`
}

// FuelPriceRequest updates the pump price only
type FuelPriceRequest struct {
	PricePerGallon decimal.Decimal `json:"price_per_gallon"`
}

// CustomerRequest represents the create/update customer request
type CustomerRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	IsCAAMember bool    `json:"is_caa_member"`
}
