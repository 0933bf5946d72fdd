package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReceiptRequest represents the create draft request. Every field is
// optional; an empty body yields a walk-in draft.
type CreateReceiptRequest struct {
	CustomerID       *uuid.UUID       `json:"customer_id"`
	AircraftTypeID   *uuid.UUID       `json:"aircraft_type_id"`
	TailNumber       string           `json:"tail_number"`
	IsCAAMember      *bool            `json:"is_caa_member"`
	FuelTypeID       *uuid.UUID       `json:"fuel_type_id"`
	FuelQuantity     *decimal.Decimal `json:"fuel_quantity"`
	FuelPricePerUnit *decimal.Decimal `json:"fuel_price_per_unit"`
	Notes            string           `json:"notes"`
}

// UpdateReceiptRequest represents a partial draft update; nil fields are left
// untouched.
type UpdateReceiptRequest struct {
	CustomerID       *uuid.UUID       `json:"customer_id"`
	AircraftTypeID   *uuid.UUID       `json:"aircraft_type_id"`
	TailNumber       *string          `json:"tail_number"`
	IsCAAMember      *bool            `json:"is_caa_member"`
	FuelTypeID       *uuid.UUID       `json:"fuel_type_id"`
	FuelQuantity     *decimal.Decimal `json:"fuel_quantity"`
	FuelPricePerUnit *decimal.Decimal `json:"fuel_price_per_unit"`
	Notes            *string          `json:"notes"`
}

// FeeLineRequest names one fee to charge
type FeeLineRequest struct {
	FeeCode  string          `json:"fee_code" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CalculateFeesRequest replaces the receipt's fee set
type CalculateFeesRequest struct {
	Fees []FeeLineRequest `json:"fees"`
}

// MarkPaidRequest records the payment method
type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// VoidReceiptRequest voids a receipt; the reason is mandatory
type VoidReceiptRequest struct {
	Reason string `json:"reason"`
}
