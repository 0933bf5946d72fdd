// Package fboclient provides a typed client for the FBO back-office API,
// including a debounced auto-saving editor for receipt drafts.
package fboclient

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt statuses as they appear on the wire.
const (
	StatusDraft     = "DRAFT"
	StatusGenerated = "GENERATED"
	StatusPaid      = "PAID"
	StatusVoid      = "VOID"
)

// Line item types as they appear on the wire.
const (
	LineItemFuel   = "FUEL"
	LineItemFee    = "FEE"
	LineItemWaiver = "WAIVER"
	LineItemTax    = "TAX"
)

// Receipt mirrors the server's receipt representation. Monetary fields are
// decimal strings on the wire; shopspring/decimal round-trips them without
// float drift.
type Receipt struct {
	ID               uuid.UUID       `json:"id"`
	ReceiptNo        *string         `json:"receipt_no,omitempty"`
	Status           string          `json:"status"`
	CreatedByID      uuid.UUID       `json:"created_by_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	AircraftTypeID   *uuid.UUID      `json:"aircraft_type_id,omitempty"`
	TailNumber       string          `json:"tail_number"`
	IsCAAMember      bool            `json:"is_caa_member"`
	FuelTypeID       *uuid.UUID      `json:"fuel_type_id,omitempty"`
	FuelQuantity     decimal.Decimal `json:"fuel_quantity"`
	FuelPricePerUnit decimal.Decimal `json:"fuel_price_per_unit"`
	Notes            string          `json:"notes"`

	FuelSubtotal decimal.Decimal `json:"fuel_subtotal"`
	TotalFees    decimal.Decimal `json:"total_fees_amount"`
	TotalWaivers decimal.Decimal `json:"total_waivers_amount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	GrandTotal   decimal.Decimal `json:"grand_total_amount"`

	PaymentMethod *string    `json:"payment_method,omitempty"`
	VoidReason    *string    `json:"void_reason,omitempty"`
	GeneratedAt   *time.Time `json:"generated_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	VoidedAt      *time.Time `json:"voided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Customer     *Customer      `json:"customer,omitempty"`
	AircraftType *AircraftType  `json:"aircraft_type,omitempty"`
	FuelType     *FuelType      `json:"fuel_type,omitempty"`
	LineItems    []LineItem     `json:"line_items,omitempty"`
}

// IsReadOnly reports whether the receipt is frozen. Everything past DRAFT is.
func (r *Receipt) IsReadOnly() bool {
	return r.Status != StatusDraft
}

// FeeLines returns the FEE line items in order.
func (r *Receipt) FeeLines() []LineItem {
	lines := make([]LineItem, 0)
	for _, li := range r.LineItems {
		if li.Type == LineItemFee {
			lines = append(lines, li)
		}
	}
	return lines
}

// LineItem mirrors a single receipt line.
type LineItem struct {
	ID           uuid.UUID       `json:"id"`
	ReceiptID    uuid.UUID       `json:"receipt_id"`
	Type         string          `json:"type"`
	FeeCode      string          `json:"fee_code,omitempty"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
	WaiverSource *string         `json:"waiver_source,omitempty"`
}

// Customer mirrors the server's customer representation.
type Customer struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	IsCAAMember   bool      `json:"is_caa_member"`
	IsPlaceholder bool      `json:"is_placeholder"`
}

// AircraftType mirrors the server's aircraft type representation.
type AircraftType struct {
	ID               uuid.UUID              `json:"id"`
	ICAOCode         string                 `json:"icao_code"`
	Name             string                 `json:"name"`
	ClassificationID uuid.UUID              `json:"classification_id"`
	MaxTakeoffWeight decimal.Decimal        `json:"max_takeoff_weight"`
	Classification   *AircraftClassification `json:"classification,omitempty"`
}

// AircraftClassification mirrors the server's classification representation.
type AircraftClassification struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
}

// FuelType mirrors the server's fuel type representation.
type FuelType struct {
	ID                    uuid.UUID       `json:"id"`
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	CurrentPricePerGallon decimal.Decimal `json:"current_price_per_gallon"`
}

// FeeRule mirrors the server's fee rule representation.
type FeeRule struct {
	ID                          uuid.UUID         `json:"id"`
	FeeCode                     string            `json:"fee_code"`
	Description                 string            `json:"description"`
	ClassificationID            *uuid.UUID        `json:"classification_id,omitempty"`
	Amount                      decimal.Decimal   `json:"amount"`
	CalculationBasis            string            `json:"calculation_basis"`
	IsWaivableByFuelUplift      bool              `json:"is_waivable_by_fuel_uplift"`
	WaiverMinimumFuelGallons    decimal.Decimal   `json:"waiver_minimum_fuel_gallons"`
	HasCAAOverride              bool              `json:"has_caa_override"`
	CAAOverrideAmount           *decimal.Decimal  `json:"caa_override_amount,omitempty"`
	CAAWaiverMinimumFuelGallons *decimal.Decimal  `json:"caa_waiver_minimum_fuel_gallons,omitempty"`
	Overrides                   []FeeRuleOverride `json:"overrides,omitempty"`
}

// FeeRuleOverride mirrors the server's override representation.
type FeeRuleOverride struct {
	ID               uuid.UUID       `json:"id"`
	FeeRuleID        uuid.UUID       `json:"fee_rule_id"`
	ClassificationID *uuid.UUID      `json:"classification_id,omitempty"`
	AircraftTypeID   *uuid.UUID      `json:"aircraft_type_id,omitempty"`
	OverrideAmount   decimal.Decimal `json:"override_amount"`
}

// User mirrors the server's staff account representation.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// DashboardStats mirrors the server's dashboard payload.
type DashboardStats struct {
	DraftCount     int64           `json:"draft_count"`
	GeneratedCount int64           `json:"generated_count"`
	PaidCount      int64           `json:"paid_count"`
	VoidCount      int64           `json:"void_count"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	RevenueMonth   decimal.Decimal `json:"revenue_month"`
	FuelToday      decimal.Decimal `json:"fuel_gallons_today"`
	FuelMonth      decimal.Decimal `json:"fuel_gallons_month"`
	TopFeeCodes    json.RawMessage `json:"top_fee_codes,omitempty"`
}

// AuthTokens is the payload returned by login and refresh.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// FeeLine names one fee to charge when recalculating.
type FeeLine struct {
	FeeCode  string          `json:"fee_code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Pagination carries paging metadata from list endpoints.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// APIError is the error returned when the server responds with a failure
// envelope. It preserves the HTTP status, the server message, and any field
// validation errors.
type APIError struct {
	StatusCode int
	Message    string
	Errors     json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 404
}

// IsConflict reports whether err is an APIError with status 409.
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 409
}
