package entity

import (
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt represents a fuel/services receipt for an aircraft visit.
// All monetary totals are computed server-side by the fee calculator and
// persisted verbatim; they are never derived from line items by callers.
// Amounts serialize as decimal strings (shopspring/decimal default).
type Receipt struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo      *string            `gorm:"size:50;uniqueIndex" json:"receipt_no,omitempty"` // assigned at generation
	Status         enum.ReceiptStatus `gorm:"default:0;index" json:"status"`
	CreatedByID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CustomerID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	AircraftTypeID *uuid.UUID         `gorm:"type:uuid;index" json:"aircraft_type_id,omitempty"`
	TailNumber     string             `gorm:"size:20;index" json:"tail_number"`
	IsCAAMember    bool               `gorm:"default:false" json:"is_caa_member"`

	// Fuel snapshot captured at edit time; does not track later fuel price changes
	FuelTypeID       *uuid.UUID      `gorm:"type:uuid" json:"fuel_type_id,omitempty"`
	FuelQuantity     decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"fuel_quantity"`
	FuelPricePerUnit decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"fuel_price_per_unit"`

	Notes string `gorm:"type:text" json:"notes"`

	// Server-computed totals
	FuelSubtotal decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"fuel_subtotal"`
	TotalFees    decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"total_fees_amount"`
	TotalWaivers decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"total_waivers_amount"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"tax_amount"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"grand_total_amount"`

	PaymentMethod *string    `gorm:"size:50" json:"payment_method,omitempty"`
	VoidReason    *string    `gorm:"type:text" json:"void_reason,omitempty"`
	GeneratedAt   *time.Time `json:"generated_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	VoidedAt      *time.Time `json:"voided_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	CreatedBy    User              `gorm:"foreignKey:CreatedByID" json:"-"`
	Customer     *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	AircraftType *AircraftType     `gorm:"foreignKey:AircraftTypeID" json:"aircraft_type,omitempty"`
	FuelType     *FuelType         `gorm:"foreignKey:FuelTypeID" json:"fuel_type,omitempty"`
	LineItems    []ReceiptLineItem `gorm:"foreignKey:ReceiptID" json:"line_items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// FeeLineItems returns the FEE line items in display order.
func (r *Receipt) FeeLineItems() []ReceiptLineItem {
	items := make([]ReceiptLineItem, 0)
	for _, li := range r.LineItems {
		if li.Type == enum.LineItemTypeFee {
			items = append(items, li)
		}
	}
	return items
}

// WaiverFor returns the WAIVER line item offsetting the given fee code, if any.
// A waiver is matched to its originating fee by shared fee code.
func (r *Receipt) WaiverFor(feeCode string) *ReceiptLineItem {
	for i := range r.LineItems {
		li := &r.LineItems[i]
		if li.Type == enum.LineItemTypeWaiver && li.FeeCode == feeCode {
			return li
		}
	}
	return nil
}

// ReceiptLineItem represents a single line on a receipt
type ReceiptLineItem struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Type         enum.LineItemType  `gorm:"not null;index" json:"type"`
	FeeCode      string             `gorm:"size:50;index" json:"fee_code,omitempty"` // empty for FUEL and TAX lines
	Description  string             `gorm:"size:255;not null" json:"description"`
	Quantity     decimal.Decimal    `gorm:"type:decimal(18,4);default:1" json:"quantity"`
	UnitPrice    decimal.Decimal    `gorm:"type:decimal(18,4);default:0" json:"unit_price"`
	Amount       decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"amount"`
	WaiverSource *enum.WaiverSource `json:"waiver_source,omitempty"` // set on WAIVER lines only
	SortOrder    int                `gorm:"default:0" json:"-"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new line item
func (li *ReceiptLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptLineItem model
func (ReceiptLineItem) TableName() string {
	return "receipt_line_items"
}
