package repository

import (
	"context"
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/pkg/pagination"
	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	// GetByID loads the receipt with customer, aircraft type, fuel type and
	// line items preloaded; returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error)
	// UpdateFields patches scalar columns without touching line items.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ReplaceLineItems swaps the receipt's full line-item set and totals in one
	// transaction; the calculator output is authoritative.
	ReplaceLineItems(ctx context.Context, receipt *entity.Receipt, items []entity.ReceiptLineItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// ListAll returns every receipt matching the filters without pagination,
	// used by the CSV export.
	ListAll(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, error)
	// NextReceiptNumber reserves the next number in the given year's sequence.
	NextReceiptNumber(ctx context.Context, year int) (int64, error)
	CountByStatus(ctx context.Context, status enum.ReceiptStatus) (int64, error)
	// RevenueBetween sums grand totals of PAID receipts in [start, end).
	RevenueBetween(ctx context.Context, start, end time.Time) (string, error)
	// FuelGallonsBetween sums fuel quantity on non-VOID receipts in [start, end).
	FuelGallonsBetween(ctx context.Context, start, end time.Time) (string, error)
	// TopFeeCodes ranks FEE line items on non-VOID receipts in [start, end)
	// by charge count.
	TopFeeCodes(ctx context.Context, start, end time.Time, limit int) ([]FeeCodeCount, error)
}

// FeeCodeCount is one row of the top-fee-codes dashboard ranking
type FeeCodeCount struct {
	FeeCode     string `json:"fee_code"`
	Count       int64  `json:"count"`
	TotalAmount string `json:"total_amount"`
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches receipt number or tail number
	Status     *enum.ReceiptStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
