package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	domainRepo "github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("AircraftType.Classification").
		Preload("FuelType").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).First(&receipt, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ReplaceLineItems swaps the line-item set and totals atomically. Old rows are
// hard-deleted; line items have no soft-delete lifecycle of their own.
func (r *receiptRepository) ReplaceLineItems(ctx context.Context, receipt *entity.Receipt, items []entity.ReceiptLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("receipt_id = ?", receipt.ID).
			Delete(&entity.ReceiptLineItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.Nil // force fresh IDs
			items[i].ReceiptID = receipt.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.Receipt{}).Where("id = ?", receipt.ID).Updates(map[string]interface{}{
			"fuel_subtotal": receipt.FuelSubtotal,
			"total_fees":    receipt.TotalFees,
			"total_waivers": receipt.TotalWaivers,
			"tax_amount":    receipt.TaxAmount,
			"grand_total":   receipt.GrandTotal,
		}).Error
	})
}

func (r *receiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Receipt{}, "id = ?", id).Error
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Receipt{}), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("AircraftType").
		Order(sortBy + " " + sortOrder).
		Find(&receipts).Error

	return receipts, total, err
}

func (r *receiptRepository) ListAll(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Receipt{}), params).
		Preload("Customer").
		Preload("AircraftType").
		Order("created_at ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) applyFilters(query *gorm.DB, params *domainRepo.ReceiptFilterParams) *gorm.DB {
	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ? OR tail_number ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		// EndDate is exclusive; callers pass end-of-range + 1 day so the
		// whole final day is covered without catching the next midnight.
		query = query.Where("created_at < ?", *params.EndDate)
	}
	return query
}

// NextReceiptNumber reserves the next number in the year's sequence using an
// upsert with a row-returning increment so concurrent generations never
// collide.
func (r *receiptRepository) NextReceiptNumber(ctx context.Context, year int) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO receipt_sequences (year, last_seq) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = receipt_sequences.last_seq + 1
		RETURNING last_seq`, year).Scan(&seq).Error
	return seq, err
}

func (r *receiptRepository) CountByStatus(ctx context.Context, status enum.ReceiptStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *receiptRepository) RevenueBetween(ctx context.Context, start, end time.Time) (string, error) {
	var total *string
	err := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Select("SUM(grand_total)").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", enum.ReceiptStatusPaid, start, end).
		Scan(&total).Error
	if err != nil || total == nil {
		return "0", err
	}
	return *total, nil
}

func (r *receiptRepository) TopFeeCodes(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.FeeCodeCount, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []domainRepo.FeeCodeCount
	err := r.db.WithContext(ctx).
		Table("receipt_line_items").
		Select("receipt_line_items.fee_code AS fee_code, COUNT(*) AS count, SUM(receipt_line_items.amount) AS total_amount").
		Joins("JOIN receipts ON receipts.id = receipt_line_items.receipt_id").
		Where("receipt_line_items.type = ?", enum.LineItemTypeFee).
		Where("receipts.status <> ? AND receipts.deleted_at IS NULL", enum.ReceiptStatusVoid).
		Where("receipts.created_at >= ? AND receipts.created_at < ?", start, end).
		Group("receipt_line_items.fee_code").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *receiptRepository) FuelGallonsBetween(ctx context.Context, start, end time.Time) (string, error) {
	var total *string
	err := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Select("SUM(fuel_quantity)").
		Where("status <> ? AND created_at >= ? AND created_at < ?", enum.ReceiptStatusVoid, start, end).
		Scan(&total).Error
	if err != nil || total == nil {
		return "0", err
	}
	return *total, nil
}
