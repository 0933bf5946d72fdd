package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	repository.ReceiptRepository
	receipts []entity.Receipt
}

func (r *fakeReportRepo) ListAll(_ context.Context, _ *repository.ReceiptFilterParams) ([]entity.Receipt, error) {
	return r.receipts, nil
}

func (r *fakeReportRepo) CountByStatus(_ context.Context, status enum.ReceiptStatus) (int64, error) {
	var count int64
	for _, receipt := range r.receipts {
		if receipt.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeReportRepo) RevenueBetween(_ context.Context, _, _ time.Time) (string, error) {
	return "1234.50", nil
}

func (r *fakeReportRepo) FuelGallonsBetween(_ context.Context, _, _ time.Time) (string, error) {
	return "320.0", nil
}

func (r *fakeReportRepo) TopFeeCodes(_ context.Context, _, _ time.Time, limit int) ([]repository.FeeCodeCount, error) {
	codes := []repository.FeeCodeCount{
		{FeeCode: "RAMP", Count: 12, TotalAmount: "1200.00"},
		{FeeCode: "OVERNIGHT", Count: 4, TotalAmount: "100.00"},
	}
	if len(codes) > limit {
		codes = codes[:limit]
	}
	return codes, nil
}

func TestExportReceiptsCSV(t *testing.T) {
	receiptNo := "R-2026-0001"
	method := "card"
	created := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)

	repo := &fakeReportRepo{receipts: []entity.Receipt{
		{
			ReceiptNo:     &receiptNo,
			Status:        enum.ReceiptStatusPaid,
			CreatedAt:     created,
			Customer:      &entity.Customer{Name: `Skyways "Express", LLC`},
			AircraftType:  &entity.AircraftType{ICAOCode: "GLF6"},
			TailNumber:    "N650SW",
			IsCAAMember:   true,
			FuelQuantity:  dec("120.5"),
			FuelSubtotal:  dec("602.50"),
			TotalFees:     dec("100"),
			TotalWaivers:  dec("-100"),
			TaxAmount:     dec("60.25"),
			GrandTotal:    dec("662.75"),
			PaymentMethod: &method,
		},
		{
			Status:     enum.ReceiptStatusDraft,
			CreatedAt:  created,
			TailNumber: "N123AB",
		},
	}}

	var buf bytes.Buffer
	err := NewReportService(repo).ExportReceiptsCSV(context.Background(), &repository.ReceiptFilterParams{}, &buf)
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])

	paid := rows[1]
	assert.Equal(t, "R-2026-0001", paid[0])
	assert.Equal(t, "PAID", paid[1])
	assert.Equal(t, "2026-03-14T15:09:00Z", paid[2])
	assert.Equal(t, `Skyways "Express", LLC`, paid[3])
	assert.Equal(t, "N650SW", paid[4])
	assert.Equal(t, "GLF6", paid[5])
	assert.Equal(t, "true", paid[6])
	assert.Equal(t, "120.5", paid[7])
	assert.Equal(t, "602.50", paid[8])
	assert.Equal(t, "100.00", paid[9])
	assert.Equal(t, "-100.00", paid[10])
	assert.Equal(t, "60.25", paid[11])
	assert.Equal(t, "662.75", paid[12])
	assert.Equal(t, "card", paid[13])

	// Drafts export with blank number, zero totals, and no payment details.
	draft := rows[2]
	assert.Equal(t, "", draft[0])
	assert.Equal(t, "DRAFT", draft[1])
	assert.Equal(t, "0.00", draft[12])
	assert.Equal(t, "", draft[13])
}

func TestGetDashboardStats(t *testing.T) {
	repo := &fakeReportRepo{receipts: []entity.Receipt{
		{Status: enum.ReceiptStatusDraft},
		{Status: enum.ReceiptStatusDraft},
		{Status: enum.ReceiptStatusGenerated},
		{Status: enum.ReceiptStatusPaid},
		{Status: enum.ReceiptStatusVoid},
	}}

	stats, err := NewReportService(repo).GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.DraftCount)
	assert.Equal(t, int64(1), stats.GeneratedCount)
	assert.Equal(t, int64(1), stats.PaidCount)
	assert.Equal(t, int64(1), stats.VoidCount)
	assert.Equal(t, "1234.50", stats.RevenueToday)
	assert.Equal(t, "320.0", stats.FuelMonth)
	require.Len(t, stats.TopFeeCodes, 2)
	assert.Equal(t, "RAMP", stats.TopFeeCodes[0].FeeCode)
}
