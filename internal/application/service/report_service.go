package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
)

// ReportService produces the dashboard stats and the receipts CSV export
type ReportService struct {
	receiptRepo repository.ReceiptRepository
}

// NewReportService creates a new report service
func NewReportService(receiptRepo repository.ReceiptRepository) *ReportService {
	return &ReportService{receiptRepo: receiptRepo}
}

// DashboardStats is the back-office landing page summary
type DashboardStats struct {
	DraftCount     int64                     `json:"draft_count"`
	GeneratedCount int64                     `json:"generated_count"`
	PaidCount      int64                     `json:"paid_count"`
	VoidCount      int64                     `json:"void_count"`
	RevenueToday   string                    `json:"revenue_today"`
	RevenueMonth   string                    `json:"revenue_month"`
	FuelToday      string                    `json:"fuel_gallons_today"`
	FuelMonth      string                    `json:"fuel_gallons_month"`
	TopFeeCodes    []repository.FeeCodeCount `json:"top_fee_codes"`
}

// GetDashboardStats assembles the dashboard summary. Revenue counts PAID
// receipts only; fuel gallons exclude voided receipts.
func (s *ReportService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		status enum.ReceiptStatus
		dest   *int64
	}{
		{enum.ReceiptStatusDraft, &stats.DraftCount},
		{enum.ReceiptStatusGenerated, &stats.GeneratedCount},
		{enum.ReceiptStatusPaid, &stats.PaidCount},
		{enum.ReceiptStatusVoid, &stats.VoidCount},
	}
	for _, c := range counts {
		count, err := s.receiptRepo.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = count
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := startOfDay.AddDate(0, 0, 1)

	var err error
	if stats.RevenueToday, err = s.receiptRepo.RevenueBetween(ctx, startOfDay, end); err != nil {
		return nil, err
	}
	if stats.RevenueMonth, err = s.receiptRepo.RevenueBetween(ctx, startOfMonth, end); err != nil {
		return nil, err
	}
	if stats.FuelToday, err = s.receiptRepo.FuelGallonsBetween(ctx, startOfDay, end); err != nil {
		return nil, err
	}
	if stats.FuelMonth, err = s.receiptRepo.FuelGallonsBetween(ctx, startOfMonth, end); err != nil {
		return nil, err
	}
	if stats.TopFeeCodes, err = s.receiptRepo.TopFeeCodes(ctx, startOfMonth, end, 5); err != nil {
		return nil, err
	}

	return stats, nil
}

var csvHeader = []string{
	"receipt_no",
	"status",
	"created_at",
	"customer",
	"tail_number",
	"aircraft_type",
	"caa_member",
	"fuel_quantity",
	"fuel_subtotal",
	"total_fees",
	"total_waivers",
	"tax_amount",
	"grand_total",
	"payment_method",
	"void_reason",
}

// ExportReceiptsCSV streams receipts matching the filters as RFC-4180 CSV:
// a header row plus one row per receipt.
func (s *ReportService) ExportReceiptsCSV(ctx context.Context, params *repository.ReceiptFilterParams, w io.Writer) error {
	receipts, err := s.receiptRepo.ListAll(ctx, params)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range receipts {
		if err := cw.Write(receiptCSVRow(&receipts[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func receiptCSVRow(r *entity.Receipt) []string {
	receiptNo := ""
	if r.ReceiptNo != nil {
		receiptNo = *r.ReceiptNo
	}
	customer := ""
	if r.Customer != nil {
		customer = r.Customer.Name
	}
	aircraftType := ""
	if r.AircraftType != nil {
		aircraftType = r.AircraftType.ICAOCode
	}
	paymentMethod := ""
	if r.PaymentMethod != nil {
		paymentMethod = *r.PaymentMethod
	}
	voidReason := ""
	if r.VoidReason != nil {
		voidReason = *r.VoidReason
	}

	return []string{
		receiptNo,
		r.Status.String(),
		r.CreatedAt.UTC().Format(time.RFC3339),
		customer,
		r.TailNumber,
		aircraftType,
		fmt.Sprintf("%t", r.IsCAAMember),
		r.FuelQuantity.String(),
		r.FuelSubtotal.StringFixed(2),
		r.TotalFees.StringFixed(2),
		r.TotalWaivers.StringFixed(2),
		r.TaxAmount.StringFixed(2),
		r.GrandTotal.StringFixed(2),
		paymentMethod,
		voidReason,
	}
}
