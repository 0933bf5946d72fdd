package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aerocrest/fbo-api/internal/application/calc"
	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/pkg/apperror"
	"github.com/aerocrest/fbo-api/pkg/email"
	"github.com/aerocrest/fbo-api/pkg/pagination"
	"github.com/aerocrest/fbo-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptService owns the receipt lifecycle. Status transitions and totals are
// decided here; handlers and clients only relay its output.
type ReceiptService struct {
	receiptRepo  repository.ReceiptRepository
	customerRepo repository.CustomerRepository
	aircraftRepo repository.AircraftRepository
	fuelTypeRepo repository.FuelTypeRepository
	feeRuleRepo  repository.FeeRuleRepository
	emailService *email.Service

	taxRate      decimal.Decimal
	numberPrefix string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	customerRepo repository.CustomerRepository,
	aircraftRepo repository.AircraftRepository,
	fuelTypeRepo repository.FuelTypeRepository,
	feeRuleRepo repository.FeeRuleRepository,
	emailService *email.Service,
	taxRate decimal.Decimal,
	numberPrefix string,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:  receiptRepo,
		customerRepo: customerRepo,
		aircraftRepo: aircraftRepo,
		fuelTypeRepo: fuelTypeRepo,
		feeRuleRepo:  feeRuleRepo,
		emailService: emailService,
		taxRate:      taxRate,
		numberPrefix: numberPrefix,
	}
}

// CreateDraftInput represents the create draft input. All fields except the
// creator are optional; a fresh draft defaults to the walk-in customer.
type CreateDraftInput struct {
	CreatedByID      uuid.UUID
	CustomerID       *uuid.UUID
	AircraftTypeID   *uuid.UUID
	TailNumber       string
	IsCAAMember      *bool
	FuelTypeID       *uuid.UUID
	FuelQuantity     *decimal.Decimal
	FuelPricePerUnit *decimal.Decimal
	Notes            string
}

// CreateDraft creates a new DRAFT receipt
func (s *ReceiptService) CreateDraft(ctx context.Context, input *CreateDraftInput) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Status:      enum.ReceiptStatusDraft,
		CreatedByID: input.CreatedByID,
		TailNumber:  input.TailNumber,
		Notes:       input.Notes,
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		receipt.CustomerID = customer.ID
		receipt.IsCAAMember = customer.IsCAAMember
	} else {
		placeholder, err := s.customerRepo.GetPlaceholder(ctx)
		if err != nil {
			return nil, err
		}
		if placeholder == nil {
			return nil, apperror.NewAppError(http.StatusInternalServerError, "Walk-in placeholder customer is not seeded")
		}
		receipt.CustomerID = placeholder.ID
	}
	if input.IsCAAMember != nil {
		receipt.IsCAAMember = *input.IsCAAMember
	}

	if input.AircraftTypeID != nil {
		aircraftType, err := s.aircraftRepo.GetType(ctx, *input.AircraftTypeID)
		if err != nil {
			return nil, err
		}
		if aircraftType == nil {
			return nil, apperror.NewNotFoundError("Aircraft type")
		}
		receipt.AircraftTypeID = input.AircraftTypeID
	}

	if input.FuelTypeID != nil {
		fuelType, err := s.fuelTypeRepo.GetByID(ctx, *input.FuelTypeID)
		if err != nil {
			return nil, err
		}
		if fuelType == nil {
			return nil, apperror.NewNotFoundError("Fuel type")
		}
		receipt.FuelTypeID = input.FuelTypeID
		// Snapshot the current pump price unless the caller pinned one.
		receipt.FuelPricePerUnit = fuelType.CurrentPricePerGallon
	}
	if input.FuelQuantity != nil {
		receipt.FuelQuantity = *input.FuelQuantity
	}
	if input.FuelPricePerUnit != nil {
		receipt.FuelPricePerUnit = *input.FuelPricePerUnit
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	if receipt.FuelQuantity.IsPositive() {
		if err := s.recalculate(ctx, receipt, nil, nil, nil); err != nil {
			return nil, err
		}
	}

	return s.receiptRepo.GetByID(ctx, receipt.ID)
}

// GetReceipt retrieves a receipt by ID with line items and relations
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// GetReceiptByNumber looks up a generated receipt by its assigned number,
// e.g. for a reprint from a customer's paper copy.
func (s *ReceiptService) GetReceiptByNumber(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByReceiptNo(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists receipts with filters and pagination
func (s *ReceiptService) ListReceipts(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// UpdateDraftInput represents a partial update of the editable draft fields.
// Nil pointers leave fields untouched.
type UpdateDraftInput struct {
	CustomerID       *uuid.UUID
	AircraftTypeID   *uuid.UUID
	TailNumber       *string
	IsCAAMember      *bool
	FuelTypeID       *uuid.UUID
	FuelQuantity     *decimal.Decimal
	FuelPricePerUnit *decimal.Decimal
	Notes            *string
}

// UpdateDraft patches editable fields on a DRAFT receipt and recomputes totals
// when a billing-relevant field changed. Non-DRAFT receipts return 409.
func (s *ReceiptService) UpdateDraft(ctx context.Context, id uuid.UUID, input *UpdateDraftInput) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.IsEditable() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Receipt is %s and can no longer be edited", receipt.Status))
	}

	// The persisted line items reflect this snapshot; manual waiver toggles are
	// reconstructed against it before the edited values take effect.
	prev := &billingSnapshot{FuelQuantity: receipt.FuelQuantity, IsCAAMember: receipt.IsCAAMember}

	fields := map[string]interface{}{}
	recalcNeeded := false

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		fields["customer_id"] = *input.CustomerID
		// CAA membership follows the customer unless explicitly overridden.
		if input.IsCAAMember == nil && customer.IsCAAMember != receipt.IsCAAMember {
			fields["is_caa_member"] = customer.IsCAAMember
			receipt.IsCAAMember = customer.IsCAAMember
			recalcNeeded = true
		}
	}
	if input.AircraftTypeID != nil {
		aircraftType, err := s.aircraftRepo.GetType(ctx, *input.AircraftTypeID)
		if err != nil {
			return nil, err
		}
		if aircraftType == nil {
			return nil, apperror.NewNotFoundError("Aircraft type")
		}
		fields["aircraft_type_id"] = *input.AircraftTypeID
		receipt.AircraftTypeID = input.AircraftTypeID
		receipt.AircraftType = aircraftType
		recalcNeeded = true
	}
	if input.TailNumber != nil {
		fields["tail_number"] = *input.TailNumber
	}
	if input.IsCAAMember != nil {
		fields["is_caa_member"] = *input.IsCAAMember
		receipt.IsCAAMember = *input.IsCAAMember
		recalcNeeded = true
	}
	if input.FuelTypeID != nil {
		fuelType, err := s.fuelTypeRepo.GetByID(ctx, *input.FuelTypeID)
		if err != nil {
			return nil, err
		}
		if fuelType == nil {
			return nil, apperror.NewNotFoundError("Fuel type")
		}
		fields["fuel_type_id"] = *input.FuelTypeID
		receipt.FuelTypeID = input.FuelTypeID
		receipt.FuelType = fuelType
		if input.FuelPricePerUnit == nil {
			fields["fuel_price_per_unit"] = fuelType.CurrentPricePerGallon
			receipt.FuelPricePerUnit = fuelType.CurrentPricePerGallon
		}
		recalcNeeded = true
	}
	if input.FuelQuantity != nil {
		if input.FuelQuantity.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "fuel_quantity", Message: "must not be negative"},
			})
		}
		fields["fuel_quantity"] = *input.FuelQuantity
		receipt.FuelQuantity = *input.FuelQuantity
		recalcNeeded = true
	}
	if input.FuelPricePerUnit != nil {
		if input.FuelPricePerUnit.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "fuel_price_per_unit", Message: "must not be negative"},
			})
		}
		fields["fuel_price_per_unit"] = *input.FuelPricePerUnit
		receipt.FuelPricePerUnit = *input.FuelPricePerUnit
		recalcNeeded = true
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if len(fields) > 0 {
		if err := s.receiptRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	if recalcNeeded {
		if err := s.recalculate(ctx, receipt, currentFeeRequests(receipt), nil, prev); err != nil {
			return nil, err
		}
	}

	return s.receiptRepo.GetByID(ctx, id)
}

// FeeInput names one fee to charge on a receipt.
type FeeInput struct {
	FeeCode  string
	Quantity decimal.Decimal
}

// RecalculateFees replaces the receipt's fee set with the requested codes and
// recomputes all line items. Manual waiver toggles are preserved for fee codes
// that remain in the set.
func (s *ReceiptService) RecalculateFees(ctx context.Context, id uuid.UUID, fees []FeeInput) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.IsEditable() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Receipt is %s and can no longer be edited", receipt.Status))
	}

	requests := make([]calc.FeeRequest, 0, len(fees))
	for _, f := range fees {
		if f.FeeCode == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "fee_code", Message: "must not be empty"},
			})
		}
		requests = append(requests, calc.FeeRequest{FeeCode: f.FeeCode, Quantity: f.Quantity})
	}

	if err := s.recalculate(ctx, receipt, requests, nil, nil); err != nil {
		return nil, err
	}
	return s.receiptRepo.GetByID(ctx, id)
}

// ToggleWaiver flips the waiver state of the fee referenced by the given line
// item (a FEE line or its offsetting WAIVER line) and recomputes the receipt.
// Toggling the same line twice restores the original state.
func (s *ReceiptService) ToggleWaiver(ctx context.Context, id, lineItemID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.IsEditable() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Receipt is %s and can no longer be edited", receipt.Status))
	}

	var feeCode string
	for _, li := range receipt.LineItems {
		if li.ID != lineItemID {
			continue
		}
		if li.Type != enum.LineItemTypeFee && li.Type != enum.LineItemTypeWaiver {
			return nil, apperror.NewBadRequestError("Only fee line items can be waived")
		}
		feeCode = li.FeeCode
	}
	if feeCode == "" {
		return nil, apperror.NewNotFoundError("Line item")
	}

	if err := s.recalculate(ctx, receipt, currentFeeRequests(receipt), &feeCode, nil); err != nil {
		return nil, err
	}
	return s.receiptRepo.GetByID(ctx, id)
}

// Generate transitions DRAFT → GENERATED, assigning the receipt number and
// freezing further edits.
func (s *ReceiptService) Generate(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.CanTransitionTo(enum.ReceiptStatusGenerated) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Receipt is %s and cannot be generated", receipt.Status))
	}

	now := time.Now().UTC()
	seq, err := s.receiptRepo.NextReceiptNumber(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	receiptNo := utils.FormatReceiptNo(s.numberPrefix, now.Year(), seq)

	err = s.receiptRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":       enum.ReceiptStatusGenerated,
		"receipt_no":   receiptNo,
		"generated_at": now,
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emailReceipt(updated)
	return updated, nil
}

// MarkPaid transitions GENERATED → PAID with the given payment method.
func (s *ReceiptService) MarkPaid(ctx context.Context, id uuid.UUID, paymentMethod string) (*entity.Receipt, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.CanTransitionTo(enum.ReceiptStatusPaid) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Receipt is %s and cannot be marked paid", receipt.Status))
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, apperror.NewBadRequestError("Payment method is required")
	}

	err = s.receiptRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":         enum.ReceiptStatusPaid,
		"payment_method": paymentMethod,
		"paid_at":        time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.GetByID(ctx, id)
}

// Void transitions GENERATED or PAID → VOID. A reason is mandatory.
func (s *ReceiptService) Void(ctx context.Context, id uuid.UUID, reason string) (*entity.Receipt, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.NewBadRequestError("Void reason is required")
	}

	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !receipt.Status.CanTransitionTo(enum.ReceiptStatusVoid) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Receipt is %s and cannot be voided", receipt.Status))
	}

	err = s.receiptRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":      enum.ReceiptStatusVoid,
		"void_reason": reason,
		"voided_at":   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.GetByID(ctx, id)
}

// DeleteDraft soft-deletes a DRAFT receipt. Generated receipts are part of the
// audit trail and can only be voided.
func (s *ReceiptService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return err
	}
	if receipt.Status != enum.ReceiptStatusDraft {
		return apperror.NewConflictError(fmt.Sprintf("Receipt is %s; only drafts can be deleted", receipt.Status))
	}
	return s.receiptRepo.Delete(ctx, id)
}

// billingSnapshot captures the waiver-relevant fields a line-item set was
// computed under.
type billingSnapshot struct {
	FuelQuantity decimal.Decimal
	IsCAAMember  bool
}

// recalculate runs the fee calculator against the receipt's current snapshot
// and persists the resulting line items and totals. fees nil means "keep the
// current fee set"; flipCode, when set, inverts the manual waiver toggle for
// that fee code; prev, when set, is the snapshot the stored line items were
// computed under (nil when nothing waiver-relevant changed).
func (s *ReceiptService) recalculate(ctx context.Context, receipt *entity.Receipt, fees []calc.FeeRequest, flipCode *string, prev *billingSnapshot) error {
	if fees == nil {
		fees = currentFeeRequests(receipt)
	}
	if prev == nil {
		prev = &billingSnapshot{FuelQuantity: receipt.FuelQuantity, IsCAAMember: receipt.IsCAAMember}
	}

	codes := make([]string, 0, len(fees))
	for _, f := range fees {
		codes = append(codes, f.FeeCode)
	}

	rules := map[string]calc.ResolvedRule{}
	if len(codes) > 0 {
		ruleEntities, err := s.feeRuleRepo.GetByCodes(ctx, codes)
		if err != nil {
			return err
		}
		byCode := map[string]entity.FeeRule{}
		for _, r := range ruleEntities {
			byCode[r.FeeCode] = r
		}
		for _, code := range codes {
			rule, ok := byCode[code]
			if !ok {
				return apperror.NewValidationError([]apperror.FieldError{
					{Field: "fee_code", Message: fmt.Sprintf("unknown fee code %q", code)},
				})
			}
			rules[code] = calc.ResolveRule(rule, receipt.AircraftType)
		}
	}

	toggles := manualWaiverToggles(receipt, rules, prev)
	if flipCode != nil {
		toggles[*flipCode] = !toggles[*flipCode]
	}

	result := calc.Calculate(calc.Input{
		FuelDescription:     fuelDescription(receipt),
		FuelQuantity:        receipt.FuelQuantity,
		FuelPricePerUnit:    receipt.FuelPricePerUnit,
		IsCAAMember:         receipt.IsCAAMember,
		Fees:                fees,
		Rules:               rules,
		ManualWaiverToggles: toggles,
		TaxRate:             s.taxRate,
	})

	receipt.FuelSubtotal = result.FuelSubtotal
	receipt.TotalFees = result.TotalFees
	receipt.TotalWaivers = result.TotalWaivers
	receipt.TaxAmount = result.TaxAmount
	receipt.GrandTotal = result.GrandTotal

	return s.receiptRepo.ReplaceLineItems(ctx, receipt, result.LineItems)
}

// emailReceipt sends the generated receipt to the customer when they have an
// email on file. Failures are logged, never surfaced; the receipt is already
// generated.
func (s *ReceiptService) emailReceipt(receipt *entity.Receipt) {
	if s.emailService == nil || receipt == nil || receipt.Customer == nil {
		return
	}
	if receipt.Customer.Email == nil || *receipt.Customer.Email == "" || receipt.Customer.IsPlaceholder {
		return
	}
	receiptNo := ""
	if receipt.ReceiptNo != nil {
		receiptNo = *receipt.ReceiptNo
	}
	err := s.emailService.SendReceiptEmail(*receipt.Customer.Email, email.ReceiptEmailData{
		ReceiptNo:    receiptNo,
		CustomerName: receipt.Customer.Name,
		TailNumber:   receipt.TailNumber,
		GrandTotal:   receipt.GrandTotal.StringFixed(2),
	})
	if err != nil {
		log.Printf("Warning: failed to email receipt %s: %v", receiptNo, err)
	}
}

// currentFeeRequests extracts the receipt's FEE lines as calculator requests,
// preserving display order and quantities.
func currentFeeRequests(receipt *entity.Receipt) []calc.FeeRequest {
	fees := receipt.FeeLineItems()
	requests := make([]calc.FeeRequest, 0, len(fees))
	for _, li := range fees {
		requests = append(requests, calc.FeeRequest{FeeCode: li.FeeCode, Quantity: li.Quantity})
	}
	return requests
}

// manualWaiverToggles reconstructs the user's manual waiver flips from the
// stored line items: a fee whose persisted waiver state differs from what the
// automatic policy produced under the original snapshot was toggled by hand.
func manualWaiverToggles(receipt *entity.Receipt, rules map[string]calc.ResolvedRule, prev *billingSnapshot) map[string]bool {
	toggles := map[string]bool{}
	for _, li := range receipt.FeeLineItems() {
		rule, ok := rules[li.FeeCode]
		if !ok {
			continue
		}
		minimum := rule.WaiverMinimumFuelGallons
		if prev.IsCAAMember && rule.CAAWaiverMinimumFuel != nil {
			minimum = *rule.CAAWaiverMinimumFuel
		}
		autoWaived := rule.IsWaivableByFuelUplift &&
			minimum.IsPositive() &&
			prev.FuelQuantity.GreaterThanOrEqual(minimum)
		waived := receipt.WaiverFor(li.FeeCode) != nil
		if waived != autoWaived {
			toggles[li.FeeCode] = true
		}
	}
	return toggles
}

// fuelDescription renders the FUEL line description from the snapshot,
// e.g. "Jet A (120.0 gal @ $5.75)".
func fuelDescription(receipt *entity.Receipt) string {
	name := "Fuel"
	if receipt.FuelType != nil {
		name = receipt.FuelType.Name
	}
	return fmt.Sprintf("%s (%s gal @ $%s)",
		name,
		receipt.FuelQuantity.StringFixed(1),
		receipt.FuelPricePerUnit.StringFixed(2),
	)
}
