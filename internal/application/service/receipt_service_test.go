package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeReceiptRepo keeps receipts in memory. Unused interface methods panic
// through the embedded nil.
type fakeReceiptRepo struct {
	repository.ReceiptRepository
	receipts map[uuid.UUID]*entity.Receipt
	seq      int64
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*entity.Receipt)}
}

func (r *fakeReceiptRepo) Create(_ context.Context, receipt *entity.Receipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	stored := *receipt
	r.receipts[receipt.ID] = &stored
	return nil
}

func (r *fakeReceiptRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Receipt, error) {
	stored, ok := r.receipts[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	copied.LineItems = append([]entity.ReceiptLineItem(nil), stored.LineItems...)
	return &copied, nil
}

func (r *fakeReceiptRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	stored, ok := r.receipts[id]
	if !ok {
		return fmt.Errorf("receipt %s not found", id)
	}
	for field, value := range fields {
		switch field {
		case "status":
			stored.Status = value.(enum.ReceiptStatus)
		case "receipt_no":
			receiptNo := value.(string)
			stored.ReceiptNo = &receiptNo
		case "generated_at":
			t := value.(time.Time)
			stored.GeneratedAt = &t
		case "payment_method":
			method := value.(string)
			stored.PaymentMethod = &method
		case "paid_at":
			t := value.(time.Time)
			stored.PaidAt = &t
		case "void_reason":
			reason := value.(string)
			stored.VoidReason = &reason
		case "voided_at":
			t := value.(time.Time)
			stored.VoidedAt = &t
		case "customer_id":
			stored.CustomerID = value.(uuid.UUID)
		case "aircraft_type_id":
			id := value.(uuid.UUID)
			stored.AircraftTypeID = &id
		case "tail_number":
			stored.TailNumber = value.(string)
		case "is_caa_member":
			stored.IsCAAMember = value.(bool)
		case "fuel_type_id":
			id := value.(uuid.UUID)
			stored.FuelTypeID = &id
		case "fuel_quantity":
			stored.FuelQuantity = value.(decimal.Decimal)
		case "fuel_price_per_unit":
			stored.FuelPricePerUnit = value.(decimal.Decimal)
		case "notes":
			stored.Notes = value.(string)
		}
	}
	return nil
}

func (r *fakeReceiptRepo) ReplaceLineItems(_ context.Context, receipt *entity.Receipt, items []entity.ReceiptLineItem) error {
	stored, ok := r.receipts[receipt.ID]
	if !ok {
		return fmt.Errorf("receipt %s not found", receipt.ID)
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].ReceiptID = receipt.ID
	}
	stored.LineItems = items
	stored.FuelSubtotal = receipt.FuelSubtotal
	stored.TotalFees = receipt.TotalFees
	stored.TotalWaivers = receipt.TotalWaivers
	stored.TaxAmount = receipt.TaxAmount
	stored.GrandTotal = receipt.GrandTotal
	return nil
}

func (r *fakeReceiptRepo) GetByReceiptNo(_ context.Context, receiptNo string) (*entity.Receipt, error) {
	for id, receipt := range r.receipts {
		if receipt.ReceiptNo != nil && *receipt.ReceiptNo == receiptNo {
			return r.GetByID(context.Background(), id)
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.receipts, id)
	return nil
}

func (r *fakeReceiptRepo) NextReceiptNumber(_ context.Context, _ int) (int64, error) {
	r.seq++
	return r.seq, nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers   map[uuid.UUID]*entity.Customer
	placeholder *entity.Customer
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetPlaceholder(_ context.Context) (*entity.Customer, error) {
	return r.placeholder, nil
}

type fakeAircraftRepo struct {
	repository.AircraftRepository
	types map[uuid.UUID]*entity.AircraftType
}

func (r *fakeAircraftRepo) GetType(_ context.Context, id uuid.UUID) (*entity.AircraftType, error) {
	return r.types[id], nil
}

type fakeFuelTypeRepo struct {
	repository.FuelTypeRepository
	fuelTypes map[uuid.UUID]*entity.FuelType
}

func (r *fakeFuelTypeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.FuelType, error) {
	return r.fuelTypes[id], nil
}

type fakeFeeRuleRepo struct {
	repository.FeeRuleRepository
	rules map[string]entity.FeeRule
}

func (r *fakeFeeRuleRepo) GetByCodes(_ context.Context, feeCodes []string) ([]entity.FeeRule, error) {
	var found []entity.FeeRule
	for _, code := range feeCodes {
		if rule, ok := r.rules[code]; ok {
			found = append(found, rule)
		}
	}
	return found, nil
}

type receiptFixture struct {
	service      *ReceiptService
	receipts     *fakeReceiptRepo
	walkIn       *entity.Customer
	member       *entity.Customer
	jetA         *entity.FuelType
	heavyJet     *entity.AircraftType
	csrID        uuid.UUID
}

func newReceiptFixture() *receiptFixture {
	walkIn := &entity.Customer{ID: uuid.New(), Name: "Walk-in Customer", IsPlaceholder: true}
	memberEmail := "ops@skyways.example"
	member := &entity.Customer{ID: uuid.New(), Name: "Skyways Charter", Email: &memberEmail, IsCAAMember: true}

	jetA := &entity.FuelType{ID: uuid.New(), Code: "JET_A", Name: "Jet A", CurrentPricePerGallon: dec("5.00")}

	classID := uuid.New()
	heavyJet := &entity.AircraftType{ID: uuid.New(), ICAOCode: "GLF6", Name: "Gulfstream G650", ClassificationID: classID}

	rules := map[string]entity.FeeRule{
		"RAMP": {
			ID:                       uuid.New(),
			FeeCode:                  "RAMP",
			Description:              "Ramp Fee",
			Amount:                   dec("100.00"),
			CalculationBasis:         enum.CalculationBasisFixed,
			IsWaivableByFuelUplift:   true,
			WaiverMinimumFuelGallons: dec("75"),
		},
		"FACILITY": {
			ID:               uuid.New(),
			FeeCode:          "FACILITY",
			Description:      "Facility Fee",
			Amount:           dec("50.00"),
			CalculationBasis: enum.CalculationBasisFixed,
		},
	}

	receipts := newFakeReceiptRepo()
	svc := NewReceiptService(
		receipts,
		&fakeCustomerRepo{
			customers:   map[uuid.UUID]*entity.Customer{walkIn.ID: walkIn, member.ID: member},
			placeholder: walkIn,
		},
		&fakeAircraftRepo{types: map[uuid.UUID]*entity.AircraftType{heavyJet.ID: heavyJet}},
		&fakeFuelTypeRepo{fuelTypes: map[uuid.UUID]*entity.FuelType{jetA.ID: jetA}},
		&fakeFeeRuleRepo{rules: rules},
		nil, // no email in tests
		dec("0.10"),
		"R",
	)

	return &receiptFixture{
		service:  svc,
		receipts: receipts,
		walkIn:   walkIn,
		member:   member,
		jetA:     jetA,
		heavyJet: heavyJet,
		csrID:    uuid.New(),
	}
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apperror.GetAppError(err).Code
}

func TestCreateDraft_DefaultsToWalkIn(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	assert.Equal(t, enum.ReceiptStatusDraft, receipt.Status)
	assert.Equal(t, fx.walkIn.ID, receipt.CustomerID)
	assert.Nil(t, receipt.ReceiptNo)
	assert.False(t, receipt.IsCAAMember)
	assert.Empty(t, receipt.LineItems)
}

func TestCreateDraft_InheritsCAAMembership(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID: fx.csrID,
		CustomerID:  &fx.member.ID,
	})
	require.NoError(t, err)
	assert.True(t, receipt.IsCAAMember)

	// An explicit flag overrides the customer's membership.
	notMember := false
	receipt, err = fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID: fx.csrID,
		CustomerID:  &fx.member.ID,
		IsCAAMember: &notMember,
	})
	require.NoError(t, err)
	assert.False(t, receipt.IsCAAMember)
}

func TestCreateDraft_SnapshotsFuelPrice(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	qty := dec("100")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)

	assert.Equal(t, "5", receipt.FuelPricePerUnit.String())
	assert.Equal(t, "500", receipt.FuelSubtotal.String())

	// A later pump price change must not touch the snapshot.
	fx.jetA.CurrentPricePerGallon = dec("9.99")
	reloaded, err := fx.service.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", reloaded.FuelPricePerUnit.String())
}

func TestRecalculateFees_AutoWaiverAtMinimum(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	qty := dec("100")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)

	receipt, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "RAMP"}})
	require.NoError(t, err)

	// 500 fuel + 100 fee - 100 waiver, 10% tax on 500.
	assert.Equal(t, "100", receipt.TotalFees.String())
	assert.Equal(t, "-100", receipt.TotalWaivers.String())
	assert.Equal(t, "50", receipt.TaxAmount.String())
	assert.Equal(t, "550", receipt.GrandTotal.String())

	waiver := receipt.WaiverFor("RAMP")
	require.NotNil(t, waiver)
	require.NotNil(t, waiver.WaiverSource)
	assert.Equal(t, enum.WaiverSourceAutomatic, *waiver.WaiverSource)
}

func TestRecalculateFees_UnknownCodeRejected(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	_, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "BOGUS"}})
	assert.Equal(t, 422, statusCode(t, err))
}

func TestToggleWaiver_RoundTrips(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	qty := dec("100")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)
	receipt, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "RAMP"}})
	require.NoError(t, err)
	require.NotNil(t, receipt.WaiverFor("RAMP"))
	originalTotal := receipt.GrandTotal

	var feeLineID uuid.UUID
	for _, li := range receipt.LineItems {
		if li.Type == enum.LineItemTypeFee && li.FeeCode == "RAMP" {
			feeLineID = li.ID
		}
	}
	require.NotEqual(t, uuid.Nil, feeLineID)

	// First toggle suppresses the automatic waiver.
	receipt, err = fx.service.ToggleWaiver(ctx, receipt.ID, feeLineID)
	require.NoError(t, err)
	assert.Nil(t, receipt.WaiverFor("RAMP"))
	assert.True(t, receipt.TotalWaivers.IsZero())

	// Second toggle restores it, with the automatic source.
	for _, li := range receipt.LineItems {
		if li.Type == enum.LineItemTypeFee && li.FeeCode == "RAMP" {
			feeLineID = li.ID
		}
	}
	receipt, err = fx.service.ToggleWaiver(ctx, receipt.ID, feeLineID)
	require.NoError(t, err)
	waiver := receipt.WaiverFor("RAMP")
	require.NotNil(t, waiver)
	assert.Equal(t, enum.WaiverSourceAutomatic, *waiver.WaiverSource)
	assert.True(t, receipt.GrandTotal.Equal(originalTotal))
}

func TestToggleWaiver_ManualBelowMinimum(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	qty := dec("20")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)
	receipt, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "RAMP"}})
	require.NoError(t, err)
	require.Nil(t, receipt.WaiverFor("RAMP"))

	var feeLineID uuid.UUID
	for _, li := range receipt.LineItems {
		if li.Type == enum.LineItemTypeFee {
			feeLineID = li.ID
		}
	}

	receipt, err = fx.service.ToggleWaiver(ctx, receipt.ID, feeLineID)
	require.NoError(t, err)
	waiver := receipt.WaiverFor("RAMP")
	require.NotNil(t, waiver)
	assert.Equal(t, enum.WaiverSourceManual, *waiver.WaiverSource)
}

func TestToggleWaiver_NonFeeLineRejected(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	qty := dec("100")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)

	var fuelLineID uuid.UUID
	for _, li := range receipt.LineItems {
		if li.Type == enum.LineItemTypeFuel {
			fuelLineID = li.ID
		}
	}
	require.NotEqual(t, uuid.Nil, fuelLineID)

	_, err = fx.service.ToggleWaiver(ctx, receipt.ID, fuelLineID)
	assert.Equal(t, 400, statusCode(t, err))

	_, err = fx.service.ToggleWaiver(ctx, receipt.ID, uuid.New())
	assert.Equal(t, 404, statusCode(t, err))
}

func TestUpdateDraft_FuelDropRemovesAutoWaiver(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	qty := dec("100")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)
	receipt, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "RAMP"}})
	require.NoError(t, err)
	require.NotNil(t, receipt.WaiverFor("RAMP"))

	below := dec("30")
	receipt, err = fx.service.UpdateDraft(ctx, receipt.ID, &UpdateDraftInput{FuelQuantity: &below})
	require.NoError(t, err)

	assert.Nil(t, receipt.WaiverFor("RAMP"))
	assert.Equal(t, "100", receipt.TotalFees.String())
	assert.True(t, receipt.TotalWaivers.IsZero())
}

func TestUpdateDraft_CustomerChangeInheritsMembership(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)
	require.False(t, receipt.IsCAAMember)

	receipt, err = fx.service.UpdateDraft(ctx, receipt.ID, &UpdateDraftInput{CustomerID: &fx.member.ID})
	require.NoError(t, err)
	assert.True(t, receipt.IsCAAMember)
}

func TestUpdateDraft_NegativeQuantityRejected(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	negative := dec("-1")
	_, err = fx.service.UpdateDraft(ctx, receipt.ID, &UpdateDraftInput{FuelQuantity: &negative})
	assert.Equal(t, 422, statusCode(t, err))
}

func TestGenerate_AssignsSequentialNumbers(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()
	year := time.Now().UTC().Year()

	first, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)
	second, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	generated, err := fx.service.Generate(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, generated.ReceiptNo)
	assert.Equal(t, fmt.Sprintf("R-%d-0001", year), *generated.ReceiptNo)
	assert.Equal(t, enum.ReceiptStatusGenerated, generated.Status)
	assert.NotNil(t, generated.GeneratedAt)

	generated, err = fx.service.Generate(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("R-%d-0002", year), *generated.ReceiptNo)

	// Generating twice is a transition violation.
	_, err = fx.service.Generate(ctx, first.ID)
	assert.Equal(t, 409, statusCode(t, err))
}

func TestGetReceiptByNumber(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	draft, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)
	generated, err := fx.service.Generate(ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, generated.ReceiptNo)

	found, err := fx.service.GetReceiptByNumber(ctx, *generated.ReceiptNo)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)

	_, err = fx.service.GetReceiptByNumber(ctx, "R-1999-0001")
	require.Error(t, err)
	assert.Equal(t, 404, statusCode(t, err))
}

func TestGenerate_FreezesEdits(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)
	_, err = fx.service.Generate(ctx, receipt.ID)
	require.NoError(t, err)

	notes := "too late"
	_, err = fx.service.UpdateDraft(ctx, receipt.ID, &UpdateDraftInput{Notes: &notes})
	assert.Equal(t, 409, statusCode(t, err))

	_, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "RAMP"}})
	assert.Equal(t, 409, statusCode(t, err))
}

func TestMarkPaid_Transitions(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	// A draft cannot be paid.
	_, err = fx.service.MarkPaid(ctx, receipt.ID, "card")
	assert.Equal(t, 409, statusCode(t, err))

	_, err = fx.service.Generate(ctx, receipt.ID)
	require.NoError(t, err)

	_, err = fx.service.MarkPaid(ctx, receipt.ID, "  ")
	assert.Equal(t, 400, statusCode(t, err))

	paid, err := fx.service.MarkPaid(ctx, receipt.ID, "card")
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "card", *paid.PaymentMethod)
	assert.NotNil(t, paid.PaidAt)
}

func TestVoid_Transitions(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	// Drafts are deleted, not voided.
	_, err = fx.service.Void(ctx, receipt.ID, "mistake")
	assert.Equal(t, 409, statusCode(t, err))

	_, err = fx.service.Generate(ctx, receipt.ID)
	require.NoError(t, err)

	_, err = fx.service.Void(ctx, receipt.ID, "   ")
	assert.Equal(t, 400, statusCode(t, err))

	voided, err := fx.service.Void(ctx, receipt.ID, "duplicate entry")
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusVoid, voided.Status)
	require.NotNil(t, voided.VoidReason)
	assert.Equal(t, "duplicate entry", *voided.VoidReason)

	// VOID is terminal.
	_, err = fx.service.MarkPaid(ctx, receipt.ID, "card")
	assert.Equal(t, 409, statusCode(t, err))
}

func TestVoid_PaidReceiptCanBeVoided(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)
	_, err = fx.service.Generate(ctx, receipt.ID)
	require.NoError(t, err)
	_, err = fx.service.MarkPaid(ctx, receipt.ID, "card")
	require.NoError(t, err)

	voided, err := fx.service.Void(ctx, receipt.ID, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusVoid, voided.Status)
}

func TestDeleteDraft_OnlyDrafts(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)

	generated, err := fx.service.CreateDraft(ctx, &CreateDraftInput{CreatedByID: fx.csrID})
	require.NoError(t, err)
	_, err = fx.service.Generate(ctx, generated.ID)
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteDraft(ctx, receipt.ID))
	_, err = fx.service.GetReceipt(ctx, receipt.ID)
	assert.Equal(t, 404, statusCode(t, err))

	err = fx.service.DeleteDraft(ctx, generated.ID)
	assert.Equal(t, 409, statusCode(t, err))
}

func TestCAAMember_DiscountAppliedAtCalcTime(t *testing.T) {
	fx := newReceiptFixture()
	ctx := context.Background()

	// Give RAMP a CAA variant.
	feeRules := fx.service.feeRuleRepo.(*fakeFeeRuleRepo)
	caaAmount := dec("60.00")
	caaMinimum := dec("40")
	rule := feeRules.rules["RAMP"]
	rule.HasCAAOverride = true
	rule.CAAOverrideAmount = &caaAmount
	rule.CAAWaiverMinimumFuelGallons = &caaMinimum
	feeRules.rules["RAMP"] = rule

	qty := dec("50")
	receipt, err := fx.service.CreateDraft(ctx, &CreateDraftInput{
		CreatedByID:  fx.csrID,
		CustomerID:   &fx.member.ID,
		FuelTypeID:   &fx.jetA.ID,
		FuelQuantity: &qty,
	})
	require.NoError(t, err)

	receipt, err = fx.service.RecalculateFees(ctx, receipt.ID, []FeeInput{{FeeCode: "RAMP"}})
	require.NoError(t, err)

	// Member pays the discounted rate and clears the member waiver minimum.
	assert.Equal(t, "60", receipt.TotalFees.String())
	assert.Equal(t, "-60", receipt.TotalWaivers.String())
}
