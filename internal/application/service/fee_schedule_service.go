package service

import (
	"context"

	"github.com/aerocrest/fbo-api/internal/application/calc"
	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeScheduleService manages fee rules and their per-classification /
// per-aircraft overrides.
type FeeScheduleService struct {
	feeRuleRepo  repository.FeeRuleRepository
	aircraftRepo repository.AircraftRepository
}

// NewFeeScheduleService creates a new fee schedule service
func NewFeeScheduleService(feeRuleRepo repository.FeeRuleRepository, aircraftRepo repository.AircraftRepository) *FeeScheduleService {
	return &FeeScheduleService{feeRuleRepo: feeRuleRepo, aircraftRepo: aircraftRepo}
}

// FeeRuleInput represents the create/update fee rule input
type FeeRuleInput struct {
	FeeCode                     string
	Description                 string
	ClassificationID            *uuid.UUID
	Amount                      decimal.Decimal
	CalculationBasis            enum.CalculationBasis
	IsWaivableByFuelUplift      bool
	WaiverMinimumFuelGallons    decimal.Decimal
	HasCAAOverride              bool
	CAAOverrideAmount           *decimal.Decimal
	CAAWaiverMinimumFuelGallons *decimal.Decimal
}

func (in *FeeRuleInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.FeeCode == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "fee_code", Message: "must not be empty"})
	}
	if in.Amount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "must not be negative"})
	}
	if in.WaiverMinimumFuelGallons.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "waiver_minimum_fuel_gallons", Message: "must not be negative"})
	}
	if in.CAAOverrideAmount != nil && in.CAAOverrideAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "caa_override_amount", Message: "must not be negative"})
	}
	if in.CAAWaiverMinimumFuelGallons != nil && in.CAAWaiverMinimumFuelGallons.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "caa_waiver_minimum_fuel_gallons", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateFeeRule creates a new fee rule
func (s *FeeScheduleService) CreateFeeRule(ctx context.Context, input *FeeRuleInput) (*entity.FeeRule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.feeRuleRepo.GetByCode(ctx, input.FeeCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A fee rule with this code already exists")
	}

	rule := &entity.FeeRule{
		FeeCode:                     input.FeeCode,
		Description:                 input.Description,
		ClassificationID:            input.ClassificationID,
		Amount:                      input.Amount,
		CalculationBasis:            input.CalculationBasis,
		IsWaivableByFuelUplift:      input.IsWaivableByFuelUplift,
		WaiverMinimumFuelGallons:    input.WaiverMinimumFuelGallons,
		HasCAAOverride:              input.HasCAAOverride,
		CAAOverrideAmount:           input.CAAOverrideAmount,
		CAAWaiverMinimumFuelGallons: input.CAAWaiverMinimumFuelGallons,
	}
	if err := s.feeRuleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// GetFeeRule retrieves a fee rule by ID with its overrides
func (s *FeeScheduleService) GetFeeRule(ctx context.Context, id uuid.UUID) (*entity.FeeRule, error) {
	rule, err := s.feeRuleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperror.NewNotFoundError("Fee rule")
	}
	return rule, nil
}

// ListFeeRules lists all fee rules with overrides
func (s *FeeScheduleService) ListFeeRules(ctx context.Context) ([]entity.FeeRule, error) {
	return s.feeRuleRepo.List(ctx)
}

// ListRulesForClassification returns the fee rules applicable to aircraft of
// the given classification: global rules plus classification-scoped ones.
func (s *FeeScheduleService) ListRulesForClassification(ctx context.Context, classificationID uuid.UUID) ([]entity.FeeRule, error) {
	classification, err := s.aircraftRepo.GetClassification(ctx, classificationID)
	if err != nil {
		return nil, err
	}
	if classification == nil {
		return nil, apperror.NewNotFoundError("Classification")
	}
	return s.feeRuleRepo.ListForClassification(ctx, classificationID)
}

// UpdateFeeRule updates an existing fee rule
func (s *FeeScheduleService) UpdateFeeRule(ctx context.Context, id uuid.UUID, input *FeeRuleInput) (*entity.FeeRule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rule, err := s.GetFeeRule(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FeeCode != rule.FeeCode {
		existing, err := s.feeRuleRepo.GetByCode(ctx, input.FeeCode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A fee rule with this code already exists")
		}
	}

	rule.FeeCode = input.FeeCode
	rule.Description = input.Description
	rule.ClassificationID = input.ClassificationID
	rule.Amount = input.Amount
	rule.CalculationBasis = input.CalculationBasis
	rule.IsWaivableByFuelUplift = input.IsWaivableByFuelUplift
	rule.WaiverMinimumFuelGallons = input.WaiverMinimumFuelGallons
	rule.HasCAAOverride = input.HasCAAOverride
	rule.CAAOverrideAmount = input.CAAOverrideAmount
	rule.CAAWaiverMinimumFuelGallons = input.CAAWaiverMinimumFuelGallons

	if err := s.feeRuleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteFeeRule deletes a fee rule
func (s *FeeScheduleService) DeleteFeeRule(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetFeeRule(ctx, id); err != nil {
		return err
	}
	return s.feeRuleRepo.Delete(ctx, id)
}

// OverrideInput pins a fee rule amount for one classification or one aircraft
// type. Exactly one target must be set.
type OverrideInput struct {
	FeeRuleID        uuid.UUID
	ClassificationID *uuid.UUID
	AircraftTypeID   *uuid.UUID
	OverrideAmount   decimal.Decimal
}

func (in *OverrideInput) validate() error {
	var fieldErrors []apperror.FieldError
	if (in.ClassificationID == nil) == (in.AircraftTypeID == nil) {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "target",
			Message: "exactly one of classification_id or aircraft_type_id must be set",
		})
	}
	if in.OverrideAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "override_amount", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// UpsertOverride creates or updates the override for (rule, target)
func (s *FeeScheduleService) UpsertOverride(ctx context.Context, input *OverrideInput) (*entity.FeeRuleOverride, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetFeeRule(ctx, input.FeeRuleID); err != nil {
		return nil, err
	}

	override := &entity.FeeRuleOverride{
		FeeRuleID:        input.FeeRuleID,
		ClassificationID: input.ClassificationID,
		AircraftTypeID:   input.AircraftTypeID,
		OverrideAmount:   input.OverrideAmount,
	}
	if err := s.feeRuleRepo.UpsertOverride(ctx, override); err != nil {
		return nil, err
	}
	return override, nil
}

// BatchUpsertOverrides applies a set of override upserts atomically; one
// invalid entry rejects the whole batch.
func (s *FeeScheduleService) BatchUpsertOverrides(ctx context.Context, inputs []OverrideInput) ([]entity.FeeRuleOverride, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewBadRequestError("Override batch is empty")
	}

	overrides := make([]entity.FeeRuleOverride, 0, len(inputs))
	for i := range inputs {
		if err := inputs[i].validate(); err != nil {
			return nil, err
		}
		overrides = append(overrides, entity.FeeRuleOverride{
			FeeRuleID:        inputs[i].FeeRuleID,
			ClassificationID: inputs[i].ClassificationID,
			AircraftTypeID:   inputs[i].AircraftTypeID,
			OverrideAmount:   inputs[i].OverrideAmount,
		})
	}

	if err := s.feeRuleRepo.BatchUpsertOverrides(ctx, overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

// DeleteOverride removes an override record
func (s *FeeScheduleService) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	return s.feeRuleRepo.DeleteOverride(ctx, id)
}

// ListOverrides lists the overrides configured for a fee rule
func (s *FeeScheduleService) ListOverrides(ctx context.Context, feeRuleID uuid.UUID) ([]entity.FeeRuleOverride, error) {
	if _, err := s.GetFeeRule(ctx, feeRuleID); err != nil {
		return nil, err
	}
	return s.feeRuleRepo.ListOverridesForRule(ctx, feeRuleID)
}

// GetEffectiveAmount resolves the amount a fee rule charges for the given
// aircraft type: aircraft override > classification override > rule amount.
func (s *FeeScheduleService) GetEffectiveAmount(ctx context.Context, feeRuleID uuid.UUID, aircraftTypeID *uuid.UUID) (decimal.Decimal, error) {
	rule, err := s.GetFeeRule(ctx, feeRuleID)
	if err != nil {
		return decimal.Zero, err
	}

	var aircraft *entity.AircraftType
	if aircraftTypeID != nil {
		aircraft, err = s.aircraftRepo.GetType(ctx, *aircraftTypeID)
		if err != nil {
			return decimal.Zero, err
		}
		if aircraft == nil {
			return decimal.Zero, apperror.NewNotFoundError("Aircraft type")
		}
	}

	return calc.ResolveRule(*rule, aircraft).Amount, nil
}
