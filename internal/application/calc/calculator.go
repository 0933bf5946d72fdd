// Package calc computes receipt line items and totals. It is the single
// source of monetary truth: services persist its output verbatim and clients
// only display it.
package calc

import (
	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// FeeRequest names one fee to charge and, for PER_UNIT rules, its quantity.
type FeeRequest struct {
	FeeCode  string
	Quantity decimal.Decimal // ignored for FIXED rules; defaults to 1
}

// ResolvedRule is a fee rule with its effective amount already resolved
// through the override chain (aircraft override > classification override >
// rule amount). Resolution happens in the service layer where repositories
// are available; the calculator stays repository-free.
type ResolvedRule struct {
	FeeCode                  string
	Description              string
	Amount                   decimal.Decimal
	CalculationBasis         enum.CalculationBasis
	IsWaivableByFuelUplift   bool
	WaiverMinimumFuelGallons decimal.Decimal

	// CAA discount-program variants, nil when the rule has none.
	CAAAmount            *decimal.Decimal
	CAAWaiverMinimumFuel *decimal.Decimal
}

// Input carries everything the calculator needs for one receipt.
type Input struct {
	FuelDescription  string // e.g. "Jet A (100.0 gal @ $5.00)"
	FuelQuantity     decimal.Decimal
	FuelPricePerUnit decimal.Decimal
	IsCAAMember      bool

	// Fees in request order; every entry must have a matching rule in Rules.
	Fees  []FeeRequest
	Rules map[string]ResolvedRule

	// Fee codes whose waiver state the user flipped by hand. A toggle on an
	// auto-waived fee suppresses the waiver; a toggle on an unwaived fee adds
	// a MANUAL one. Toggling the same code twice cancels out upstream.
	ManualWaiverToggles map[string]bool

	TaxRate decimal.Decimal // e.g. 0.065
}

// Result is the authoritative line-item set and totals for a receipt.
type Result struct {
	LineItems    []entity.ReceiptLineItem
	FuelSubtotal decimal.Decimal
	TotalFees    decimal.Decimal
	TotalWaivers decimal.Decimal // sum of WAIVER amounts, zero or negative
	TaxAmount    decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Calculate produces the full line-item set for a receipt: FUEL first, FEE
// lines in request order with each WAIVER immediately after the fee it
// offsets, TAX last. Amounts are rounded to 2 decimal places at the line
// level so the persisted numbers are exactly what renders.
func Calculate(in Input) Result {
	var items []entity.ReceiptLineItem
	sort := 0
	next := func() int { sort++; return sort }

	fuelSubtotal := decimal.Zero
	if in.FuelQuantity.IsPositive() {
		fuelSubtotal = in.FuelQuantity.Mul(in.FuelPricePerUnit).Round(2)
		items = append(items, entity.ReceiptLineItem{
			Type:        enum.LineItemTypeFuel,
			Description: in.FuelDescription,
			Quantity:    in.FuelQuantity,
			UnitPrice:   in.FuelPricePerUnit,
			Amount:      fuelSubtotal,
			SortOrder:   next(),
		})
	}

	totalFees := decimal.Zero
	totalWaivers := decimal.Zero

	for _, req := range in.Fees {
		rule, ok := in.Rules[req.FeeCode]
		if !ok {
			continue
		}

		amount := rule.Amount
		waiverMinimum := rule.WaiverMinimumFuelGallons
		if in.IsCAAMember {
			if rule.CAAAmount != nil {
				amount = *rule.CAAAmount
			}
			if rule.CAAWaiverMinimumFuel != nil {
				waiverMinimum = *rule.CAAWaiverMinimumFuel
			}
		}

		qty := req.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		lineAmount := amount
		if rule.CalculationBasis == enum.CalculationBasisPerUnit {
			lineAmount = amount.Mul(qty)
		}
		lineAmount = lineAmount.Round(2)

		items = append(items, entity.ReceiptLineItem{
			Type:        enum.LineItemTypeFee,
			FeeCode:     rule.FeeCode,
			Description: rule.Description,
			Quantity:    qty,
			UnitPrice:   amount,
			Amount:      lineAmount,
			SortOrder:   next(),
		})
		totalFees = totalFees.Add(lineAmount)

		autoWaived := rule.IsWaivableByFuelUplift &&
			waiverMinimum.IsPositive() &&
			in.FuelQuantity.GreaterThanOrEqual(waiverMinimum)
		toggled := in.ManualWaiverToggles[rule.FeeCode]

		// Toggle flips whatever the automatic outcome was.
		waived := autoWaived != toggled
		if !waived {
			continue
		}
		source := enum.WaiverSourceAutomatic
		if !autoWaived {
			source = enum.WaiverSourceManual
		}
		waiverAmount := lineAmount.Neg()
		items = append(items, entity.ReceiptLineItem{
			Type:         enum.LineItemTypeWaiver,
			FeeCode:      rule.FeeCode,
			Description:  rule.Description + " (waived)",
			Quantity:     decimal.NewFromInt(1),
			UnitPrice:    waiverAmount,
			Amount:       waiverAmount,
			WaiverSource: &source,
			SortOrder:    next(),
		})
		totalWaivers = totalWaivers.Add(waiverAmount)
	}

	// Tax on fuel plus fees net of waivers; a fully waived receipt owes no tax.
	taxable := fuelSubtotal.Add(totalFees).Add(totalWaivers)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	taxAmount := taxable.Mul(in.TaxRate).Round(2)
	if taxAmount.IsPositive() {
		items = append(items, entity.ReceiptLineItem{
			Type:        enum.LineItemTypeTax,
			Description: "Sales Tax",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   taxAmount,
			Amount:      taxAmount,
			SortOrder:   next(),
		})
	}

	return Result{
		LineItems:    items,
		FuelSubtotal: fuelSubtotal,
		TotalFees:    totalFees,
		TotalWaivers: totalWaivers,
		TaxAmount:    taxAmount,
		GrandTotal:   fuelSubtotal.Add(totalFees).Add(totalWaivers).Add(taxAmount),
	}
}

// ResolveRule collapses a fee rule and its overrides into the effective
// amounts for one aircraft. Aircraft-specific overrides win over
// classification-wide ones, which win over the rule amount.
func ResolveRule(rule entity.FeeRule, aircraft *entity.AircraftType) ResolvedRule {
	resolved := ResolvedRule{
		FeeCode:                  rule.FeeCode,
		Description:              rule.Description,
		Amount:                   rule.Amount,
		CalculationBasis:         rule.CalculationBasis,
		IsWaivableByFuelUplift:   rule.IsWaivableByFuelUplift,
		WaiverMinimumFuelGallons: rule.WaiverMinimumFuelGallons,
	}
	if rule.HasCAAOverride {
		resolved.CAAAmount = rule.CAAOverrideAmount
		resolved.CAAWaiverMinimumFuel = rule.CAAWaiverMinimumFuelGallons
	}

	if aircraft == nil {
		return resolved
	}

	var classMatch *entity.FeeRuleOverride
	for i := range rule.Overrides {
		o := &rule.Overrides[i]
		if o.AircraftTypeID != nil && *o.AircraftTypeID == aircraft.ID {
			resolved.Amount = o.OverrideAmount
			return resolved
		}
		if o.ClassificationID != nil && *o.ClassificationID == aircraft.ClassificationID {
			classMatch = o
		}
	}
	if classMatch != nil {
		resolved.Amount = classMatch.OverrideAmount
	}
	return resolved
}
