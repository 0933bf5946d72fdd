package calc

import (
	"testing"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rampRule() ResolvedRule {
	return ResolvedRule{
		FeeCode:                  "RAMP",
		Description:              "Ramp Fee",
		Amount:                   dec("100.00"),
		CalculationBasis:         enum.CalculationBasisFixed,
		IsWaivableByFuelUplift:   true,
		WaiverMinimumFuelGallons: dec("75"),
	}
}

func TestCalculate_FuelAndFixedFee(t *testing.T) {
	result := Calculate(Input{
		FuelDescription:  "Jet A (100.0 gal @ $5.00)",
		FuelQuantity:     dec("100"),
		FuelPricePerUnit: dec("5.00"),
		Fees:             []FeeRequest{{FeeCode: "RAMP"}},
		Rules:            map[string]ResolvedRule{"RAMP": rampRule()},
		TaxRate:          dec("0.10"),
	})

	assert.Equal(t, "500", result.FuelSubtotal.String())
	assert.Equal(t, "100", result.TotalFees.String())
	// 100 gal clears the 75 gal minimum, so the ramp fee is auto-waived.
	assert.Equal(t, "-100", result.TotalWaivers.String())
	// Tax base = 500 + 100 - 100 = 500.
	assert.Equal(t, "50", result.TaxAmount.String())
	assert.Equal(t, "550", result.GrandTotal.String())

	// FUEL, FEE, WAIVER, TAX in order.
	require.Len(t, result.LineItems, 4)
	assert.Equal(t, enum.LineItemTypeFuel, result.LineItems[0].Type)
	assert.Equal(t, enum.LineItemTypeFee, result.LineItems[1].Type)
	assert.Equal(t, enum.LineItemTypeWaiver, result.LineItems[2].Type)
	assert.Equal(t, enum.LineItemTypeTax, result.LineItems[3].Type)

	waiver := result.LineItems[2]
	assert.Equal(t, "RAMP", waiver.FeeCode)
	assert.Equal(t, "Ramp Fee (waived)", waiver.Description)
	assert.Equal(t, "-100", waiver.Amount.String())
	require.NotNil(t, waiver.WaiverSource)
	assert.Equal(t, enum.WaiverSourceAutomatic, *waiver.WaiverSource)
}

func TestCalculate_BelowWaiverMinimum(t *testing.T) {
	result := Calculate(Input{
		FuelDescription:  "Jet A (50.0 gal @ $5.00)",
		FuelQuantity:     dec("50"),
		FuelPricePerUnit: dec("5.00"),
		Fees:             []FeeRequest{{FeeCode: "RAMP"}},
		Rules:            map[string]ResolvedRule{"RAMP": rampRule()},
		TaxRate:          dec("0.10"),
	})

	assert.True(t, result.TotalWaivers.IsZero())
	// 250 fuel + 100 fee, taxed at 10%.
	assert.Equal(t, "35", result.TaxAmount.String())
	assert.Equal(t, "385", result.GrandTotal.String())
	require.Len(t, result.LineItems, 3)
}

func TestCalculate_ManualToggleAddsWaiver(t *testing.T) {
	result := Calculate(Input{
		FuelQuantity:        dec("50"),
		FuelPricePerUnit:    dec("5.00"),
		Fees:                []FeeRequest{{FeeCode: "RAMP"}},
		Rules:               map[string]ResolvedRule{"RAMP": rampRule()},
		ManualWaiverToggles: map[string]bool{"RAMP": true},
		TaxRate:             dec("0.10"),
	})

	assert.Equal(t, "-100", result.TotalWaivers.String())
	var waiver *entity.ReceiptLineItem
	for i := range result.LineItems {
		if result.LineItems[i].Type == enum.LineItemTypeWaiver {
			waiver = &result.LineItems[i]
		}
	}
	require.NotNil(t, waiver)
	require.NotNil(t, waiver.WaiverSource)
	assert.Equal(t, enum.WaiverSourceManual, *waiver.WaiverSource)
}

func TestCalculate_ManualToggleSuppressesAutoWaiver(t *testing.T) {
	// Fuel clears the minimum, but the CSR un-waived the fee by hand.
	result := Calculate(Input{
		FuelQuantity:        dec("100"),
		FuelPricePerUnit:    dec("5.00"),
		Fees:                []FeeRequest{{FeeCode: "RAMP"}},
		Rules:               map[string]ResolvedRule{"RAMP": rampRule()},
		ManualWaiverToggles: map[string]bool{"RAMP": true},
		TaxRate:             dec("0.10"),
	})

	assert.True(t, result.TotalWaivers.IsZero())
	for _, li := range result.LineItems {
		assert.NotEqual(t, enum.LineItemTypeWaiver, li.Type)
	}
}

func TestCalculate_DoubleToggleRoundTrips(t *testing.T) {
	in := Input{
		FuelQuantity:     dec("100"),
		FuelPricePerUnit: dec("5.00"),
		Fees:             []FeeRequest{{FeeCode: "RAMP"}},
		Rules:            map[string]ResolvedRule{"RAMP": rampRule()},
		TaxRate:          dec("0.0825"),
	}

	base := Calculate(in)
	in.ManualWaiverToggles = map[string]bool{"RAMP": false} // toggled twice
	again := Calculate(in)

	assert.True(t, base.GrandTotal.Equal(again.GrandTotal))
	assert.True(t, base.TotalWaivers.Equal(again.TotalWaivers))
	assert.Equal(t, len(base.LineItems), len(again.LineItems))
}

func TestCalculate_PerUnitFee(t *testing.T) {
	rules := map[string]ResolvedRule{
		"OVERNIGHT": {
			FeeCode:          "OVERNIGHT",
			Description:      "Overnight Parking (per night)",
			Amount:           dec("25.00"),
			CalculationBasis: enum.CalculationBasisPerUnit,
		},
	}

	result := Calculate(Input{
		Fees:    []FeeRequest{{FeeCode: "OVERNIGHT", Quantity: dec("3")}},
		Rules:   rules,
		TaxRate: decimal.Zero,
	})

	assert.Equal(t, "75", result.TotalFees.String())
	require.Len(t, result.LineItems, 1)
	assert.Equal(t, "3", result.LineItems[0].Quantity.String())
	assert.Equal(t, "25", result.LineItems[0].UnitPrice.String())
}

func TestCalculate_CAAMemberVariants(t *testing.T) {
	caaAmount := dec("60.00")
	caaMinimum := dec("40")
	rule := rampRule()
	rule.CAAAmount = &caaAmount
	rule.CAAWaiverMinimumFuel = &caaMinimum
	rules := map[string]ResolvedRule{"RAMP": rule}

	// Member: discounted amount, lower waiver minimum already met at 50 gal.
	member := Calculate(Input{
		FuelQuantity:     dec("50"),
		FuelPricePerUnit: dec("5.00"),
		IsCAAMember:      true,
		Fees:             []FeeRequest{{FeeCode: "RAMP"}},
		Rules:            rules,
		TaxRate:          decimal.Zero,
	})
	assert.Equal(t, "60", member.TotalFees.String())
	assert.Equal(t, "-60", member.TotalWaivers.String())

	// Non-member at the same uplift: full amount, no waiver.
	nonMember := Calculate(Input{
		FuelQuantity:     dec("50"),
		FuelPricePerUnit: dec("5.00"),
		Fees:             []FeeRequest{{FeeCode: "RAMP"}},
		Rules:            rules,
		TaxRate:          decimal.Zero,
	})
	assert.Equal(t, "100", nonMember.TotalFees.String())
	assert.True(t, nonMember.TotalWaivers.IsZero())
}

func TestCalculate_UnknownFeeCodeSkipped(t *testing.T) {
	result := Calculate(Input{
		Fees:    []FeeRequest{{FeeCode: "NOPE"}},
		Rules:   map[string]ResolvedRule{},
		TaxRate: decimal.Zero,
	})

	assert.Empty(t, result.LineItems)
	assert.True(t, result.GrandTotal.IsZero())
}

func TestCalculate_NoFuelNoFuelLine(t *testing.T) {
	result := Calculate(Input{
		Fees:    []FeeRequest{{FeeCode: "RAMP"}},
		Rules:   map[string]ResolvedRule{"RAMP": rampRule()},
		TaxRate: decimal.Zero,
	})

	require.Len(t, result.LineItems, 1)
	assert.Equal(t, enum.LineItemTypeFee, result.LineItems[0].Type)
	assert.True(t, result.FuelSubtotal.IsZero())
}

func TestResolveRule_OverridePrecedence(t *testing.T) {
	classID := uuid.New()
	aircraftID := uuid.New()
	aircraft := &entity.AircraftType{
		ID:               aircraftID,
		ClassificationID: classID,
	}

	rule := entity.FeeRule{
		FeeCode: "RAMP",
		Amount:  dec("100.00"),
		Overrides: []entity.FeeRuleOverride{
			{ClassificationID: &classID, OverrideAmount: dec("250.00")},
			{AircraftTypeID: &aircraftID, OverrideAmount: dec("400.00")},
		},
	}

	// Aircraft override wins over classification override.
	resolved := ResolveRule(rule, aircraft)
	assert.Equal(t, "400", resolved.Amount.String())

	// Classification override applies when no aircraft-specific one matches.
	otherAircraft := &entity.AircraftType{ID: uuid.New(), ClassificationID: classID}
	resolved = ResolveRule(rule, otherAircraft)
	assert.Equal(t, "250", resolved.Amount.String())

	// No aircraft at all: base amount.
	resolved = ResolveRule(rule, nil)
	assert.Equal(t, "100", resolved.Amount.String())
}

func TestResolveRule_CAAVariantsCarried(t *testing.T) {
	caaAmount := dec("60.00")
	rule := entity.FeeRule{
		FeeCode:           "RAMP",
		Amount:            dec("100.00"),
		HasCAAOverride:    true,
		CAAOverrideAmount: &caaAmount,
	}

	resolved := ResolveRule(rule, nil)
	require.NotNil(t, resolved.CAAAmount)
	assert.Equal(t, "60", resolved.CAAAmount.String())

	rule.HasCAAOverride = false
	resolved = ResolveRule(rule, nil)
	assert.Nil(t, resolved.CAAAmount)
}
