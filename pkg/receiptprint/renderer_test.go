package receiptprint

import (
	"strings"
	"testing"

	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_KeyValue(t *testing.T) {
	d := NewDocument(20)
	d.KeyValue("Subtotal", "$100.00")
	assert.Equal(t, "Subtotal     $100.00\n", d.String())
}

func TestDocument_CenterAlign(t *testing.T) {
	d := NewDocument(10)
	d.SetAlign(AlignCenter).Text("ab")
	assert.Equal(t, "    ab\n", d.String())
}

func TestRenderReceipt(t *testing.T) {
	receiptNo := "R-2026-0042"
	method := "card"
	waiverSource := enum.WaiverSourceAutomatic

	receipt := &entity.Receipt{
		ReceiptNo:    &receiptNo,
		Status:       enum.ReceiptStatusPaid,
		Customer:     &entity.Customer{Name: "Skyways Charter"},
		TailNumber:   "N650SW",
		IsCAAMember:  true,
		FuelSubtotal: decimal.RequireFromString("500.00"),
		TotalFees:    decimal.RequireFromString("100.00"),
		TotalWaivers: decimal.RequireFromString("-100.00"),
		TaxAmount:    decimal.RequireFromString("50.00"),
		GrandTotal:   decimal.RequireFromString("550.00"),
		LineItems: []entity.ReceiptLineItem{
			{
				Type:        enum.LineItemTypeFuel,
				Description: "Jet A (100.0 gal @ $5.00)",
				Quantity:    decimal.RequireFromString("100"),
				UnitPrice:   decimal.RequireFromString("5.00"),
				Amount:      decimal.RequireFromString("500.00"),
			},
			{
				Type:        enum.LineItemTypeFee,
				FeeCode:     "RAMP",
				Description: "Ramp Fee",
				Amount:      decimal.RequireFromString("100.00"),
			},
			{
				Type:         enum.LineItemTypeWaiver,
				FeeCode:      "RAMP",
				Description:  "Ramp Fee (waived)",
				Amount:       decimal.RequireFromString("-100.00"),
				WaiverSource: &waiverSource,
			},
			{
				Type:        enum.LineItemTypeTax,
				Description: "Tax",
				Amount:      decimal.RequireFromString("50.00"),
			},
		},
		PaymentMethod: &method,
	}

	out := RenderReceipt("AeroCrest Aviation", receipt)

	assert.Contains(t, out, "AeroCrest Aviation")
	assert.Contains(t, out, "Receipt R-2026-0042")
	assert.Contains(t, out, "Skyways Charter")
	assert.Contains(t, out, "N650SW")
	assert.Contains(t, out, "CAA Member")
	assert.Contains(t, out, "Ramp Fee (waived)")
	assert.Contains(t, out, "-$100.00")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "$550.00")
	assert.Contains(t, out, "Paid By")

	// Every rendered line fits the 42-character print width.
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 42, "line too wide: %q", line)
	}
}

func TestRenderReceipt_VoidShowsReason(t *testing.T) {
	reason := "duplicate entry"
	receipt := &entity.Receipt{
		Status:     enum.ReceiptStatusVoid,
		VoidReason: &reason,
	}

	out := RenderReceipt("AeroCrest Aviation", receipt)
	assert.Contains(t, out, "VOID: duplicate entry")
}
