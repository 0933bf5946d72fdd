package receiptprint

import (
	"github.com/aerocrest/fbo-api/internal/domain/entity"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
)

// RenderReceipt renders a generated receipt as fixed-width plain text.
func RenderReceipt(fboName string, receipt *entity.Receipt) string {
	d := NewDocument(42)

	d.SetAlign(AlignCenter)
	d.Text(fboName)
	if receipt.ReceiptNo != nil {
		d.TextF("Receipt %s", *receipt.ReceiptNo)
	}
	d.Text(receipt.Status.String())
	d.SetAlign(AlignLeft)
	d.Separator('=')

	if receipt.Customer != nil {
		d.KeyValue("Customer", receipt.Customer.Name)
	}
	if receipt.TailNumber != "" {
		d.KeyValue("Tail Number", receipt.TailNumber)
	}
	if receipt.AircraftType != nil {
		d.KeyValue("Aircraft", receipt.AircraftType.ICAOCode)
	}
	if receipt.IsCAAMember {
		d.KeyValue("CAA Member", "Yes")
	}
	if receipt.GeneratedAt != nil {
		d.KeyValue("Date", receipt.GeneratedAt.Format("2006-01-02 15:04"))
	}
	d.Separator('-')

	for _, item := range receipt.LineItems {
		switch item.Type {
		case enum.LineItemTypeFuel:
			d.Text(item.Description)
			d.KeyValue(
				"  "+item.Quantity.String()+" gal @ $"+item.UnitPrice.StringFixed(4),
				"$"+item.Amount.StringFixed(2),
			)
		case enum.LineItemTypeWaiver:
			d.KeyValue("  "+item.Description, "-$"+item.Amount.Neg().StringFixed(2))
		default:
			d.KeyValue(item.Description, "$"+item.Amount.StringFixed(2))
		}
	}

	d.Separator('-')
	d.KeyValue("Fuel Subtotal", "$"+receipt.FuelSubtotal.StringFixed(2))
	d.KeyValue("Fees", "$"+receipt.TotalFees.StringFixed(2))
	if !receipt.TotalWaivers.IsZero() {
		d.KeyValue("Waivers", "-$"+receipt.TotalWaivers.Abs().StringFixed(2))
	}
	d.KeyValue("Tax", "$"+receipt.TaxAmount.StringFixed(2))
	d.Separator('=')
	d.KeyValue("TOTAL", "$"+receipt.GrandTotal.StringFixed(2))

	if receipt.PaymentMethod != nil {
		d.LineFeed()
		d.KeyValue("Paid By", *receipt.PaymentMethod)
	}
	if receipt.Status == enum.ReceiptStatusVoid && receipt.VoidReason != nil {
		d.LineFeed()
		d.TextF("VOID: %s", *receipt.VoidReason)
	}

	d.FeedLines(1)
	d.SetAlign(AlignCenter)
	d.Text("Thank you for flying with us")

	return d.String()
}
