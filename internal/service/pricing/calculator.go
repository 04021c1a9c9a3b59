// Package pricing computes the fields of the order and production forms that are derived
// from other fields. Every function is pure; the UI calls them on each change event.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
)

// DefaultVATPct is the VAT rate pre-filled in the order form.
const DefaultVATPct = 19

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// InvoiceInput holds the numeric inputs of the invoice block.
type InvoiceInput struct {
	PriceBeforeTax decimal.Decimal
	VATPct         decimal.Decimal
	DiscountPct    decimal.Decimal
	Advance        decimal.Decimal
}

// Invoice holds the inputs and every derived amount, rounded to cents.
type Invoice struct {
	PriceBeforeTax     decimal.Decimal `json:"price_before_tax"`
	VATPct             decimal.Decimal `json:"vat_pct"`
	DiscountPct        decimal.Decimal `json:"discount_pct"`
	PriceAfterDiscount decimal.Decimal `json:"price_after_discount"`
	PriceAfterTax      decimal.Decimal `json:"price_after_tax"`
	Advance            decimal.Decimal `json:"advance"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
}

// ComputeInvoice applies the discount, then VAT, then subtracts the advance.
func ComputeInvoice(in InvoiceInput) Invoice {
	afterDiscount := in.PriceBeforeTax.Mul(one.Sub(in.DiscountPct.Div(hundred)))
	afterTax := afterDiscount.Mul(one.Add(in.VATPct.Div(hundred))).Round(2)

	return Invoice{
		PriceBeforeTax:     in.PriceBeforeTax,
		VATPct:             in.VATPct,
		DiscountPct:        in.DiscountPct,
		PriceAfterDiscount: afterDiscount.Round(2),
		PriceAfterTax:      afterTax,
		Advance:            in.Advance,
		RemainingBalance:   ComputeRemaining(afterTax, in.Advance),
	}
}

// ComputeRemaining is the balance left after the advance, rounded to cents.
func ComputeRemaining(priceAfterTax, advance decimal.Decimal) decimal.Decimal {
	return priceAfterTax.Sub(advance).Round(2)
}

// ComputeYield returns raw/produced rounded to 2 decimals. ok is false for olives and
// whenever the produced quantity is not positive.
func ComputeYield(productType models.ProductType, rawKg, producedL float64) (yield float64, ok bool) {
	if !productType.HasOutput() || producedL <= 0 {
		return 0, false
	}
	return math.Round(rawKg/producedL*100) / 100, true
}

// ParseAmount reads a number typed in a free text field. Anything that does not parse,
// blanks included, counts as zero.
func ParseAmount(text string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return value
}

// ParseQuantity reads a quantity that must be a finite number greater than zero.
func ParseQuantity(text string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}
	return value, true
}

// InvoiceForm mirrors the text fields of the invoice block.
type InvoiceForm struct {
	PriceBeforeTax string `json:"price_before_tax"`
	VATPct         string `json:"vat_pct"`
	DiscountPct    string `json:"discount_pct"`
	Advance        string `json:"advance"`
}

// WithDefaults fills the VAT and discount fields the way the blank form is pre-filled.
func (f InvoiceForm) WithDefaults() InvoiceForm {
	if strings.TrimSpace(f.VATPct) == "" {
		f.VATPct = strconv.Itoa(DefaultVATPct)
	}
	if strings.TrimSpace(f.DiscountPct) == "" {
		f.DiscountPct = "0"
	}
	return f
}

// Input converts the text fields, applying ParseAmount to each.
func (f InvoiceForm) Input() InvoiceInput {
	return InvoiceInput{
		PriceBeforeTax: ParseAmount(f.PriceBeforeTax),
		VATPct:         ParseAmount(f.VATPct),
		DiscountPct:    ParseAmount(f.DiscountPct),
		Advance:        ParseAmount(f.Advance),
	}
}

// InvoiceFields are the read-only text fields refreshed after each keystroke.
type InvoiceFields struct {
	PriceAfterDiscount string `json:"price_after_discount"`
	PriceAfterTax      string `json:"price_after_tax"`
	RemainingBalance   string `json:"remaining_balance"`
}

// RecomputeInvoice runs the whole keystroke pipeline on raw form text.
func RecomputeInvoice(form InvoiceForm) InvoiceFields {
	inv := ComputeInvoice(form.Input())
	return InvoiceFields{
		PriceAfterDiscount: inv.PriceAfterDiscount.StringFixed(2),
		PriceAfterTax:      inv.PriceAfterTax.StringFixed(2),
		RemainingBalance:   inv.RemainingBalance.StringFixed(2),
	}
}

// RecomputeYield returns the yield text for the production form, or "" when it does not apply.
func RecomputeYield(productType models.ProductType, rawKg, producedL string) string {
	raw, okRaw := ParseQuantity(rawKg)
	produced, okProduced := ParseQuantity(producedL)
	if !okRaw || !okProduced {
		return ""
	}
	yield, ok := ComputeYield(productType, raw, produced)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(yield, 'f', 2, 64)
}
