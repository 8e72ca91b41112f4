package preview

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"facturation-backend/settings"
)

// Money formats amounts with the digit grouping and decimal separator of a locale.
type Money struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewMoney returns a formatter for loc and the ISO 4217 code iso.
func NewMoney(loc settings.Locale, iso string) (*Money, error) {
	if iso == "" {
		iso = settings.DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.ToUpper(iso))
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", iso, err)
	}
	return &Money{printer: message.NewPrinter(loc.Tag), unit: unit}, nil
}

// Number formats d with exactly scale decimals.
func (m *Money) Number(d decimal.Decimal, scale int) string {
	return m.printer.Sprint(number.Decimal(d.Round(int32(scale)).InexactFloat64(), number.Scale(scale)))
}

// Format formats d with two decimals followed by the currency code.
func (m *Money) Format(d decimal.Decimal) string {
	return m.Number(d, 2) + " " + m.unit.String()
}

// Percent formats a VAT rate.
func (m *Money) Percent(d decimal.Decimal) string {
	scale := 0
	if !d.Equal(d.Truncate(0)) {
		scale = 2
	}
	return m.Number(d, scale) + " %"
}
