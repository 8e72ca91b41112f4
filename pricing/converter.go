// Package pricing converts between tax-exclusive (HT) and tax-inclusive (TTC) prices.
//
// HT is the stored value; TTC is always derived from it for the current VAT rate.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode says which side a user-entered amount is expressed in.
type Mode string

const (
	HT  Mode = "HT"
	TTC Mode = "TTC"
)

// ErrInvalidRate is returned for VAT rates outside 0..100.
var ErrInvalidRate = errors.New("vat rate must be between 0 and 100")

// ErrUnknownMode is returned when an entry names a mode other than HT or TTC.
var ErrUnknownMode = errors.New("unknown price mode")

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Converter converts prices for one VAT rate, in percent.
type Converter struct {
	rate   decimal.Decimal
	factor decimal.Decimal // 1 + rate/100
}

// NewConverter returns a converter for rate percent.
func NewConverter(rate decimal.Decimal) (Converter, error) {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return Converter{}, fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	return Converter{rate: rate, factor: decimal.NewFromInt(1).Add(rate.Div(hundred))}, nil
}

// Rate returns the VAT rate in percent.
func (c Converter) Rate() decimal.Decimal { return c.rate }

// FromHT returns the HT value to store for an HT-entered amount.
func (c Converter) FromHT(v decimal.Decimal) decimal.Decimal {
	return Round2(v)
}

// FromTTC returns the HT value to store for a TTC-entered amount.
func (c Converter) FromTTC(v decimal.Decimal) decimal.Decimal {
	// Div keeps 16 digits of precision, enough before rounding to cents.
	return Round2(v.Div(c.factor))
}

// TTC derives the tax-inclusive price of a stored HT value.
func (c Converter) TTC(ht decimal.Decimal) decimal.Decimal {
	return Round2(ht.Mul(c.factor))
}

// Tax derives the tax amount of a stored HT value.
func (c Converter) Tax(ht decimal.Decimal) decimal.Decimal {
	return c.TTC(ht).Sub(Round2(ht))
}

// Entry is an amount as typed by a user, together with the side it was typed on.
type Entry struct {
	Value decimal.Decimal `json:"value"`
	Mode  Mode            `json:"mode" validate:"omitempty,oneof=HT TTC"`
}

// Resolve returns the HT value to store for e. An empty mode means HT.
func (c Converter) Resolve(e Entry) (decimal.Decimal, error) {
	switch e.Mode {
	case HT, "":
		return c.FromHT(e.Value), nil
	case TTC:
		return c.FromTTC(e.Value), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownMode, e.Mode)
}

// Price is the stored side of a price pair.
type Price struct {
	HT decimal.Decimal `json:"ht"`
}

// Pair is the displayed HT/TTC pair of a price for one VAT rate.
type Pair struct {
	HT  decimal.Decimal `json:"ht"`
	TTC decimal.Decimal `json:"ttc"`
}

// Display derives the pair shown for p.
func (c Converter) Display(p Price) Pair {
	return Pair{HT: Round2(p.HT), TTC: c.TTC(p.HT)}
}
