// Package preview renders sample documents from a tenant's settings so the configured numbering,
// captions, column layout and branding can be checked before a real document is issued.
package preview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"facturation-backend/pricing"
	"facturation-backend/settings"
)

// RGB is a color in 0..255 components.
type RGB struct{ R, G, B int }

var defaultColor = RGB{R: 29, G: 78, B: 216}

// ParseHexColor parses #rgb or #rrggbb. Anything else yields the default brand color.
func ParseHexColor(s string) RGB {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return defaultColor
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return defaultColor
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Line is one sample line item. Prices are HT.
type Line struct {
	Reference string
	Name      string
	Quantity  decimal.Decimal
	UnitHT    decimal.Decimal
	VATRate   decimal.Decimal
}

// Totals are the document totals of the sample lines.
type Totals struct {
	HT  decimal.Decimal
	Tax decimal.Decimal
	TTC decimal.Decimal
}

// Layout is everything a renderer needs to draw a sample document.
type Layout struct {
	Kind      settings.DocumentKind
	Locale    settings.Locale
	Title     string
	Reference string
	Date      time.Time
	Company   *settings.CompanySettings
	Columns   []settings.DocumentColumn
	Labels    settings.DocumentLabels
	PriceMode settings.PriceDisplayMode
	Color     RGB
	Lines     []Line

	money *Money
}

// NewLayout merges s with the defaults and lays out a sample document of kind dated now.
func NewLayout(s *settings.CompanySettings, kind settings.DocumentKind, now time.Time) (*Layout, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", settings.ErrUnknownKind, kind)
	}
	merged := settings.Merge(s)
	loc := settings.LocaleOf(merged)
	money, err := NewMoney(loc, merged.Currency)
	if err != nil {
		return nil, err
	}
	return &Layout{
		Kind:      kind,
		Locale:    loc,
		Title:     loc.Title(kind),
		Reference: settings.Preview(merged, kind, now),
		Date:      now,
		Company:   merged,
		Columns:   merged.DocumentColumns.Visible(),
		Labels:    *merged.DocumentLabels,
		PriceMode: merged.PriceDisplayMode,
		Color:     ParseHexColor(merged.PrimaryColor),
		Lines:     sampleLines(loc),
		money:     money,
	}, nil
}

func sampleLines(loc settings.Locale) []Line {
	d := decimal.RequireFromString
	return []Line{
		{Reference: "P-001", Name: loc.Pick("Prestation de conseil", "Consulting services", "خدمات استشارية"), Quantity: d("2"), UnitHT: d("1500.00"), VATRate: d("20")},
		{Reference: "P-002", Name: loc.Pick("Licence logiciel", "Software licence", "رخصة برنامج"), Quantity: d("1"), UnitHT: d("899.90"), VATRate: d("20")},
		{Reference: "P-003", Name: loc.Pick("Frais de déplacement", "Travel expenses", "مصاريف التنقل"), Quantity: d("3"), UnitHT: d("120.00"), VATRate: d("10")},
	}
}

func converter(rate decimal.Decimal) pricing.Converter {
	c, err := pricing.NewConverter(rate)
	if err != nil {
		// sample rates are constants within range
		panic(err)
	}
	return c
}

// LineHT is the HT amount of l.
func LineHT(l Line) decimal.Decimal {
	return pricing.Round2(l.Quantity.Mul(l.UnitHT))
}

// Totals sums the sample lines. Tax is computed per line.
func (l *Layout) Totals() Totals {
	t := Totals{HT: decimal.Zero, Tax: decimal.Zero}
	for _, line := range l.Lines {
		ht := LineHT(line)
		t.HT = t.HT.Add(ht)
		t.Tax = t.Tax.Add(converter(line.VATRate).Tax(ht))
	}
	t.TTC = t.HT.Add(t.Tax)
	return t
}

// Value is the raw value of column id for line: a string, or a decimal for numeric columns.
// Prices follow the configured display mode.
func (l *Layout) Value(id string, line Line) any {
	conv := converter(line.VATRate)
	switch id {
	case settings.ColumnReference:
		return line.Reference
	case settings.ColumnName:
		return line.Name
	case settings.ColumnQuantity:
		return line.Quantity
	case settings.ColumnUnitPrice:
		if l.PriceMode == settings.PriceTTC {
			return conv.TTC(line.UnitHT)
		}
		return pricing.Round2(line.UnitHT)
	case settings.ColumnVAT:
		return line.VATRate
	case settings.ColumnTotal:
		ht := LineHT(line)
		if l.PriceMode == settings.PriceTTC {
			return conv.TTC(ht)
		}
		return ht
	}
	return ""
}

// Cell is the printed text of column id for line.
func (l *Layout) Cell(id string, line Line) string {
	v := l.Value(id, line)
	switch id {
	case settings.ColumnUnitPrice, settings.ColumnTotal:
		return l.money.Format(v.(decimal.Decimal))
	case settings.ColumnVAT:
		return l.money.Percent(v.(decimal.Decimal))
	case settings.ColumnQuantity:
		return l.money.Number(v.(decimal.Decimal), 0)
	}
	s, _ := v.(string)
	return s
}

// Money formats an amount in the layout's locale and currency.
func (l *Layout) Money(d decimal.Decimal) string {
	return l.money.Format(d)
}

// Headers are the captions of the visible columns in order.
func (l *Layout) Headers() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Label
	}
	return out
}

// AddressLines are the company identity lines printed under the company name.
func (l *Layout) AddressLines() []string {
	c := l.Company
	var out []string
	add := func(parts ...string) {
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			out = append(out, strings.Join(kept, " "))
		}
	}
	add(c.Address)
	add(c.Zip, c.City)
	add(c.Country)
	add(c.Phone)
	add(c.Email)
	if c.TaxID != "" {
		add(l.Locale.Pick("ICE :", "Tax ID:", "التعريف الضريبي:"), c.TaxID)
	}
	return out
}
