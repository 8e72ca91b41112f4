package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		cfg      NumberingConfig
		seq      int
		year     int
		expected string
	}{
		{
			name:     "default invoice rule",
			cfg:      NumberingConfig{Prefix: "FAC", YearFormat: YearFull, StartNumber: 1, Padding: 5, Separator: "/"},
			seq:      1,
			year:     2026,
			expected: "FAC/2026/00001",
		},
		{
			name:     "wider than padding is not truncated",
			cfg:      NumberingConfig{Prefix: "DEV", YearFormat: YearFull, Padding: 2, Separator: "/"},
			seq:      123,
			year:     2026,
			expected: "DEV/2026/123",
		},
		{
			name:     "no year drops the year and its separator",
			cfg:      NumberingConfig{Prefix: "BC", YearFormat: YearNone, Padding: 3, Separator: "-"},
			seq:      7,
			year:     2026,
			expected: "BC-007",
		},
		{
			name:     "short year",
			cfg:      NumberingConfig{Prefix: "BL", YearFormat: YearShort, Padding: 4, Separator: "-"},
			seq:      42,
			year:     2026,
			expected: "BL-26-0042",
		},
		{
			name:     "short year keeps two digits",
			cfg:      NumberingConfig{Prefix: "AVO", YearFormat: YearShort, Padding: 1, Separator: "/"},
			seq:      9,
			year:     2005,
			expected: "AVO/05/9",
		},
		{
			name:     "empty prefix and separator",
			cfg:      NumberingConfig{YearFormat: YearFull, Padding: 3},
			seq:      5,
			year:     2026,
			expected: "2026005",
		},
		{
			name:     "exact width",
			cfg:      NumberingConfig{Prefix: "FAC", YearFormat: YearNone, Padding: 3, Separator: "/"},
			seq:      999,
			year:     2026,
			expected: "FAC/999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.cfg, tt.seq, tt.year))
		})
	}
}

func TestPreview(t *testing.T) {
	now := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)

	t.Run("uses start number and current year", func(t *testing.T) {
		s := &CompanySettings{QuoteNumbering: &NumberingConfig{
			Prefix: "DEV", YearFormat: YearFull, StartNumber: 12, Padding: 4, Separator: "-",
		}}
		assert.Equal(t, "DEV-2026-0012", Preview(s, KindQuote, now))
	})

	t.Run("missing config yields empty string", func(t *testing.T) {
		s := &CompanySettings{}
		assert.Equal(t, "", Preview(s, KindInvoice, now))
	})

	t.Run("unknown kind yields empty string", func(t *testing.T) {
		s := Merge(nil)
		assert.Equal(t, "", Preview(s, DocumentKind("receipt"), now))
	})

	t.Run("nil settings", func(t *testing.T) {
		assert.Equal(t, "", Preview(nil, KindInvoice, now))
	})

	t.Run("merged defaults", func(t *testing.T) {
		s := Merge(nil)
		assert.Equal(t, "FAC/2026/00001", Preview(s, KindInvoice, now))
		assert.Equal(t, "AVO/2026/00001", Preview(s, KindCreditNote, now))
	})
}

func TestSequenceYear(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, SequenceYear(NumberingConfig{YearFormat: YearFull}, now))
	assert.Equal(t, 2026, SequenceYear(NumberingConfig{YearFormat: YearShort}, now))
	assert.Equal(t, 0, SequenceYear(NumberingConfig{YearFormat: YearNone}, now))
}

func TestFormat_PaddingIsCapped(t *testing.T) {
	cfg := NumberingConfig{Prefix: "FAC", YearFormat: YearNone, Padding: 1 << 40, Separator: "-"}
	assert.Equal(t, "FAC-0000000042", Format(cfg, 42, 2026))
}
