package settings

import (
	"strconv"
	"strings"
	"time"
)

// Format renders the reference of document number seq issued in year.
//
// The number is left-padded with zeros to cfg.Padding characters, at most MaxPadding, and is
// never truncated when it is already wider. With YearNone both the year and its separator are
// omitted.
func Format(cfg NumberingConfig, seq int, year int) string {
	num := strconv.Itoa(seq)
	if n := min(cfg.Padding, MaxPadding) - len(num); n > 0 {
		num = strings.Repeat("0", n) + num
	}

	var b strings.Builder
	b.WriteString(cfg.Prefix)
	b.WriteString(cfg.Separator)
	switch cfg.YearFormat {
	case YearNone:
	case YearShort:
		yy := strconv.Itoa(year % 100)
		if len(yy) < 2 {
			yy = "0" + yy
		}
		b.WriteString(yy)
		b.WriteString(cfg.Separator)
	default:
		b.WriteString(strconv.Itoa(year))
		b.WriteString(cfg.Separator)
	}
	b.WriteString(num)
	return b.String()
}

// MaxPadding is the widest zero padding a config may ask for.
const MaxPadding = 10

// Preview renders the reference a kind's next document would get if its sequence started now,
// using the config's StartNumber. It returns "" when the kind has no config.
func Preview(s *CompanySettings, kind DocumentKind, now time.Time) string {
	cfg := s.Numbering(kind)
	if cfg == nil {
		return ""
	}
	return Format(*cfg, cfg.StartNumber, now.Year())
}

// SequenceYear is the year a kind's counter is keyed on: the calendar year, or 0 when the
// reference carries no year and numbering never resets.
func SequenceYear(cfg NumberingConfig, now time.Time) int {
	if cfg.YearFormat == YearNone {
		return 0
	}
	return now.Year()
}
