package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"hyperwatch/src/utils"
)

// displayPlaces is the fixed decimal precision all financial quantities are
// rendered at. Re-formatting an already formatted value is idempotent.
const displayPlaces = 2

// FormatDecimal renders an exact decimal at fixed precision with thousands
// separators, or "-" when the venue value could not be parsed.
func FormatDecimal(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return utils.Unknown
	}
	return groupThousands(nd.Decimal.StringFixed(displayPlaces))
}

// FormatSigned renders like FormatDecimal but keeps an explicit plus sign on
// positive values, for P&L emphasis.
func FormatSigned(nd decimal.NullDecimal) string {
	if !nd.Valid {
		return utils.Unknown
	}
	s := FormatDecimal(nd)
	if nd.Decimal.Sign() > 0 {
		return "+" + s
	}
	return s
}

// groupThousands inserts comma separators into the integer part of an
// already fixed-precision decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteString(fracPart)
	return b.String()
}
