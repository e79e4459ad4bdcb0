package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func nullDecimalForTest(t *testing.T, s string, valid bool) decimal.NullDecimal {
	t.Helper()
	if !valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test decimal %q: %v", s, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
