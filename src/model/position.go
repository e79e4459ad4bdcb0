package model

import "github.com/shopspring/decimal"

// Side is the directional classification of a position, derived from the
// sign of its size.
type Side string

const (
	SideLong  Side = "Long"
	SideShort Side = "Short"
	SideFlat  Side = "Flat"
)

// SideFromSize derives the position side from a signed size. A missing or
// unparseable size counts as Flat.
func SideFromSize(size decimal.NullDecimal) Side {
	if !size.Valid {
		return SideFlat
	}
	switch size.Decimal.Sign() {
	case 1:
		return SideLong
	case -1:
		return SideShort
	default:
		return SideFlat
	}
}

const (
	LeverageCross    = "cross"
	LeverageIsolated = "isolated"
)

// Position is an open perpetuals exposure on the venue. Numeric fields keep
// exact decimal precision; Valid=false means the venue sent something we
// could not parse and the field renders as "-".
type Position struct {
	Coin          string
	Size          decimal.NullDecimal // signed, sign encodes direction
	Side          Side
	EntryPrice    decimal.NullDecimal
	LiquidationPx decimal.NullDecimal
	UnrealizedPnl decimal.NullDecimal
	Notional      decimal.NullDecimal
	Leverage      decimal.NullDecimal
	LeverageKind  string // cross or isolated
}
