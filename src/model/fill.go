package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FillClass is a best-effort cosmetic classification of a fill's free-text
// direction label, used only for display emphasis.
type FillClass string

const (
	FillClassLong    FillClass = "long"
	FillClassShort   FillClass = "short"
	FillClassNeutral FillClass = "neutral"
)

// Fill is a completed trade execution record.
type Fill struct {
	Coin      string
	Direction string // venue free-text label, e.g. "Open Long"
	Class     FillClass
	Size      decimal.NullDecimal
	Price     decimal.NullDecimal
	Time      time.Time // zero when the venue timestamp was missing/invalid
	TimeMs    int64
}

// Snapshot bundles the three normalized datasets fetched for one wallet.
// A nil slice means the upstream dataset was absent entirely; an empty
// non-nil slice means the venue answered with no records.
type Snapshot struct {
	Wallet    WalletAddress
	Positions []Position
	Orders    []OpenOrder
	Fills     []Fill
	FetchedAt time.Time
}
