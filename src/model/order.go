package model

import "github.com/shopspring/decimal"

const (
	OrderSideBuy  = "Buy"
	OrderSideSell = "Sell"
)

// OpenOrder is a resting, unexecuted order on the venue's book. Side is the
// mapped venue code (B -> Buy, A -> Sell); unrecognized codes are passed
// through raw so nothing is silently dropped.
type OpenOrder struct {
	Coin             string
	Side             string
	Size             decimal.NullDecimal
	LimitPrice       decimal.NullDecimal
	Kind             string // venue order type label, e.g. "Limit"
	TriggerCondition string
	TriggerPrice     decimal.NullDecimal // zero when the order has no trigger
}
