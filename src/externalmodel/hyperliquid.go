package externalmodel

// Raw payload shapes returned by the Hyperliquid info endpoint. Numeric
// fields stay strings: the venue encodes quantities as decimal strings and
// parsing happens in the mapper with per-field fallbacks.

// ClearinghouseState is the response to {"type":"clearinghouseState"}.
type ClearinghouseState struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
	MarginSummary  MarginSummary   `json:"marginSummary"`
	Time           int64           `json:"time"`
}

type AssetPosition struct {
	Type     string      `json:"type"`
	Position RawPosition `json:"position"`
}

type RawPosition struct {
	Coin           string   `json:"coin"`
	Szi            string   `json:"szi"` // signed position size
	EntryPx        string   `json:"entryPx"`
	PositionValue  string   `json:"positionValue"`
	UnrealizedPnl  string   `json:"unrealizedPnl"`
	ReturnOnEquity string   `json:"returnOnEquity"`
	LiquidationPx  string   `json:"liquidationPx,omitempty"`
	Leverage       Leverage `json:"leverage"`
	MaxLeverage    int      `json:"maxLeverage"`
	MarginUsed     string   `json:"marginUsed"`
}

type Leverage struct {
	Type  string `json:"type"` // "cross" or "isolated"
	Value int    `json:"value"`
}

type MarginSummary struct {
	AccountValue    string `json:"accountValue"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalRawUSD     string `json:"totalRawUsd"`
	TotalMarginUsed string `json:"totalMarginUsed"`
}

// OpenOrder is one entry of the {"type":"frontendOpenOrders"} response.
type OpenOrder struct {
	Coin             string `json:"coin"`
	Side             string `json:"side"` // "B" buy, "A" sell
	Sz               string `json:"sz"`
	OrigSz           string `json:"origSz"`
	LimitPx          string `json:"limitPx"`
	OrderType        string `json:"orderType"`
	TriggerCondition string `json:"triggerCondition"`
	TriggerPx        string `json:"triggerPx"`
	IsTrigger        bool   `json:"isTrigger"`
	ReduceOnly       bool   `json:"reduceOnly"`
	Oid              int64  `json:"oid"`
	Timestamp        int64  `json:"timestamp"`
}

// Fill is one entry of the {"type":"userFills"} response.
type Fill struct {
	Coin          string `json:"coin"`
	Px            string `json:"px"`
	Sz            string `json:"sz"`
	Side          string `json:"side"`
	Dir           string `json:"dir"` // free text, e.g. "Open Long"
	Time          int64  `json:"time"`
	StartPosition string `json:"startPosition"`
	ClosedPnl     string `json:"closedPnl"`
	Hash          string `json:"hash"`
	Oid           int64  `json:"oid"`
	Tid           int64  `json:"tid"`
	Crossed       bool   `json:"crossed"`
	Fee           string `json:"fee"`
}
