package mapper

import (
	"strings"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"hyperwatch/src/externalmodel"
	"hyperwatch/src/model"
	"hyperwatch/src/utils"
)

// parseDecimalSafe converts a venue numeric string into an exact decimal.
// A missing or malformed field never aborts the record: it comes back with
// Valid=false and renders as "-" downstream.
func parseDecimalSafe(field, v string) decimal.NullDecimal {
	if v == "" {
		logger.WithField("field", field).Debug("Empty numeric field received, rendering as unknown")
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"field": field,
			"value": v,
		}).WithError(err).Error("Failed to parse decimal from venue field; rendering as unknown")
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// MapPositions converts a clearinghouse state into normalized positions.
// A nil state means the upstream dataset was absent and maps to nil.
func MapPositions(state *externalmodel.ClearinghouseState) []model.Position {
	if state == nil {
		return nil
	}

	positions := make([]model.Position, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		raw := ap.Position
		size := parseDecimalSafe("szi", raw.Szi)

		positions = append(positions, model.Position{
			Coin:          raw.Coin,
			Size:          size,
			Side:          model.SideFromSize(size),
			EntryPrice:    parseDecimalSafe("entryPx", raw.EntryPx),
			LiquidationPx: parseDecimalSafe("liquidationPx", raw.LiquidationPx),
			UnrealizedPnl: parseDecimalSafe("unrealizedPnl", raw.UnrealizedPnl),
			Notional:      parseDecimalSafe("positionValue", raw.PositionValue),
			Leverage:      decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(raw.Leverage.Value)), Valid: raw.Leverage.Value > 0},
			LeverageKind:  raw.Leverage.Type,
		})
	}
	return positions
}

// MapOpenOrders converts frontend open orders. A nil input maps to nil
// (absent dataset); an empty slice stays empty.
func MapOpenOrders(raw []externalmodel.OpenOrder) []model.OpenOrder {
	if raw == nil {
		return nil
	}

	orders := make([]model.OpenOrder, 0, len(raw))
	for _, o := range raw {
		size := o.Sz
		if size == "" {
			size = o.OrigSz
		}
		orders = append(orders, model.OpenOrder{
			Coin:             o.Coin,
			Side:             mapOrderSide(o.Side),
			Size:             parseDecimalSafe("sz", size),
			LimitPrice:       parseDecimalSafe("limitPx", o.LimitPx),
			Kind:             orderKindOrDefault(o.OrderType),
			TriggerCondition: o.TriggerCondition,
			TriggerPrice:     triggerPrice(o.TriggerPx),
		})
	}
	return orders
}

// mapOrderSide maps the venue side code to a display side. Unrecognized
// codes pass through raw rather than failing the record.
func mapOrderSide(side string) string {
	switch side {
	case "B":
		return model.OrderSideBuy
	case "A":
		return model.OrderSideSell
	default:
		return side
	}
}

func orderKindOrDefault(kind string) string {
	if kind == "" {
		return "Limit"
	}
	return kind
}

// triggerPrice defaults to an exact zero when the venue omits the field, so
// non-trigger orders render "0.00" rather than the unknown sentinel.
func triggerPrice(v string) decimal.NullDecimal {
	if v == "" {
		return decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	}
	return parseDecimalSafe("triggerPx", v)
}

// MapFills converts venue fills, preserving the order the connector
// established (time descending). A nil input maps to nil.
func MapFills(raw []externalmodel.Fill) []model.Fill {
	if raw == nil {
		return nil
	}

	fills := make([]model.Fill, 0, len(raw))
	for _, f := range raw {
		t, _ := utils.FromMillis(f.Time)
		fills = append(fills, model.Fill{
			Coin:      f.Coin,
			Direction: f.Dir,
			Class:     ClassifyFillDirection(f.Dir),
			Size:      parseDecimalSafe("sz", f.Sz),
			Price:     parseDecimalSafe("px", f.Px),
			Time:      t,
			TimeMs:    f.Time,
		})
	}
	return fills
}

// ClassifyFillDirection is a best-effort cosmetic classifier over the venue's
// free-text direction label. Not authoritative; only drives display emphasis.
func ClassifyFillDirection(dir string) model.FillClass {
	lower := strings.ToLower(dir)
	switch {
	case strings.Contains(lower, "long"):
		return model.FillClassLong
	case strings.Contains(lower, "short"):
		return model.FillClassShort
	default:
		return model.FillClassNeutral
	}
}
