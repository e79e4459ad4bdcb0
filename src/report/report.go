package report

import (
	"fmt"
	"strings"
	"time"

	"hyperwatch/src/model"
	"hyperwatch/src/utils"
)

// Limits caps how many items each section displays. Anything beyond the cap
// is summarized in a truncation notice.
type Limits struct {
	Orders int
	Fills  int
}

func DefaultLimits() Limits {
	return Limits{Orders: 8, Fills: 5}
}

// Section is one display block of the assembled report.
type Section struct {
	Title  string
	Lines  []string
	Footer string
}

func (s Section) render() string {
	parts := make([]string, 0, 2+len(s.Lines))
	parts = append(parts, s.Title)
	parts = append(parts, s.Lines...)
	if s.Footer != "" {
		parts = append(parts, s.Footer)
	}
	return strings.Join(parts, "\n")
}

// empty reports whether the section carries no items (placeholder only).
func (s Section) empty() bool {
	return len(s.Lines) == 0
}

// Assemble composes the normalized snapshot into the fixed section order:
// positions, open orders, recent fills. Absent datasets (nil slice) render a
// "no data" placeholder, genuinely empty ones an "empty" placeholder.
func Assemble(snap model.Snapshot, limits Limits, loc *time.Location) []Section {
	return []Section{
		positionsSection(snap.Positions, snap.FetchedAt, loc),
		ordersSection(snap.Orders, limits.Orders),
		fillsSection(snap.Fills, limits.Fills, loc),
	}
}

// Render joins sections with blank lines under a wallet header. When every
// section is empty the whole body collapses into a single fallback line.
func Render(snap model.Snapshot, sections []Section) string {
	allEmpty := true
	for _, s := range sections {
		if !s.empty() {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return fmt.Sprintf("No data found for `%s`.", snap.Wallet)
	}

	blocks := make([]string, 0, 1+len(sections))
	blocks = append(blocks, fmt.Sprintf("🧾 *Wallet:* `%s`", snap.Wallet))
	for _, s := range sections {
		blocks = append(blocks, s.render())
	}
	return strings.Join(blocks, "\n\n")
}

func positionsSection(positions []model.Position, fetchedAt time.Time, loc *time.Location) Section {
	if positions == nil {
		return Section{Title: "📌 *Open positions*: (no data)"}
	}
	if len(positions) == 0 {
		return Section{Title: "📌 *Open positions*: (none)"}
	}

	sec := Section{Title: "📌 *Open positions*"}
	if !fetchedAt.IsZero() {
		sec.Footer = fmt.Sprintf("_Updated: %s_", utils.FormatTime(fetchedAt, loc))
	}
	for _, p := range positions {
		lev := utils.Unknown
		if p.Leverage.Valid {
			lev = fmt.Sprintf("%sx %s", p.Leverage.Decimal.String(), p.LeverageKind)
		}
		sec.Lines = append(sec.Lines,
			fmt.Sprintf("• %s: *%s*  size=`%s`  ntl=`$%s`", p.Coin, p.Side, FormatDecimal(p.Size), FormatDecimal(p.Notional)),
			fmt.Sprintf("  entry=`%s`  liq=`%s`  uPnL=`%s`  lev=`%s`",
				FormatDecimal(p.EntryPrice), FormatDecimal(p.LiquidationPx), FormatSigned(p.UnrealizedPnl), lev),
		)
	}
	return sec
}

func ordersSection(orders []model.OpenOrder, limit int) Section {
	if orders == nil {
		return Section{Title: "📋 *Open orders*: (no data)"}
	}
	if len(orders) == 0 {
		return Section{Title: "📋 *Open orders*: (none)"}
	}

	sec := Section{Title: "📋 *Open orders*"}
	shown := orders
	if limit > 0 && len(orders) > limit {
		shown = orders[:limit]
	}
	for _, o := range shown {
		trigger := o.TriggerCondition
		if trigger == "" {
			trigger = "N/A"
		}
		sec.Lines = append(sec.Lines, fmt.Sprintf("• %s %s %s@%s  (%s, trig=%s %s)",
			o.Coin, o.Side, FormatDecimal(o.Size), FormatDecimal(o.LimitPrice),
			o.Kind, trigger, FormatDecimal(o.TriggerPrice)))
	}
	if omitted := len(orders) - len(shown); omitted > 0 {
		sec.Footer = fmt.Sprintf("_… and %d more_", omitted)
	}
	return sec
}

func fillsSection(fills []model.Fill, limit int, loc *time.Location) Section {
	if fills == nil {
		return Section{Title: "🧾 *Recent fills*: (no data)"}
	}
	if len(fills) == 0 {
		return Section{Title: "🧾 *Recent fills*: (no recent activity)"}
	}

	sec := Section{Title: "🧾 *Recent fills*"}
	shown := fills
	if limit > 0 && len(fills) > limit {
		shown = fills[:limit]
	}
	for _, f := range shown {
		sec.Lines = append(sec.Lines, fmt.Sprintf("• %s %s — %s %s %s@%s",
			fillMarker(f.Class), utils.FormatTime(f.Time, loc),
			f.Coin, f.Direction, FormatDecimal(f.Size), FormatDecimal(f.Price)))
	}
	if omitted := len(fills) - len(shown); omitted > 0 {
		sec.Footer = fmt.Sprintf("_… and %d more_", omitted)
	}
	return sec
}

func fillMarker(class model.FillClass) string {
	switch class {
	case model.FillClassLong:
		return "🟢"
	case model.FillClassShort:
		return "🔴"
	default:
		return "⚪"
	}
}
