package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

const (
	NoStrategy = "No Strategy"
	Unknown    = "Unknown"
)

// KeyFunc maps a trade to its category label.
type KeyFunc func(journal.TradeRecord) string

func ByStrategy(t journal.TradeRecord) string {
	return orLabel(t.StrategyName, NoStrategy)
}

func BySymbol(t journal.TradeRecord) string {
	return orLabel(strings.ToUpper(t.Symbol), Unknown)
}

func BySetup(t journal.TradeRecord) string {
	return orLabel(t.SetupType, Unknown)
}

func ByDirection(t journal.TradeRecord) string {
	return orLabel(string(t.Direction), Unknown)
}

// ByWeekday groups by the weekday of the open time in loc (UTC when nil).
func ByWeekday(loc *time.Location) KeyFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(t journal.TradeRecord) string {
		if t.OpenedAt.IsZero() {
			return Unknown
		}
		return t.OpenedAt.In(loc).Weekday().String()
	}
}

// KeyByName resolves the CLI names strategy, symbol, setup, direction and weekday.
func KeyByName(name string, loc *time.Location) (KeyFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strategy":
		return ByStrategy, nil
	case "symbol", "instrument":
		return BySymbol, nil
	case "setup":
		return BySetup, nil
	case "direction", "side":
		return ByDirection, nil
	case "weekday", "day":
		return ByWeekday(loc), nil
	}
	return nil, fmt.Errorf("unknown breakdown key %q", name)
}

type Category struct {
	Label     string          `json:"label"`
	Trades    int             `json:"trades"`
	Wins      int             `json:"wins"`
	Losses    int             `json:"losses"`
	BreakEven int             `json:"breakEven"`
	PnL       decimal.Decimal `json:"pnl"`
	WinRate   float64         `json:"winRate"` // percent of wins+losses
}

// Breakdown aggregates every trade by key and returns all categories sorted
// by P&L descending, ties broken by label. Use Top to truncate for display.
func Breakdown(trades []journal.TradeRecord, key KeyFunc) []Category {
	byLabel := map[string]*Category{}
	for _, t := range trades {
		label := key(t)
		c, ok := byLabel[label]
		if !ok {
			c = &Category{Label: label}
			byLabel[label] = c
		}
		c.Trades++
		c.PnL = c.PnL.Add(t.PnLOrZero())
		if !t.HasPnL() {
			continue
		}
		switch t.PnL.Decimal.Sign() {
		case 1:
			c.Wins++
		case -1:
			c.Losses++
		default:
			c.BreakEven++
		}
	}

	out := make([]Category, 0, len(byLabel))
	for _, c := range byLabel {
		if decisive := c.Wins + c.Losses; decisive > 0 {
			c.WinRate = float64(c.Wins) / float64(decisive) * 100
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].PnL.Cmp(out[j].PnL); cmp != 0 {
			return cmp > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Top returns at most n categories; n <= 0 keeps them all.
func Top(categories []Category, n int) []Category {
	if n <= 0 || n >= len(categories) {
		return categories
	}
	return categories[:n]
}

func orLabel(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
