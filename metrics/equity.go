package metrics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

var ErrUnordered = errors.New("trades not ordered by open time")

const LabelLayout = "2006-01-02 15:04"

type EquityPoint struct {
	TradeID    string          `json:"tradeId"`
	Time       time.Time       `json:"time"`
	Label      string          `json:"label"`
	PnL        decimal.Decimal `json:"pnl"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// EquityCurve accumulates P&L in input order, starting from zero; a null
// P&L adds nothing. Input is expected sorted by open time ascending and is
// not re-sorted here (see CheckOrder and SortByOpen).
func EquityCurve(trades []journal.TradeRecord) []EquityPoint {
	curve := make([]EquityPoint, 0, len(trades))
	running := decimal.Zero
	for _, t := range trades {
		pnl := t.PnLOrZero()
		running = running.Add(pnl)

		label := "n/a"
		if !t.OpenedAt.IsZero() {
			label = t.OpenedAt.Format(LabelLayout)
		}
		curve = append(curve, EquityPoint{
			TradeID:    t.ID,
			Time:       t.OpenedAt,
			Label:      label,
			PnL:        pnl,
			Cumulative: running,
		})
	}
	return curve
}

// CheckOrder reports the first trade opened before its predecessor.
// Trades with a missing open time are skipped.
func CheckOrder(trades []journal.TradeRecord) error {
	var (
		prev    time.Time
		prevIdx = -1
	)
	for i, t := range trades {
		if t.OpenedAt.IsZero() {
			continue
		}
		if prevIdx >= 0 && t.OpenedAt.Before(prev) {
			return fmt.Errorf("%w: trade %q at index %d opened before index %d", ErrUnordered, t.ID, i, prevIdx)
		}
		prev, prevIdx = t.OpenedAt, i
	}
	return nil
}

// SortByOpen returns a copy of trades stably sorted by open time ascending.
func SortByOpen(trades []journal.TradeRecord) []journal.TradeRecord {
	out := append([]journal.TradeRecord(nil), trades...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// MaxDrawdown is the largest fall of the cumulative curve from a prior peak,
// counting the zero starting balance as the first peak. Returned as a
// non-negative magnitude.
func MaxDrawdown(curve []EquityPoint) decimal.Decimal {
	peak, worst := decimal.Zero, decimal.Zero
	for _, p := range curve {
		if p.Cumulative.GreaterThan(peak) {
			peak = p.Cumulative
		}
		if dd := peak.Sub(p.Cumulative); dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}
