package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

// Metrics summarises one list of trades.
//
// Break-even means a realised P&L of exactly zero. Trades with no P&L yet
// are counted separately in UnrealizedTrades; neither kind enters the win
// rate denominator. Currency fields are exact decimals.
type Metrics struct {
	TotalTrades      int `json:"totalTrades"`
	ProfitableTrades int `json:"profitableTrades"`
	LosingTrades     int `json:"losingTrades"`
	BreakEvenTrades  int `json:"breakEvenTrades"`
	UnrealizedTrades int `json:"unrealizedTrades"`
	DecisiveTrades   int `json:"decisiveTrades"`
	OpenTrades       int `json:"openTrades"`
	ClosedTrades     int `json:"closedTrades"`

	WinRate      float64 `json:"winRate"` // percent, 0..100
	ProfitFactor Ratio   `json:"profitFactor"`

	GrossProfit   decimal.Decimal `json:"grossProfit"`
	GrossLoss     decimal.Decimal `json:"grossLoss"` // magnitude
	NetPnL        decimal.Decimal `json:"netPnL"`
	AvgWin        decimal.Decimal `json:"avgWin"`
	AvgLoss       decimal.Decimal `json:"avgLoss"` // magnitude
	LargestWin    decimal.Decimal `json:"largestWin"`
	LargestLoss   decimal.Decimal `json:"largestLoss"` // magnitude
	ExpectedValue decimal.Decimal `json:"expectedValue"`
	NetDailyPnL   decimal.Decimal `json:"netDailyPnL"`

	TradingDays  int     `json:"tradingDays"`
	AvgTradeTime float64 `json:"avgTradeTime"` // minutes
	AvgR         float64 `json:"avgR"`
}

// Aggregate computes Metrics with calendar days taken in UTC.
func Aggregate(trades []journal.TradeRecord) Metrics {
	return Calendar{}.Aggregate(trades)
}

// Aggregate computes Metrics, counting trading days in the calendar's zone.
// It is total: empty or all-null input yields the zero Metrics.
func (c Calendar) Aggregate(trades []journal.TradeRecord) Metrics {
	m := Metrics{TotalTrades: len(trades)}

	days := map[[3]int]struct{}{}
	var (
		durationMinutes float64
		timed           int
		rSum            float64
		rCount          int
	)

	for _, t := range trades {
		if t.IsClosed() {
			m.ClosedTrades++
		} else {
			m.OpenTrades++
		}

		pnl := t.PnLOrZero()
		switch {
		case !t.HasPnL():
			m.UnrealizedTrades++
		case pnl.IsPositive():
			m.ProfitableTrades++
			m.GrossProfit = m.GrossProfit.Add(pnl)
			if pnl.GreaterThan(m.LargestWin) {
				m.LargestWin = pnl
			}
		case pnl.IsNegative():
			m.LosingTrades++
			m.GrossLoss = m.GrossLoss.Add(pnl.Neg())
			if pnl.Neg().GreaterThan(m.LargestLoss) {
				m.LargestLoss = pnl.Neg()
			}
		default:
			m.BreakEvenTrades++
		}
		m.NetPnL = m.NetPnL.Add(pnl)

		if !t.OpenedAt.IsZero() {
			y, mo, d := t.OpenedAt.In(c.loc()).Date()
			days[[3]int{y, int(mo), d}] = struct{}{}
		}
		if d, ok := t.Duration(); ok {
			durationMinutes += d.Minutes()
			timed++
		}
		if t.PnLR.Valid {
			rSum += t.PnLR.Decimal.InexactFloat64()
			rCount++
		}
	}

	m.DecisiveTrades = m.ProfitableTrades + m.LosingTrades
	if m.DecisiveTrades > 0 {
		m.WinRate = float64(m.ProfitableTrades) / float64(m.DecisiveTrades) * 100
	}
	m.ProfitFactor = profitFactor(m.GrossProfit, m.GrossLoss)

	if m.ProfitableTrades > 0 {
		m.AvgWin = m.GrossProfit.Div(decimal.NewFromInt(int64(m.ProfitableTrades)))
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = m.GrossLoss.Div(decimal.NewFromInt(int64(m.LosingTrades)))
	}
	if m.TotalTrades > 0 {
		m.ExpectedValue = m.NetPnL.Div(decimal.NewFromInt(int64(m.TotalTrades)))
	}

	m.TradingDays = len(days)
	if m.TradingDays > 0 {
		m.NetDailyPnL = m.NetPnL.Div(decimal.NewFromInt(int64(m.TradingDays)))
	}
	if timed > 0 {
		m.AvgTradeTime = durationMinutes / float64(timed)
	}
	if rCount > 0 {
		m.AvgR = rSum / float64(rCount)
	}
	return m
}

// profitFactor is gross profit over gross loss magnitude, +Inf when there
// are profits and no losses, and 0 when both are zero.
func profitFactor(grossProfit, grossLoss decimal.Decimal) Ratio {
	if grossLoss.IsPositive() {
		return Ratio(grossProfit.Div(grossLoss).InexactFloat64())
	}
	if grossProfit.IsPositive() {
		return Ratio(math.Inf(1))
	}
	return 0
}
