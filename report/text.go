// Package report renders a dashboard for the terminal, Org files and CSV.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dreamvillians/tradeville-journal/dashboard"
	"github.com/Dreamvillians/tradeville-journal/journal"
	"github.com/Dreamvillians/tradeville-journal/metrics"
)

const rule = "--------------------------------------------------"

func PrintSummary(w io.Writer, r dashboard.Report) {
	m := r.Metrics

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Trading Summary (%s)\n", periodTitle(r))
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trades")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total:         %d\n", m.TotalTrades)
	fmt.Fprintf(w, "Winners:       %d\n", m.ProfitableTrades)
	fmt.Fprintf(w, "Losers:        %d\n", m.LosingTrades)
	fmt.Fprintf(w, "Break-even:    %d\n", m.BreakEvenTrades)
	if m.UnrealizedTrades > 0 {
		fmt.Fprintf(w, "No P&L yet:    %d\n", m.UnrealizedTrades)
	}
	fmt.Fprintf(w, "Open:          %d\n", m.OpenTrades)
	fmt.Fprintf(w, "Win Rate:      %s\n", metrics.FormatPercent(m.WinRate))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Net P&L:       %s\n", metrics.FormatMoney(m.NetPnL))
	fmt.Fprintf(w, "Profit Factor: %s\n", m.ProfitFactor)
	fmt.Fprintf(w, "Expectancy:    %s\n", metrics.FormatMoney(m.ExpectedValue))
	fmt.Fprintf(w, "Avg Win:       %s\n", m.AvgWin.StringFixed(2))
	fmt.Fprintf(w, "Avg Loss:      %s\n", m.AvgLoss.StringFixed(2))
	fmt.Fprintf(w, "Largest Win:   %s\n", m.LargestWin.StringFixed(2))
	fmt.Fprintf(w, "Largest Loss:  %s\n", m.LargestLoss.StringFixed(2))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", r.MaxDrawdown.StringFixed(2))
	if m.AvgR != 0 {
		fmt.Fprintf(w, "Avg R:         %.2f\n", m.AvgR)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Activity")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Trading Days:  %d\n", m.TradingDays)
	fmt.Fprintf(w, "Net Daily P&L: %s\n", metrics.FormatMoney(m.NetDailyPnL))
	fmt.Fprintf(w, "Avg Duration:  %s\n", metrics.FormatMinutes(m.AvgTradeTime))
}

func PrintBreakdown(w io.Writer, title string, cats []metrics.Category) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	if len(cats) == 0 {
		fmt.Fprintln(w, "(no trades)")
		return
	}
	fmt.Fprintf(w, "%-20s %6s %8s %12s\n", "Label", "Trades", "Win %", "P&L")
	for _, c := range cats {
		fmt.Fprintf(w, "%-20s %6d %8s %12s\n",
			truncate(c.Label, 20), c.Trades, metrics.FormatPercent(c.WinRate), metrics.FormatMoney(c.PnL))
	}
}

func PrintTrades(w io.Writer, trades []journal.TradeRecord) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "(no trades)")
		return
	}
	fmt.Fprintf(w, "%-26s %-10s %-5s %-16s %-16s %12s %-14s\n",
		"ID", "Symbol", "Dir", "Opened", "Closed", "P&L", "Strategy")
	for _, t := range trades {
		closed, pnl := "open", "-"
		if t.ClosedAt != nil {
			closed = shortTime(*t.ClosedAt)
		}
		if t.HasPnL() {
			pnl = metrics.FormatMoney(t.PnL.Decimal)
		}
		fmt.Fprintf(w, "%-26s %-10s %-5s %-16s %-16s %12s %-14s\n",
			t.ID, truncate(t.Symbol, 10), t.Direction, shortTime(t.OpenedAt), closed, pnl,
			truncate(t.StrategyName, 14))
	}
}

func periodTitle(r dashboard.Report) string {
	if r.Window == nil {
		return "all time"
	}
	return fmt.Sprintf("%s %s to %s", r.Period,
		r.Window.Start.Format("2006-01-02"), r.Window.End.Format("2006-01-02"))
}

func shortTime(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format(metrics.LabelLayout)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "~"
}
