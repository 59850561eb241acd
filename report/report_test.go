package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreamvillians/tradeville-journal/dashboard"
	"github.com/Dreamvillians/tradeville-journal/journal"
	"github.com/Dreamvillians/tradeville-journal/metrics"
)

var now = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func tr(id string, open time.Time, pnl string) journal.TradeRecord {
	closed := open.Add(45 * time.Minute)
	return journal.TradeRecord{
		ID:           id,
		Symbol:       "ES",
		Direction:    journal.Long,
		EntryPrice:   decimal.NewFromInt(5000),
		OpenedAt:     open,
		ClosedAt:     &closed,
		PnL:          decimal.NewNullDecimal(decimal.RequireFromString(pnl)),
		StrategyName: "Breakout",
	}
}

func build(t *testing.T, trades []journal.TradeRecord, p metrics.Period) dashboard.Report {
	t.Helper()
	s := &dashboard.Service{Now: func() time.Time { return now }}
	return s.Compose(trades, p)
}

func sample() []journal.TradeRecord {
	return []journal.TradeRecord{
		tr("01HXA", time.Date(2024, 5, 13, 14, 0, 0, 0, time.UTC), "100"),
		tr("01HXB", time.Date(2024, 5, 13, 15, 0, 0, 0, time.UTC), "-50"),
		tr("01HXC", time.Date(2024, 5, 14, 14, 0, 0, 0, time.UTC), "25"),
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintSummary(&buf, build(t, sample(), metrics.Week))
	out := buf.String()

	assert.Contains(t, out, "Trading Summary (week 2024-05-12 to 2024-05-18)")
	assert.Contains(t, out, "Total:         3\n")
	assert.Contains(t, out, "Win Rate:      66.67%\n")
	assert.Contains(t, out, "Net P&L:       +75.00\n")
	assert.Contains(t, out, "Profit Factor: 2.50\n")
	assert.Contains(t, out, "Max Drawdown:  50.00\n")
	assert.Contains(t, out, "Trading Days:  2\n")
	assert.Contains(t, out, "Avg Duration:  45m\n")
	assert.NotContains(t, out, "No P&L yet")
}

func TestPrintSummaryInfiniteProfitFactor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintSummary(&buf, build(t, sample()[:1], metrics.All))
	assert.Contains(t, buf.String(), "Profit Factor: ∞\n")
	assert.Contains(t, buf.String(), "(all time)")
}

func TestPrintSummaryEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintSummary(&buf, build(t, nil, metrics.All))
	out := buf.String()
	assert.Contains(t, out, "Total:         0\n")
	assert.Contains(t, out, "Win Rate:      0.00%\n")
	assert.Contains(t, out, "Net P&L:       0.00\n")
	assert.Contains(t, out, "Profit Factor: 0.00\n")
}

func TestPrintBreakdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cats := metrics.Breakdown(sample(), metrics.ByWeekday(time.UTC))
	PrintBreakdown(&buf, "By Weekday", cats)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "By Weekday", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "Monday "))
	assert.True(t, strings.HasSuffix(lines[3], "+50.00"))
	assert.True(t, strings.HasPrefix(lines[4], "Tuesday "))

	buf.Reset()
	PrintBreakdown(&buf, "By Symbol", nil)
	assert.Contains(t, buf.String(), "(no trades)")
}

func TestPrintTrades(t *testing.T) {
	t.Parallel()

	open := sample()
	open[1].ClosedAt = nil
	open[1].PnL = decimal.NullDecimal{}

	var buf bytes.Buffer
	PrintTrades(&buf, open)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "2024-05-13 14:00")
	assert.Contains(t, lines[1], "+100.00")
	assert.Contains(t, lines[2], "open")
	assert.Contains(t, lines[2], " - ")

	buf.Reset()
	PrintTrades(&buf, nil)
	assert.Equal(t, "(no trades)\n", buf.String())
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd~", truncate("abcdefgh", 5))
	assert.Equal(t, "ünïc~", truncate("ünïcødé", 5))
}

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteOrg(&buf, build(t, sample(), metrics.Week), true))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "* TRADING REPORT: week 2024-05-12 to 2024-05-18\n:PROPERTIES:\n"))
	assert.Contains(t, out, ":GENERATED:   [2024-05-15 Wed 12:00]\n")
	assert.Contains(t, out, ":NET_PL:      +75.00\n")
	assert.Contains(t, out, ":PROFIT_FAC:  2.50\n")
	assert.Contains(t, out, ":MAX_DD:      50.00\n")
	assert.Contains(t, out, "| Wins       | 2 |\n")
	assert.Contains(t, out, "** By Strategy\n| Label | Trades | Win % | P&L |\n")
	assert.Contains(t, out, "| Breakout | 3 | 66.67% | +75.00 |\n")
	assert.Contains(t, out, "| 2024-05-14 14:00 | 01HXC | +25.00 | 75.00 |")
	assert.Contains(t, out, "* TRADES\n** CLOSED LONG ES")
}

func TestWriteOrgWithoutTrades(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteOrg(&buf, build(t, sample()[:1], metrics.All), false))
	out := buf.String()
	assert.Contains(t, out, ":PROFIT_FAC:  ∞\n")
	assert.NotContains(t, out, "* TRADES")
}

func TestWriteEquityCSV(t *testing.T) {
	t.Parallel()

	in := sample()
	in[2].OpenedAt = time.Time{}

	var buf bytes.Buffer
	require.NoError(t, WriteEquityCSV(&buf, metrics.EquityCurve(in)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"trade_id", "opened_at", "pnl", "cumulative"}, records[0])
	assert.Equal(t, []string{"01HXA", "2024-05-13T14:00:00Z", "100", "100"}, records[1])
	assert.Equal(t, []string{"01HXB", "2024-05-13T15:00:00Z", "-50", "50"}, records[2])
	assert.Equal(t, []string{"01HXC", "", "25", "75"}, records[3])
}
