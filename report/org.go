package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/Dreamvillians/tradeville-journal/dashboard"
	"github.com/Dreamvillians/tradeville-journal/journal"
	"github.com/Dreamvillians/tradeville-journal/metrics"
)

var orgFuncs = template.FuncMap{
	"money":   metrics.FormatMoney,
	"percent": metrics.FormatPercent,
	"minutes": metrics.FormatMinutes,
	"title":   periodTitle,
	"trades":  journal.FormatTradesOrg,
	"stamp":   func(t time.Time) string { return t.Format("2006-01-02 Mon 15:04") },
}

var orgTemplate = template.Must(template.New("report").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders the report as an Org document, with each trade in the
// period as a subheading when withTrades is set.
func WriteOrg(w io.Writer, r dashboard.Report, withTrades bool) error {
	data := struct {
		dashboard.Report
		WithTrades bool
	}{r, withTrades}
	if err := orgTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

const OrgTemplate = `* TRADING REPORT: {{title .Report}}
:PROPERTIES:
:PERIOD:      {{.Period}}
:GENERATED:   [{{stamp .GeneratedAt}}]
:TRADES:      {{.Metrics.TotalTrades}}
:NET_PL:      {{money .Metrics.NetPnL}}
:WIN_RATE:    {{percent .Metrics.WinRate}}
:PROFIT_FAC:  {{.Metrics.ProfitFactor}}
:MAX_DD:      {{.MaxDrawdown.StringFixed 2}}
:END:

** Performance Summary
- Net P&L:          *{{money .Metrics.NetPnL}}*
- Win Rate:         *{{percent .Metrics.WinRate}}*
- Profit Factor:    *{{.Metrics.ProfitFactor}}*
- Expectancy:       *{{money .Metrics.ExpectedValue}}*
- Avg Win / Loss:   *{{.Metrics.AvgWin.StringFixed 2}}* / *{{.Metrics.AvgLoss.StringFixed 2}}*
- Net Daily P&L:    *{{money .Metrics.NetDailyPnL}}* over {{.Metrics.TradingDays}} days
- Avg Trade Time:   *{{minutes .Metrics.AvgTradeTime}}*

** Trade Distribution
| Outcome    | Count |
|------------+-------|
| Wins       | {{.Metrics.ProfitableTrades}} |
| Losses     | {{.Metrics.LosingTrades}} |
| Break-even | {{.Metrics.BreakEvenTrades}} |
| Total      | {{.Metrics.TotalTrades}} |
{{- define "breakdown" }}
| Label | Trades | Win % | P&L |
|-------+--------+-------+-----|
{{- range . }}
| {{.Label}} | {{.Trades}} | {{percent .WinRate}} | {{money .PnL}} |
{{- end }}
{{- end }}

** By Strategy
{{- template "breakdown" .ByStrategy }}

** By Symbol
{{- template "breakdown" .BySymbol }}

** By Weekday
{{- template "breakdown" .ByWeekday }}

** Equity Curve
| Opened | Trade | P&L | Cumulative |
|--------+-------+-----+------------|
{{- range .Equity }}
| {{.Label}} | {{.TradeID}} | {{money .PnL}} | {{.Cumulative.StringFixed 2}} |
{{- end }}
{{- if and .WithTrades .Trades }}

* TRADES
{{ trades .Trades }}
{{- end }}
`
