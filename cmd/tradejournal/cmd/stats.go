package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dreamvillians/tradeville-journal/dashboard"
	"github.com/Dreamvillians/tradeville-journal/metrics"
	"github.com/Dreamvillians/tradeville-journal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics for a period",
	Long: `Compute win rate, profit factor, expectancy, daily P&L and average trade
time for the trades opened in a period.

Examples:
  tradejournal stats
  tradejournal stats --period month
  tradejournal stats --period week --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var equityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Show the cumulative P&L curve",
	Args:  cobra.NoArgs,
	RunE:  runEquity,
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Group P&L by strategy, symbol, setup, direction or weekday",
	Args:  cobra.NoArgs,
	RunE:  runBreakdown,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an Org report for a period",
	Long: `Render the full dashboard for a period as an Org document.

Example:
  tradejournal report --period month --out 2024-05.org --trades`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	statsPeriod string
	statsJSON   bool

	equityCSV bool

	breakdownBy  string
	breakdownTop int

	reportOut    string
	reportTrades bool
)

func init() {
	rootCmd.AddCommand(statsCmd, equityCmd, breakdownCmd, reportCmd)

	for _, c := range []*cobra.Command{statsCmd, equityCmd, breakdownCmd, reportCmd} {
		c.Flags().StringVarP(&statsPeriod, "period", "p", "", "all, week, month, quarter or year (default from config)")
	}
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print metrics as JSON")
	equityCmd.Flags().BoolVar(&equityCSV, "csv", false, "print the curve as CSV")
	breakdownCmd.Flags().StringVar(&breakdownBy, "by", "strategy", "strategy, symbol, setup, direction or weekday")
	breakdownCmd.Flags().IntVar(&breakdownTop, "top", -1, "show at most N categories (default from config, 0 for all)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output .org file (default stdout)")
	reportCmd.Flags().BoolVar(&reportTrades, "trades", false, "append every trade in the period")
}

// buildReport runs the dashboard for the period flag. A failed fetch still
// yields the zero report; the error is returned so the command exits non-zero.
func buildReport(cmd *cobra.Command, topN int) (dashboard.Report, error) {
	period, err := resolvePeriod(statsPeriod)
	if err != nil {
		return dashboard.Report{}, err
	}
	src, release, err := openSource()
	if err != nil {
		return dashboard.Report{}, err
	}
	defer release()

	svc, err := newService(src, topN)
	if err != nil {
		return dashboard.Report{}, err
	}
	return svc.Build(cmd.Context(), period)
}

// fetchFailed prints the fetch warning and reports whether err was a fetch failure.
func fetchFailed(cmd *cobra.Command, err error) bool {
	if !errors.Is(err, dashboard.ErrFetch) {
		return false
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; showing empty statistics\n", err)
	return true
}

func runStats(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd, -1)
	if err != nil && !fetchFailed(cmd, err) {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(r.Metrics); encErr != nil {
			return fmt.Errorf("encode metrics: %w", encErr)
		}
		return err
	}
	report.PrintSummary(cmd.OutOrStdout(), r)
	return err
}

func runEquity(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd, -1)
	if err != nil && !fetchFailed(cmd, err) {
		return err
	}

	out := cmd.OutOrStdout()
	if equityCSV {
		if csvErr := report.WriteEquityCSV(out, r.Equity); csvErr != nil {
			return csvErr
		}
		return err
	}
	if len(r.Equity) == 0 {
		fmt.Fprintln(out, "(no trades)")
		return err
	}
	fmt.Fprintf(out, "%-16s %-26s %12s %12s\n", "Opened", "Trade", "P&L", "Cumulative")
	for _, p := range r.Equity {
		fmt.Fprintf(out, "%-16s %-26s %12s %12s\n", p.Label, p.TradeID, metrics.FormatMoney(p.PnL), p.Cumulative.StringFixed(2))
	}
	fmt.Fprintf(out, "\nMax Drawdown: %s\n", r.MaxDrawdown.StringFixed(2))
	return err
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	cal, err := calendar()
	if err != nil {
		return err
	}
	key, err := metrics.KeyByName(breakdownBy, cal.Location)
	if err != nil {
		return err
	}
	top := breakdownTop
	if top < 0 {
		top = cfg.Report.TopN
	}

	r, err := buildReport(cmd, top)
	if err != nil && !fetchFailed(cmd, err) {
		return err
	}
	cats := metrics.Top(metrics.Breakdown(r.Trades, key), top)
	report.PrintBreakdown(cmd.OutOrStdout(), "By "+breakdownBy, cats)
	return err
}

func runReport(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd, -1)
	if err != nil && !fetchFailed(cmd, err) {
		return err
	}

	out, closeOut, outErr := createOutput(reportOut, cmd.OutOrStdout())
	if outErr != nil {
		return outErr
	}
	if werr := report.WriteOrg(out, r, reportTrades); werr != nil {
		closeOut()
		return werr
	}
	if cerr := closeOut(); cerr != nil {
		return cerr
	}
	if reportOut != "" && reportOut != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s report to %s\n", r.Period, reportOut)
	}
	return err
}
