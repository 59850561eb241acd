package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dreamvillians/tradeville-journal/journal"
	"github.com/Dreamvillians/tradeville-journal/metrics"
	"github.com/Dreamvillians/tradeville-journal/report"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Record and inspect trades in the local journal",
	Long: `Manage trade records in the SQLite journal.

Subcommands:
  add     - Record a new trade (open or already closed)
  close   - Record the exit of an open trade
  show    - Print one trade as an Org entry
  delete  - Remove a trade and its images
  list    - List trades from the configured source
  image   - Attach chart screenshots to a trade

Examples:
  tradejournal trade add --symbol ES --direction long --entry 5012.25
  tradejournal trade close 01HX... --exit 5020 --pnl 400
  tradejournal trade list --period week`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeCloseCmd = &cobra.Command{
	Use:   "close <trade-id>",
	Short: "Record the exit of an open trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeClose,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Print a trade as an Org entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade and its images",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades opened in a period",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage trade screenshots",
}

var tradeImageAddCmd = &cobra.Command{
	Use:   "add <trade-id>",
	Short: "Attach an image URL to a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeImageAdd,
}

type tradeFlags struct {
	symbol, direction      string
	entry, exit            string
	opened, closed         string
	pnl, pnlPct, pnlR      string
	strategy, setup, notes string
}

var (
	addFlags   tradeFlags
	closeFlags tradeFlags

	listPeriod string
	listOrg    bool

	imageURL, imageCategory, imageDescription string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd, tradeCloseCmd, tradeShowCmd, tradeDeleteCmd, tradeListCmd, tradeImageCmd)
	tradeImageCmd.AddCommand(tradeImageAddCmd)

	f := tradeAddCmd.Flags()
	f.StringVarP(&addFlags.symbol, "symbol", "s", "", "instrument symbol (required)")
	f.StringVar(&addFlags.direction, "direction", "", "LONG or SHORT (required)")
	f.StringVar(&addFlags.entry, "entry", "", "entry price (required)")
	f.StringVar(&addFlags.exit, "exit", "", "exit price, for an already closed trade")
	f.StringVar(&addFlags.opened, "opened", "now", "open time, YYYY-MM-DD HH:MM in the report timezone or RFC3339")
	f.StringVar(&addFlags.closed, "closed", "", "close time; implies a closed trade")
	f.StringVar(&addFlags.pnl, "pnl", "", "realised profit or loss in account currency")
	f.StringVar(&addFlags.pnlPct, "pnl-pct", "", "profit or loss in percent")
	f.StringVar(&addFlags.pnlR, "pnl-r", "", "profit or loss in R multiples")
	f.StringVar(&addFlags.strategy, "strategy", "", "strategy name")
	f.StringVar(&addFlags.setup, "setup", "", "setup type")
	f.StringVar(&addFlags.notes, "notes", "", "free-form notes")
	tradeAddCmd.MarkFlagRequired("symbol")
	tradeAddCmd.MarkFlagRequired("direction")
	tradeAddCmd.MarkFlagRequired("entry")

	f = tradeCloseCmd.Flags()
	f.StringVar(&closeFlags.exit, "exit", "", "exit price (required)")
	f.StringVar(&closeFlags.pnl, "pnl", "", "realised profit or loss (required)")
	f.StringVar(&closeFlags.closed, "closed", "now", "close time")
	f.StringVar(&closeFlags.pnlPct, "pnl-pct", "", "profit or loss in percent")
	f.StringVar(&closeFlags.pnlR, "pnl-r", "", "profit or loss in R multiples")
	tradeCloseCmd.MarkFlagRequired("exit")
	tradeCloseCmd.MarkFlagRequired("pnl")

	tradeListCmd.Flags().StringVarP(&listPeriod, "period", "p", "", "all, week, month, quarter or year")
	tradeListCmd.Flags().BoolVar(&listOrg, "org", false, "print Org entries instead of a table")

	f = tradeImageAddCmd.Flags()
	f.StringVar(&imageURL, "url", "", "image URL (required)")
	f.StringVar(&imageCategory, "category", "", "e.g. entry, exit, higher-timeframe")
	f.StringVar(&imageDescription, "description", "", "caption")
	tradeImageAddCmd.MarkFlagRequired("url")
}

// record builds a trade from add flags.
func (f tradeFlags) record(loc *time.Location, now time.Time) (journal.TradeRecord, error) {
	dir, err := journal.ParseDirection(f.direction)
	if err != nil {
		return journal.TradeRecord{}, fmt.Errorf("--direction: %w", err)
	}
	entry, err := parseDecimal("entry", f.entry)
	if err != nil {
		return journal.TradeRecord{}, err
	}
	opened, err := parseWhen(f.opened, loc, now)
	if err != nil {
		return journal.TradeRecord{}, fmt.Errorf("--opened: %w", err)
	}

	t := journal.TradeRecord{
		Symbol:       f.symbol,
		Direction:    dir,
		EntryPrice:   entry,
		OpenedAt:     opened,
		StrategyName: f.strategy,
		SetupType:    f.setup,
		Notes:        f.notes,
	}
	if t.ExitPrice, err = parseOptionalDecimal("exit", f.exit); err != nil {
		return journal.TradeRecord{}, err
	}
	if t.PnL, err = parseOptionalDecimal("pnl", f.pnl); err != nil {
		return journal.TradeRecord{}, err
	}
	if t.PnLPercent, err = parseOptionalDecimal("pnl-pct", f.pnlPct); err != nil {
		return journal.TradeRecord{}, err
	}
	if t.PnLR, err = parseOptionalDecimal("pnl-r", f.pnlR); err != nil {
		return journal.TradeRecord{}, err
	}

	if f.closed != "" {
		closed, err := parseWhen(f.closed, loc, now)
		if err != nil {
			return journal.TradeRecord{}, fmt.Errorf("--closed: %w", err)
		}
		if closed.Before(opened) {
			return journal.TradeRecord{}, fmt.Errorf("--closed %s is before --opened %s", closed, opened)
		}
		t.ClosedAt = &closed
	}
	return t, nil
}

// closeParams builds the exit of an open trade from close flags.
func (f tradeFlags) closeParams(loc *time.Location, now time.Time) (journal.CloseParams, error) {
	var (
		p   journal.CloseParams
		err error
	)
	if p.ExitPrice, err = parseDecimal("exit", f.exit); err != nil {
		return p, err
	}
	if p.PnL, err = parseDecimal("pnl", f.pnl); err != nil {
		return p, err
	}
	if p.PnLPercent, err = parseOptionalDecimal("pnl-pct", f.pnlPct); err != nil {
		return p, err
	}
	if p.PnLR, err = parseOptionalDecimal("pnl-r", f.pnlR); err != nil {
		return p, err
	}
	if p.ClosedAt, err = parseWhen(f.closed, loc, now); err != nil {
		return p, fmt.Errorf("--closed: %w", err)
	}
	return p, nil
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Report.Location()
	if err != nil {
		return err
	}
	rec, err := addFlags.record(loc, time.Now())
	if err != nil {
		return err
	}

	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err = j.RecordTrade(cmd.Context(), rec)
	if err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
	return nil
}

func runTradeClose(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Report.Location()
	if err != nil {
		return err
	}
	p, err := closeFlags.closeParams(loc, time.Now())
	if err != nil {
		return err
	}

	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.CloseTrade(cmd.Context(), args[0], p); err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Closed %s: %s\n", args[0], metrics.FormatMoney(p.PnL))
	return nil
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.DeleteTrade(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	period, err := resolvePeriod(listPeriod)
	if err != nil {
		return err
	}
	src, release, err := openSource()
	if err != nil {
		return err
	}
	defer release()

	trades, err := periodTrades(cmd.Context(), src, period, time.Now())
	if err != nil {
		return err
	}

	if listOrg {
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades))
		return nil
	}
	report.PrintTrades(cmd.OutOrStdout(), trades)
	return nil
}

func runTradeImageAdd(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	img, err := j.AddImage(cmd.Context(), args[0], journal.TradeImage{
		URL:         imageURL,
		Category:    imageCategory,
		Description: imageDescription,
	})
	if err != nil {
		return fmt.Errorf("add image: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), img.ID)
	return nil
}
