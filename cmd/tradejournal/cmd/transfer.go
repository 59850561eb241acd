package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy trades into the local journal",
	Long: `Import trades into the SQLite journal. Trades whose ID is already
present are skipped, so imports can be repeated.

Examples:
  tradejournal import csv trades.csv
  tradejournal import backend`,
}

var importCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import trades from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportCSV,
}

var importBackendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Import every trade from the hosted journal backend",
	Args:  cobra.NoArgs,
	RunE:  runImportBackend,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write trades from the configured source as CSV or Org",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export trades as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(w io.Writer, trades []journal.TradeRecord) error {
			return journal.WriteCSV(w, trades)
		})
	},
}

var exportOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Export trades as Org entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(w io.Writer, trades []journal.TradeRecord) error {
			_, err := fmt.Fprintln(w, journal.FormatTradesOrg(trades))
			return err
		})
	},
}

var (
	exportOut    string
	exportPeriod string
)

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
	importCmd.AddCommand(importCSVCmd, importBackendCmd)
	exportCmd.AddCommand(exportCSVCmd, exportOrgCmd)

	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.PersistentFlags().StringVarP(&exportPeriod, "period", "p", "all", "all, week, month, quarter or year")
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	trades, err := journal.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	return importTrades(cmd, args[0], trades)
}

func runImportBackend(cmd *cobra.Command, args []string) error {
	c, err := newBackendClient()
	if err != nil {
		return err
	}
	trades, err := c.ListTrades(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch backend trades: %w", err)
	}
	return importTrades(cmd, cfg.Backend.URL, trades)
}

func importTrades(cmd *cobra.Command, from string, trades []journal.TradeRecord) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	res, err := j.ImportTrades(cmd.Context(), trades)
	if err != nil {
		return err
	}
	log.Info("import finished",
		zap.String("from", from),
		zap.Int("added", res.Added),
		zap.Int("skipped", res.Skipped),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades from %s (%d already present)\n", res.Added, from, res.Skipped)
	return nil
}

func runExport(cmd *cobra.Command, write func(io.Writer, []journal.TradeRecord) error) error {
	period, err := resolvePeriod(exportPeriod)
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

	out, closeOut, err := createOutput(exportOut, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := write(out, trades); err != nil {
		closeOut()
		return fmt.Errorf("export: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}
	if exportOut != "" && exportOut != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d trades to %s\n", len(trades), exportOut)
	}
	return nil
}
