package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dreamvillians/tradeville-journal/config"
	"github.com/Dreamvillians/tradeville-journal/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A personal trading journal with performance statistics",
	Long: `Tradejournal records trades and turns them into the numbers a trading
dashboard shows.

It provides tools for:
  - Recording, closing and annotating trades in a local SQLite journal
  - Importing trades from CSV or the hosted journal backend
  - Win rate, profit factor, expectancy and daily P&L per period
  - Equity curves and breakdowns by strategy, symbol and weekday
  - Org-mode reports

Settings are layered in increasing priority: built-in defaults, the
--config file (YAML or JSON), a .env file, TJ_* variables already set in
the environment, and finally the --db and --source flags. A .env file never
overrides a variable that is already set.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var (
	cfgFile    string
	dbPath     string
	sourceName string
	envFile    string

	cfg *config.Config
	log = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVar(&sourceName, "source", "", "trade source for statistics: sqlite or backend")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
}

// noSetup marks commands that must run without a valid configuration.
const noSetup = "no-setup"

func setup(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[noSetup]; ok {
		return nil
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c, err := config.Read(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Journal.DBPath = dbPath
	}
	if sourceName != "" {
		c.Journal.Source = sourceName
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	l, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	log = l
	log.Debug("configuration loaded",
		zap.String("source", cfg.Journal.Source),
		zap.String("db", cfg.Journal.DBPath),
	)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	// stderr cannot be synced on some platforms
	_ = log.Sync()
	return nil
}
