package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Manage strategy labels in the local journal",
	Long: `Strategies are named labels that trades are grouped by in breakdowns.
Recording a trade with --strategy creates its label on first use.

Examples:
  tradejournal strategy add "Opening Range Breakout"
  tradejournal strategy list`,
}

var strategyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a strategy label if it does not exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runStrategyAdd,
}

var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List strategy labels",
	Args:  cobra.NoArgs,
	RunE:  runStrategyList,
}

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyAddCmd, strategyListCmd)
}

func runStrategyAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("strategy name required")
	}
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := j.EnsureStrategy(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("add strategy: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.ID)
	return nil
}

func runStrategyList(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	strategies, err := j.ListStrategies(cmd.Context())
	if err != nil {
		return fmt.Errorf("list strategies: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(strategies) == 0 {
		fmt.Fprintln(out, "(no strategies)")
		return nil
	}
	for _, s := range strategies {
		fmt.Fprintf(out, "%-26s  %s\n", s.ID, s.Name)
	}
	return nil
}
