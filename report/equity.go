package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Dreamvillians/tradeville-journal/metrics"
)

// WriteEquityCSV writes one row per curve point. Missing times are left empty.
func WriteEquityCSV(w io.Writer, curve []metrics.EquityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trade_id", "opened_at", "pnl", "cumulative"}); err != nil {
		return err
	}
	for _, p := range curve {
		opened := ""
		if !p.Time.IsZero() {
			opened = p.Time.UTC().Format(time.RFC3339)
		}
		if err := cw.Write([]string{p.TradeID, opened, p.PnL.String(), p.Cumulative.String()}); err != nil {
			return fmt.Errorf("write equity point %s: %w", p.TradeID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
