package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dreamvillians/tradeville-journal/pkg/id"
)

type ImportResult struct {
	Added   int
	Skipped int // already present by ID
}

// ImportTrades records every trade whose ID is not already in the journal.
// Trades without an ID get one stamped with their open time. Strategy IDs
// from another store are dropped; strategies are matched by name.
func (j *SQLite) ImportTrades(ctx context.Context, trades []TradeRecord) (ImportResult, error) {
	var res ImportResult
	for _, t := range trades {
		if t.ID == "" && !t.OpenedAt.IsZero() {
			t.ID = id.NewAt(t.OpenedAt)
		} else if t.ID != "" {
			_, err := j.GetTrade(ctx, t.ID)
			if err == nil {
				res.Skipped++
				continue
			}
			if !errors.Is(err, ErrTradeNotFound) {
				return res, err
			}
		}

		t.StrategyID = ""
		t.Images = append([]TradeImage(nil), t.Images...)
		for i := range t.Images {
			t.Images[i].ID = ""
		}
		if _, err := j.RecordTrade(ctx, t); err != nil {
			return res, fmt.Errorf("import trade %s: %w", t.ID, err)
		}
		res.Added++
	}
	return res, nil
}
