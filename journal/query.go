package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectTrades = `
	SELECT t.trade_id, t.symbol, t.direction, t.entry_price, t.exit_price, t.opened_at, t.closed_at,
	       t.pnl_currency, t.pnl_percent, t.pnl_r, COALESCE(t.strategy_id, ''), COALESCE(s.name, ''),
	       t.setup_type, t.notes
	FROM trades t
	LEFT JOIN strategies s ON s.strategy_id = t.strategy_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var (
		rec       TradeRecord
		direction string
		closedAt  sql.NullTime
	)
	err := row.Scan(
		&rec.ID,
		&rec.Symbol,
		&direction,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenedAt,
		&closedAt,
		&rec.PnL,
		&rec.PnLPercent,
		&rec.PnLR,
		&rec.StrategyID,
		&rec.StrategyName,
		&rec.SetupType,
		&rec.Notes,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	rec.Direction = Direction(direction)
	rec.OpenedAt = rec.OpenedAt.UTC()
	if closedAt.Valid {
		t := closedAt.Time.UTC()
		rec.ClosedAt = &t
	}
	return rec, nil
}

// GetTrade returns a single trade, with its images, by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, selectTrades+` WHERE t.trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return TradeRecord{}, err
	}

	rec.Images, err = j.ListImages(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every trade ordered by opened_at ascending, the order
// the equity curve expects.
func (j *SQLite) ListTrades(ctx context.Context) ([]TradeRecord, error) {
	return j.listTrades(ctx, selectTrades+` ORDER BY t.opened_at ASC, t.trade_id ASC`)
}

// ListTradesOpenedBetween returns trades whose opened_at is within the
// inclusive range [start, end], the same bounds as metrics.Window.
func (j *SQLite) ListTradesOpenedBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return j.listTrades(ctx, selectTrades+`
		WHERE t.opened_at >= ? AND t.opened_at <= ?
		ORDER BY t.opened_at ASC, t.trade_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) listTrades(ctx context.Context, query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	index := map[string]int{}
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	images, err := j.db.QueryContext(ctx, `
		SELECT image_id, trade_id, url, category, description
		FROM trade_images ORDER BY image_id ASC`)
	if err != nil {
		return nil, err
	}
	defer images.Close()

	for images.Next() {
		var img TradeImage
		if err := images.Scan(&img.ID, &img.TradeID, &img.URL, &img.Category, &img.Description); err != nil {
			return nil, err
		}
		if i, ok := index[img.TradeID]; ok {
			out[i].Images = append(out[i].Images, img)
		}
	}
	return out, images.Err()
}

func (j *SQLite) ListImages(ctx context.Context, tradeID string) ([]TradeImage, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT image_id, trade_id, url, category, description
		FROM trade_images
		WHERE trade_id = ?
		ORDER BY image_id ASC`, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeImage
	for rows.Next() {
		var img TradeImage
		if err := rows.Scan(&img.ID, &img.TradeID, &img.URL, &img.Category, &img.Description); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
