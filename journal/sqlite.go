package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Dreamvillians/tradeville-journal/pkg/id"
)

type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordTrade inserts t and returns it with its ID and strategy resolved.
// An empty ID gets a fresh ULID; a StrategyName is looked up or created.
func (j *SQLite) RecordTrade(ctx context.Context, t TradeRecord) (TradeRecord, error) {
	if t.ID == "" {
		t.ID = id.New()
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return TradeRecord{}, err
	}
	defer tx.Rollback()

	if err := resolveStrategy(ctx, tx, &t); err != nil {
		return TradeRecord{}, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, symbol, direction, entry_price, exit_price, opened_at, closed_at,
		 pnl_currency, pnl_percent, pnl_r, strategy_id, setup_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice,
		t.OpenedAt.UTC(), nullTime(t.ClosedAt), t.PnL, t.PnLPercent, t.PnLR,
		nullString(t.StrategyID), t.SetupType, t.Notes,
	)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("insert trade %s: %w", t.ID, err)
	}

	t.Images = append([]TradeImage(nil), t.Images...)
	for i := range t.Images {
		t.Images[i].TradeID = t.ID
		if err := insertImage(ctx, tx, &t.Images[i]); err != nil {
			return TradeRecord{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return TradeRecord{}, err
	}
	return t, nil
}

// UpdateTrade overwrites every column of an existing trade. Images are left alone.
func (j *SQLite) UpdateTrade(ctx context.Context, t TradeRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := resolveStrategy(ctx, tx, &t); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?, direction = ?, entry_price = ?, exit_price = ?,
			opened_at = ?, closed_at = ?, pnl_currency = ?, pnl_percent = ?, pnl_r = ?,
			strategy_id = ?, setup_type = ?, notes = ?
		WHERE trade_id = ?`,
		t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice,
		t.OpenedAt.UTC(), nullTime(t.ClosedAt), t.PnL, t.PnLPercent, t.PnLR,
		nullString(t.StrategyID), t.SetupType, t.Notes, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update trade %s: %w", t.ID, err)
	}
	if err := mustAffect(res, t.ID); err != nil {
		return err
	}
	return tx.Commit()
}

type CloseParams struct {
	ExitPrice  decimal.Decimal
	ClosedAt   time.Time
	PnL        decimal.Decimal
	PnLPercent decimal.NullDecimal
	PnLR       decimal.NullDecimal
}

// CloseTrade records the exit of an open position.
func (j *SQLite) CloseTrade(ctx context.Context, tradeID string, p CloseParams) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET exit_price = ?, closed_at = ?, pnl_currency = ?, pnl_percent = ?, pnl_r = ?
		WHERE trade_id = ?`,
		p.ExitPrice, p.ClosedAt.UTC(), p.PnL, p.PnLPercent, p.PnLR, tradeID,
	)
	if err != nil {
		return fmt.Errorf("close trade %s: %w", tradeID, err)
	}
	return mustAffect(res, tradeID)
}

// DeleteTrade removes a trade together with its images.
func (j *SQLite) DeleteTrade(ctx context.Context, tradeID string) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trade_images WHERE trade_id = ?`, tradeID); err != nil {
		return fmt.Errorf("delete images of %s: %w", tradeID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade %s: %w", tradeID, err)
	}
	if err := mustAffect(res, tradeID); err != nil {
		return err
	}
	return tx.Commit()
}

// EnsureStrategy returns the strategy with the given name, creating it if needed.
func (j *SQLite) EnsureStrategy(ctx context.Context, name string) (Strategy, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return Strategy{}, err
	}
	defer tx.Rollback()

	s, err := ensureStrategy(ctx, tx, name)
	if err != nil {
		return Strategy{}, err
	}
	return s, tx.Commit()
}

func (j *SQLite) ListStrategies(ctx context.Context) ([]Strategy, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT strategy_id, name FROM strategies ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Strategy
	for rows.Next() {
		var s Strategy
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AddImage attaches img to an existing trade and returns it with its ID set.
func (j *SQLite) AddImage(ctx context.Context, tradeID string, img TradeImage) (TradeImage, error) {
	var exists int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM trades WHERE trade_id = ?`, tradeID).Scan(&exists)
	if err != nil {
		return TradeImage{}, err
	}
	if exists == 0 {
		return TradeImage{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
	}

	img.TradeID = tradeID
	if err := insertImage(ctx, j.db, &img); err != nil {
		return TradeImage{}, err
	}
	return img, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// resolveStrategy makes StrategyName authoritative when it is set.
func resolveStrategy(ctx context.Context, tx execer, t *TradeRecord) error {
	if strings.TrimSpace(t.StrategyName) == "" {
		return nil
	}
	s, err := ensureStrategy(ctx, tx, t.StrategyName)
	if err != nil {
		return err
	}
	t.StrategyID, t.StrategyName = s.ID, s.Name
	return nil
}

func ensureStrategy(ctx context.Context, tx execer, name string) (Strategy, error) {
	name = strings.TrimSpace(name)
	s := Strategy{Name: name}

	err := tx.QueryRowContext(ctx, `SELECT strategy_id FROM strategies WHERE name = ?`, name).Scan(&s.ID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Strategy{}, err
	}

	s.ID = id.New()
	if _, err := tx.ExecContext(ctx, `INSERT INTO strategies (strategy_id, name) VALUES (?, ?)`, s.ID, s.Name); err != nil {
		return Strategy{}, fmt.Errorf("insert strategy %q: %w", name, err)
	}
	return s, nil
}

func insertImage(ctx context.Context, tx execer, img *TradeImage) error {
	if img.ID == "" {
		img.ID = id.New()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO trade_images (image_id, trade_id, url, category, description)
		VALUES (?, ?, ?, ?, ?)`,
		img.ID, img.TradeID, img.URL, img.Category, img.Description,
	)
	if err != nil {
		return fmt.Errorf("insert image for %s: %w", img.TradeID, err)
	}
	return nil
}

func mustAffect(res sql.Result, tradeID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
