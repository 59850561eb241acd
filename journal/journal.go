package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrTradeNotFound    = errors.New("trade not found")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Direction is the side of a position.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ParseDirection accepts any casing of long/short plus the L/S shorthand.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "L":
		return Long, nil
	case "SHORT", "S":
		return Short, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

type Strategy struct {
	ID   string
	Name string
}

// TradeImage is a screenshot or chart attached to a trade.
type TradeImage struct {
	ID          string
	TradeID     string
	URL         string
	Category    string
	Description string
}

// TradeRecord is one position, open or closed.
//
// A nil ClosedAt means the position is still open. A zero OpenedAt means the
// open timestamp was missing or could not be parsed.
type TradeRecord struct {
	ID        string
	Symbol    string
	Direction Direction

	EntryPrice decimal.Decimal
	ExitPrice  decimal.NullDecimal

	OpenedAt time.Time
	ClosedAt *time.Time

	PnL        decimal.NullDecimal // account currency
	PnLPercent decimal.NullDecimal
	PnLR       decimal.NullDecimal // risk multiples

	StrategyID   string
	StrategyName string
	SetupType    string
	Notes        string

	Images []TradeImage
}

func (t TradeRecord) IsClosed() bool { return t.ClosedAt != nil }

func (t TradeRecord) HasPnL() bool { return t.PnL.Valid }

// IsBreakEven reports a realised P&L of exactly zero. A null P&L is not break-even.
func (t TradeRecord) IsBreakEven() bool {
	return t.PnL.Valid && t.PnL.Decimal.IsZero()
}

// PnLOrZero treats a null P&L as zero for summation.
func (t TradeRecord) PnLOrZero() decimal.Decimal {
	if !t.PnL.Valid {
		return decimal.Zero
	}
	return t.PnL.Decimal
}

// Duration is closed-at minus opened-at. ok is false when either timestamp
// is missing or the close precedes the open.
func (t TradeRecord) Duration() (d time.Duration, ok bool) {
	if t.ClosedAt == nil || t.OpenedAt.IsZero() || t.ClosedAt.IsZero() {
		return 0, false
	}
	d = t.ClosedAt.Sub(t.OpenedAt)
	if d < 0 {
		return 0, false
	}
	return d, true
}

// Store is the trade CRUD surface. SQLite implements it.
type Store interface {
	RecordTrade(ctx context.Context, t TradeRecord) (TradeRecord, error)
	UpdateTrade(ctx context.Context, t TradeRecord) error
	DeleteTrade(ctx context.Context, id string) error
	GetTrade(ctx context.Context, id string) (TradeRecord, error)
	ListTrades(ctx context.Context) ([]TradeRecord, error)
	Close() error
}
