package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a trade as the managed backend returns it, with the strategy and
// images embedded through joined relations. Older rows use instrument/side
// instead of symbol/direction, and lowercase sides.
type Row struct {
	ID         string              `json:"id"`
	Symbol     string              `json:"symbol"`
	Instrument string              `json:"instrument"`
	Direction  string              `json:"direction"`
	Side       string              `json:"side"`
	EntryPrice decimal.NullDecimal `json:"entry_price"`
	ExitPrice  decimal.NullDecimal `json:"exit_price"`
	OpenedAt   string              `json:"opened_at"`
	ClosedAt   *string             `json:"closed_at"`
	PnL        decimal.NullDecimal `json:"profit_loss_currency"`
	PnLPercent decimal.NullDecimal `json:"profit_loss_percent"`
	PnLR       decimal.NullDecimal `json:"profit_loss_r"`
	StrategyID *string             `json:"strategy_id"`
	Strategy   *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"strategies"`
	SetupType *string    `json:"setup_type"`
	Notes     *string    `json:"notes"`
	Images    []ImageRow `json:"trade_images"`
}

type ImageRow struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// DecodeIssue is a field that could not be interpreted. The trade is still
// returned with that field left missing.
type DecodeIssue struct {
	TradeID string
	Field   string
	Value   string
	Err     error
}

func (d DecodeIssue) Error() string {
	return fmt.Sprintf("trade %s: %s %q: %v", d.TradeID, d.Field, d.Value, d.Err)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 with or without zone; zone-less values are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Record converts the row. Malformed timestamps or directions never fail the
// conversion: the value is dropped and reported as an issue, so duration
// calculations skip the trade instead of failing the whole page.
func (r Row) Record() (TradeRecord, []DecodeIssue) {
	var issues []DecodeIssue
	issue := func(field, value string, err error) {
		issues = append(issues, DecodeIssue{TradeID: r.ID, Field: field, Value: value, Err: err})
	}

	rec := TradeRecord{
		ID:         r.ID,
		Symbol:     firstNonEmpty(r.Symbol, r.Instrument),
		EntryPrice: r.EntryPrice.Decimal,
		ExitPrice:  r.ExitPrice,
		PnL:        r.PnL,
		PnLPercent: r.PnLPercent,
		PnLR:       r.PnLR,
		SetupType:  deref(r.SetupType),
		Notes:      deref(r.Notes),
	}

	rawDir := firstNonEmpty(r.Direction, r.Side)
	if dir, err := ParseDirection(rawDir); err != nil {
		issue("direction", rawDir, err)
	} else {
		rec.Direction = dir
	}

	if t, err := ParseTimestamp(r.OpenedAt); err != nil {
		issue("opened_at", r.OpenedAt, err)
	} else {
		rec.OpenedAt = t
	}
	if r.ClosedAt != nil {
		if t, err := ParseTimestamp(*r.ClosedAt); err != nil {
			issue("closed_at", *r.ClosedAt, err)
		} else {
			rec.ClosedAt = &t
		}
	}

	rec.StrategyID = deref(r.StrategyID)
	if r.Strategy != nil {
		rec.StrategyName = r.Strategy.Name
		if rec.StrategyID == "" {
			rec.StrategyID = r.Strategy.ID
		}
	}

	for _, img := range r.Images {
		rec.Images = append(rec.Images, TradeImage{
			ID:          img.ID,
			TradeID:     r.ID,
			URL:         img.URL,
			Category:    deref(img.Category),
			Description: deref(img.Description),
		})
	}
	return rec, issues
}

// DecodeRows parses a JSON array of backend rows. Only malformed JSON is an error.
func DecodeRows(data []byte) ([]TradeRecord, []DecodeIssue, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, nil, fmt.Errorf("decode trade rows: %w", err)
	}

	out := make([]TradeRecord, 0, len(rows))
	var issues []DecodeIssue
	for _, r := range rows {
		rec, is := r.Record()
		out = append(out, rec)
		issues = append(issues, is...)
	}
	return out, issues, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
