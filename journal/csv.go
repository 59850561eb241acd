package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{
	"trade_id", "symbol", "direction", "entry_price", "exit_price", "opened_at", "closed_at",
	"pnl_currency", "pnl_percent", "pnl_r", "strategy", "setup_type", "notes",
}

// WriteCSV writes trades with a header row. Null values are empty cells.
func WriteCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		closed := ""
		if t.ClosedAt != nil {
			closed = t.ClosedAt.UTC().Format(time.RFC3339)
		}
		err := cw.Write([]string{
			t.ID,
			t.Symbol,
			string(t.Direction),
			t.EntryPrice.String(),
			nd(t.ExitPrice),
			t.OpenedAt.UTC().Format(time.RFC3339),
			closed,
			nd(t.PnL),
			nd(t.PnLPercent),
			nd(t.PnLR),
			t.StrategyName,
			t.SetupType,
			t.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the format written by WriteCSV. Columns are matched by
// header name so extra or reordered columns are tolerated.
func ReadCSV(r io.Reader) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"symbol", "direction", "entry_price", "opened_at"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []TradeRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec, err := parseCSVRow(get)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseCSVRow(get func(string) string) (TradeRecord, error) {
	var (
		rec TradeRecord
		err error
	)
	rec.ID = get("trade_id")
	rec.Symbol = get("symbol")
	rec.StrategyName = get("strategy")
	rec.SetupType = get("setup_type")
	rec.Notes = get("notes")

	if rec.Direction, err = ParseDirection(get("direction")); err != nil {
		return rec, err
	}
	if rec.EntryPrice, err = decimal.NewFromString(get("entry_price")); err != nil {
		return rec, fmt.Errorf("entry_price: %w", err)
	}
	if rec.OpenedAt, err = time.Parse(time.RFC3339, get("opened_at")); err != nil {
		return rec, fmt.Errorf("opened_at: %w", err)
	}
	rec.OpenedAt = rec.OpenedAt.UTC()
	if s := get("closed_at"); s != "" {
		closed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return rec, fmt.Errorf("closed_at: %w", err)
		}
		closed = closed.UTC()
		rec.ClosedAt = &closed
	}

	for name, dst := range map[string]*decimal.NullDecimal{
		"exit_price":   &rec.ExitPrice,
		"pnl_currency": &rec.PnL,
		"pnl_percent":  &rec.PnLPercent,
		"pnl_r":        &rec.PnLR,
	} {
		if *dst, err = parseNullDecimal(get(name)); err != nil {
			return rec, fmt.Errorf("%s: %w", name, err)
		}
	}
	return rec, nil
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func nd(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
