package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dreamvillians/tradeville-journal/backend"
	"github.com/Dreamvillians/tradeville-journal/config"
	"github.com/Dreamvillians/tradeville-journal/dashboard"
	"github.com/Dreamvillians/tradeville-journal/journal"
	"github.com/Dreamvillians/tradeville-journal/metrics"
)

func openStore() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func newBackendClient() (*backend.Client, error) {
	timeout, err := cfg.Backend.ParseTimeout()
	if err != nil {
		return nil, fmt.Errorf("backend timeout: %w", err)
	}
	return backend.NewClient(backend.Options{
		BaseURL:           cfg.Backend.URL,
		APIKey:            cfg.Backend.APIKey,
		Table:             cfg.Backend.Table,
		PageSize:          cfg.Backend.PageSize,
		Timeout:           timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Logger:            log.Named("backend"),
	})
}

// openSource returns the configured trade source and a function releasing it.
func openSource() (dashboard.Source, func(), error) {
	switch cfg.Journal.Source {
	case config.SourceBackend:
		c, err := newBackendClient()
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	default:
		j, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		return j, func() { j.Close() }, nil
	}
}

func calendar() (metrics.Calendar, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return metrics.Calendar{}, err
	}
	wd, err := cfg.Report.Weekday()
	if err != nil {
		return metrics.Calendar{}, err
	}
	return metrics.Calendar{WeekStart: wd, Location: loc}, nil
}

func newService(src dashboard.Source, topN int) (*dashboard.Service, error) {
	cal, err := calendar()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Backend.ParseTimeout()
	if err != nil {
		return nil, err
	}
	if topN < 0 {
		topN = cfg.Report.TopN
	}
	return &dashboard.Service{
		Source:       src,
		Calendar:     cal,
		TopN:         topN,
		FetchTimeout: timeout,
		Logger:       log.Named("dashboard"),
	}, nil
}

// periodTrades lists the trades opened in period, sorted by open time. The
// SQLite journal narrows the range in SQL; other sources are filtered here.
func periodTrades(ctx context.Context, src dashboard.Source, period metrics.Period, now time.Time) ([]journal.TradeRecord, error) {
	cal, err := calendar()
	if err != nil {
		return nil, err
	}
	w, bounded := cal.Window(period, now)
	if j, ok := src.(*journal.SQLite); ok && bounded {
		trades, err := j.ListTradesOpenedBetween(ctx, w.Start, w.End)
		if err != nil {
			return nil, fmt.Errorf("list trades: %w", err)
		}
		return trades, nil
	}

	trades, err := src.ListTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return metrics.SortByOpen(cal.Filter(trades, period, now)), nil
}

// resolvePeriod prefers the flag value and falls back to the configured default.
func resolvePeriod(flag string) (metrics.Period, error) {
	if flag == "" {
		flag = cfg.Report.Period
	}
	return metrics.ParsePeriod(flag)
}

var whenLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseWhen reads a timestamp typed on the command line. Values without a
// zone are taken in loc; "now" or an empty string mean the current time.
func parseWhen(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q (want YYYY-MM-DD[ HH:MM] or RFC3339)", s)
}

func parseDecimal(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// parseOptionalDecimal leaves the value null when s is empty.
func parseOptionalDecimal(name, s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(name, s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// createOutput opens path for writing, or returns stdout for "" and "-".
func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
