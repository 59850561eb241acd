// Package dashboard assembles everything a statistics view needs from one
// fetch of the journal.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Dreamvillians/tradeville-journal/journal"
	"github.com/Dreamvillians/tradeville-journal/metrics"
)

var ErrFetch = errors.New("fetch trades")

// Source supplies the full trade list. The SQLite store and the backend
// client both satisfy it.
type Source interface {
	ListTrades(ctx context.Context) ([]journal.TradeRecord, error)
}

type Report struct {
	Period      metrics.Period        `json:"period"`
	Window      *metrics.Window       `json:"window,omitempty"`
	Metrics     metrics.Metrics       `json:"metrics"`
	Equity      []metrics.EquityPoint `json:"equity"`
	MaxDrawdown decimal.Decimal       `json:"maxDrawdown"`
	ByStrategy  []metrics.Category    `json:"byStrategy"`
	BySymbol    []metrics.Category    `json:"bySymbol"`
	ByWeekday   []metrics.Category    `json:"byWeekday"`
	Trades      []journal.TradeRecord `json:"-"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

type Service struct {
	Source   Source
	Calendar metrics.Calendar
	// TopN truncates each breakdown; <= 0 keeps every category.
	TopN         int
	FetchTimeout time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Build fetches the journal and reduces the trades opened in period. When
// the fetch fails the reducers still run over an empty list, so the returned
// Report is the zero dashboard, and the error wraps ErrFetch.
func (s *Service) Build(ctx context.Context, period metrics.Period) (Report, error) {
	trades, fetchErr := s.fetch(ctx)
	if fetchErr != nil {
		s.log().Error("fetch trades failed", zap.Error(fetchErr))
		trades = nil
	}
	r := s.Compose(trades, period)
	if fetchErr != nil {
		return r, fmt.Errorf("%w: %w", ErrFetch, fetchErr)
	}
	return r, nil
}

// Compose runs the reducers over an already fetched trade list.
func (s *Service) Compose(trades []journal.TradeRecord, period metrics.Period) Report {
	now := s.now()
	r := Report{Period: period, GeneratedAt: now}
	if w, ok := s.Calendar.Window(period, now); ok {
		r.Window = &w
	}

	inPeriod := metrics.SortByOpen(s.Calendar.Filter(trades, period, now))

	r.Trades = inPeriod
	r.Metrics = s.Calendar.Aggregate(inPeriod)
	r.Equity = metrics.EquityCurve(inPeriod)
	r.MaxDrawdown = metrics.MaxDrawdown(r.Equity)
	r.ByStrategy = metrics.Top(metrics.Breakdown(inPeriod, metrics.ByStrategy), s.TopN)
	r.BySymbol = metrics.Top(metrics.Breakdown(inPeriod, metrics.BySymbol), s.TopN)
	r.ByWeekday = metrics.Top(metrics.Breakdown(inPeriod, metrics.ByWeekday(s.Calendar.Location)), s.TopN)

	s.log().Debug("dashboard built",
		zap.String("period", string(period)),
		zap.Int("trades", len(inPeriod)),
		zap.String("net_pnl", r.Metrics.NetPnL.String()),
	)
	return r
}

func (s *Service) fetch(ctx context.Context) ([]journal.TradeRecord, error) {
	if s.Source == nil {
		return nil, errors.New("no trade source configured")
	}
	if s.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.FetchTimeout)
		defer cancel()
	}
	return s.Source.ListTrades(ctx)
}
