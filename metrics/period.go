// Package metrics reduces a list of journal trades into the numbers a
// trading dashboard shows: period windows, summary statistics, the equity
// curve and per-category breakdowns. Every function here is a pure
// reduction over its input and is safe to call concurrently.
package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

var ErrUnknownPeriod = errors.New("unknown period")

type Period string

const (
	All     Period = "all"
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
	Year    Period = "year"
)

func Periods() []Period {
	return []Period{All, Week, Month, Quarter, Year}
}

func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case All, Week, Month, Quarter, Year:
		return p, nil
	case "":
		return All, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Calendar fixes the boundaries used for periods and calendar days.
// The zero value uses Sunday-start weeks in UTC.
type Calendar struct {
	WeekStart time.Weekday
	Location  *time.Location
}

// DefaultCalendar uses Sunday-start weeks in the machine's local zone.
func DefaultCalendar() Calendar {
	return Calendar{WeekStart: time.Sunday, Location: time.Local}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Window is an inclusive [Start, End] range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Window returns the calendar period containing now. ok is false for All,
// which has no bounds.
func (c Calendar) Window(p Period, now time.Time) (w Window, ok bool) {
	now = now.In(c.loc())
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, c.loc())

	var start, next time.Time
	switch p {
	case Week:
		offset := (int(day.Weekday()) - int(c.WeekStart) + 7) % 7
		start = day.AddDate(0, 0, -offset)
		next = start.AddDate(0, 0, 7)
	case Month:
		start = time.Date(y, m, 1, 0, 0, 0, 0, c.loc())
		next = start.AddDate(0, 1, 0)
	case Quarter:
		qm := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, qm, 1, 0, 0, 0, 0, c.loc())
		next = start.AddDate(0, 3, 0)
	case Year:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, c.loc())
		next = start.AddDate(1, 0, 0)
	default:
		return Window{}, false
	}
	return Window{Start: start, End: next.Add(-time.Nanosecond)}, true
}

// Filter keeps the trades opened inside the period containing now. All
// returns trades unchanged. Trades with a missing open time only survive All.
func (c Calendar) Filter(trades []journal.TradeRecord, p Period, now time.Time) []journal.TradeRecord {
	w, ok := c.Window(p, now)
	if !ok {
		return trades
	}

	out := make([]journal.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.OpenedAt.IsZero() {
			continue
		}
		if w.Contains(t.OpenedAt) {
			out = append(out, t)
		}
	}
	return out
}

