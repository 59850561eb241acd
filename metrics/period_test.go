package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{" Week ", Week, false},
		{"MONTH", Month, false},
		{"quarter", Quarter, false},
		{"year", Year, false},
		{"fortnight", "", true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePeriod(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPeriodsListsEveryPeriod(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Period{All, Week, Month, Quarter, Year}, Periods())
}

func TestCalendarWindow(t *testing.T) {
	t.Parallel()

	// Wednesday 2024-05-15 14:00 UTC
	now := time.Date(2024, 5, 15, 14, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		cal       Calendar
		period    Period
		wantStart time.Time
		wantNext  time.Time
	}{
		{"sunday week", Calendar{}, Week, day(2024, 5, 12), day(2024, 5, 19)},
		{"monday week", Calendar{WeekStart: time.Monday}, Week, day(2024, 5, 13), day(2024, 5, 20)},
		{"thursday week wraps back", Calendar{WeekStart: time.Thursday}, Week, day(2024, 5, 9), day(2024, 5, 16)},
		{"month", Calendar{}, Month, day(2024, 5, 1), day(2024, 6, 1)},
		{"quarter", Calendar{}, Quarter, day(2024, 4, 1), day(2024, 7, 1)},
		{"year", Calendar{}, Year, day(2024, 1, 1), day(2025, 1, 1)},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w, ok := tc.cal.Window(tc.period, now)
			require.True(t, ok)
			assert.True(t, tc.wantStart.Equal(w.Start), "start %s", w.Start)
			assert.True(t, tc.wantNext.Add(-time.Nanosecond).Equal(w.End), "end %s", w.End)
			assert.True(t, w.Contains(now))
			assert.True(t, w.Contains(w.Start))
			assert.True(t, w.Contains(w.End))
			assert.False(t, w.Contains(tc.wantNext))
		})
	}
}

func TestCalendarWindowAllHasNoBounds(t *testing.T) {
	t.Parallel()
	_, ok := Calendar{}.Window(All, time.Now())
	assert.False(t, ok)
}

func TestCalendarWindowQuarters(t *testing.T) {
	t.Parallel()

	for m := time.January; m <= time.December; m++ {
		w, ok := Calendar{}.Window(Quarter, time.Date(2023, m, 10, 0, 0, 0, 0, time.UTC))
		require.True(t, ok)
		wantStart := time.Month((int(m)-1)/3*3 + 1)
		assert.Equal(t, wantStart, w.Start.Month(), "month %s", m)
		assert.Equal(t, 1, w.Start.Day())
	}
}

func TestCalendarWindowUsesLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-05-31 20:00 UTC is already June 1st in Tokyo.
	now := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC)

	w, ok := Calendar{Location: tokyo}.Window(Month, now)
	require.True(t, ok)
	assert.Equal(t, time.June, w.Start.Month())
	assert.True(t, time.Date(2024, 5, 31, 15, 0, 0, 0, time.UTC).Equal(w.Start))
}

func TestCalendarFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 15, 14, 0, 0, 0, time.UTC)
	at := func(ts time.Time) journal.TradeRecord { return journal.TradeRecord{ID: ts.Format(time.RFC3339), OpenedAt: ts} }

	in := []journal.TradeRecord{
		at(time.Date(2024, 5, 11, 23, 59, 59, 0, time.UTC)), // Saturday before
		at(time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)),    // week start
		at(time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)),
		at(time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)),
		at(time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC)),
		{ID: "no-open"},
	}
	cal := Calendar{}

	ids := func(ts []journal.TradeRecord) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, ids(in), ids(cal.Filter(in, All, now)))
	assert.Equal(t, []string{in[1].ID, in[2].ID}, ids(cal.Filter(in, Week, now)))
	assert.Equal(t, []string{in[0].ID, in[1].ID, in[2].ID}, ids(cal.Filter(in, Month, now)))
	assert.Equal(t, []string{in[0].ID, in[1].ID, in[2].ID, in[3].ID}, ids(cal.Filter(in, Quarter, now)))
	assert.Len(t, cal.Filter(in, Year, now), 4)
}

func TestFilterEmpty(t *testing.T) {
	t.Parallel()

	now := time.Now()
	for _, p := range Periods() {
		assert.Empty(t, Calendar{}.Filter(nil, p, now), string(p))
	}
}

func TestDefaultCalendar(t *testing.T) {
	t.Parallel()

	c := DefaultCalendar()
	assert.Equal(t, time.Sunday, c.WeekStart)
	assert.Equal(t, time.Local, c.Location)
}
