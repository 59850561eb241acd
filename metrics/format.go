package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// InfinitySymbol is how an unbounded ratio is displayed.
const InfinitySymbol = "∞"

const infinityJSON = `"Infinity"`

// Ratio is a float that may legitimately be +Inf. It serialises the
// infinite case as a marker instead of a capped number.
type Ratio float64

func (r Ratio) IsInf() bool { return math.IsInf(float64(r), 1) }

func (r Ratio) String() string {
	if r.IsInf() {
		return InfinitySymbol
	}
	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.IsInf() {
		return []byte(infinityJSON), nil
	}
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, -1) {
		return nil, fmt.Errorf("ratio %v is not representable", f)
	}
	return json.Marshal(f)
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == infinityJSON {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("ratio: %w", err)
	}
	*r = Ratio(f)
	return nil
}

// FormatPercent renders 66.666 as "66.67%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

// FormatMoney renders a currency amount with two decimals and an explicit sign
// for gains, e.g. "+75.00", "-12.50", "0.00".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.Round(2).IsPositive() {
		return "+" + s
	}
	if d.Round(2).IsZero() {
		return "0.00"
	}
	return s
}

// FormatMinutes renders a duration in minutes as "2h 05m" or "45m".
func FormatMinutes(minutes float64) string {
	d := time.Duration(math.Round(minutes)) * time.Minute
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
