package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "∞", Ratio(math.Inf(1)).String())
	assert.Equal(t, "2.50", Ratio(2.5).String())
	assert.Equal(t, "0.00", Ratio(0).String())
}

func TestRatioJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct {
		PF Ratio `json:"pf"`
	}{Ratio(math.Inf(1))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pf":"Infinity"}`, string(b))

	var back struct {
		PF Ratio `json:"pf"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.PF.IsInf())

	b, err = json.Marshal(Ratio(1.25))
	require.NoError(t, err)
	assert.Equal(t, "1.25", string(b))

	var r Ratio
	require.NoError(t, json.Unmarshal([]byte("3.5"), &r))
	assert.Equal(t, Ratio(3.5), r)

	require.Error(t, json.Unmarshal([]byte(`"lots"`), &r))
	_, err = json.Marshal(Ratio(math.NaN()))
	require.Error(t, err)
	_, err = json.Marshal(Ratio(math.Inf(-1)))
	require.Error(t, err)
}

func TestMetricsJSONCarriesInfinity(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Aggregate(trades("10", "20")))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "Infinity", raw["profitFactor"])
	assert.Equal(t, "30", raw["netPnL"])
	assert.EqualValues(t, 2, raw["totalTrades"])
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "66.67%", FormatPercent(200.0/3))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "100.00%", FormatPercent(100))
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"75":     "+75.00",
		"-12.5":  "-12.50",
		"0":      "0.00",
		"0.001":  "0.00",
		"-0.004": "0.00",
		"1.005":  "+1.01",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(dec(in)), in)
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h 05m", FormatMinutes(125))
	assert.Equal(t, "1h 00m", FormatMinutes(59.6))
}
