package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	open := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	trade := closedTrade("01HQZX7Y8W9V0U1T2S3R4Q5P6N", open, "250")
	trade.PnLR = ndec("1.25")
	trade.StrategyName = "trend-following"
	trade.Notes = "clean pullback entry"
	trade.Images = []TradeImage{{URL: "https://img.example/x.png", Category: "entry", Description: "1m"}}

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "** CLOSED LONG EUR_USD (3R4Q5P6N)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HQZX7Y8W9V0U1T2S3R4Q5P6N")
	assert.Contains(t, result, ":ENTRY_PRICE: 1.085")
	assert.Contains(t, result, ":EXIT_PRICE: 1.0875")
	assert.Contains(t, result, ":OPENED_AT: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":CLOSED_AT: 2024-03-15T12:00:45Z")
	assert.Contains(t, result, ":PNL: 250.00")
	assert.Contains(t, result, ":PNL_R: 1.25")
	assert.NotContains(t, result, ":PNL_PCT:")
	assert.Contains(t, result, ":STRATEGY: trend-following")
	assert.Contains(t, result, ":SETUP: -")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Notes\nclean pullback entry")
	assert.Contains(t, result, "- [[https://img.example/x.png][entry]] 1m")
}

func TestFormatTradeOrgOpenTrade(t *testing.T) {
	t.Parallel()

	trade := TradeRecord{
		ID: "short", Symbol: "GBP_USD", Direction: Short, EntryPrice: dec("1.25"),
		OpenedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	result := FormatTradeOrg(trade)
	assert.True(t, strings.HasPrefix(result, "** OPEN SHORT GBP_USD (short)"))
	assert.Contains(t, result, ":EXIT_PRICE: -")
	assert.Contains(t, result, ":CLOSED_AT: -")
	assert.Contains(t, result, ":PNL: -")
	assert.NotContains(t, result, "*** Images")
}

func TestFormatTradeOrgNegativePL(t *testing.T) {
	t.Parallel()

	trade := closedTrade("loss-trade", time.Now(), "-500")
	assert.Contains(t, FormatTradeOrg(trade), ":PNL: -500.00")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		closedTrade("trade-001", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), "200"),
		closedTrade("trade-002", time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC), "-100"),
	}

	result := FormatTradesOrg(trades)
	assert.Contains(t, result, "trade-001")
	assert.Contains(t, result, "trade-002")

	parts := strings.Split(result, "\n\n\n")
	assert.Len(t, parts, 2, "Expected two trades separated by blank lines")
}

func TestFormatTradesOrgEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))
}

func TestFormatTradeOrgStructure(t *testing.T) {
	t.Parallel()

	result := FormatTradeOrg(closedTrade("structure-test", time.Now(), "50"))

	lines := strings.Split(result, "\n")
	require.Greater(t, len(lines), 10)
	assert.True(t, strings.HasPrefix(lines[0], "** CLOSED"))

	propertiesStart, propertiesEnd, notes := -1, -1, -1
	for i, line := range lines {
		switch {
		case line == ":PROPERTIES:":
			propertiesStart = i
		case line == ":END:" && propertiesEnd < 0:
			propertiesEnd = i
		case line == "*** Notes":
			notes = i
		}
	}

	assert.Equal(t, 1, propertiesStart)
	assert.Greater(t, propertiesEnd, propertiesStart)
	assert.Greater(t, notes, propertiesEnd)
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ulid keeps random tail", "01HQZX7Y8W9V0U1T2S3R4Q5P6N", "3R4Q5P6N"},
		{"exactly 8 characters", "12345678", "12345678"},
		{"less than 8 characters", "short", "short"},
		{"empty string", "", ""},
		{"exactly 9 characters", "123456789", "23456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shortID(tt.input)
			assert.Equal(t, tt.expected, result)
			assert.LessOrEqual(t, len(result), 8)
		})
	}
}
