package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block. Structured facts
// live in the PROPERTIES drawer; notes and images follow as narrative sections.
func FormatTradeOrg(t TradeRecord) string {
	status := "OPEN"
	if t.IsClosed() {
		status = "CLOSED"
	}
	heading := fmt.Sprintf("** %s %s %s (%s)", status, t.Direction, t.Symbol, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", t.EntryPrice.String()))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", orDash(nd(t.ExitPrice))))
	b.WriteString(fmt.Sprintf(":OPENED_AT: %s\n", orgTime(t.OpenedAt)))
	if t.ClosedAt != nil {
		b.WriteString(fmt.Sprintf(":CLOSED_AT: %s\n", orgTime(*t.ClosedAt)))
	} else {
		b.WriteString(":CLOSED_AT: -\n")
	}
	if t.PnL.Valid {
		b.WriteString(fmt.Sprintf(":PNL: %s\n", t.PnL.Decimal.StringFixed(2)))
	} else {
		b.WriteString(":PNL: -\n")
	}
	if t.PnLPercent.Valid {
		b.WriteString(fmt.Sprintf(":PNL_PCT: %s\n", t.PnLPercent.Decimal.StringFixed(2)))
	}
	if t.PnLR.Valid {
		b.WriteString(fmt.Sprintf(":PNL_R: %s\n", t.PnLR.Decimal.StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf(":STRATEGY: %s\n", orDash(t.StrategyName)))
	b.WriteString(fmt.Sprintf(":SETUP: %s\n", orDash(t.SetupType)))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n")
	if t.Notes != "" {
		b.WriteString(t.Notes)
		b.WriteString("\n")
	} else {
		b.WriteString("- \n")
	}
	if len(t.Images) > 0 {
		b.WriteString("\n*** Images\n")
		for _, img := range t.Images {
			b.WriteString(fmt.Sprintf("- [[%s][%s]]", img.URL, orDash(img.Category)))
			if img.Description != "" {
				b.WriteString(" " + img.Description)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func orgTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// shortID keeps the tail: ULIDs minted close together share their time prefix.
func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
