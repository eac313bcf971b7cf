package fetch

import (
	"sort"
	"strings"

	"github.com/rickgao/pricedata/internal/model"
)

// NormalizeSymbol canonicalizes a provider-facing ticker: trim, uppercase,
// and optionally replace '.' with '-' for providers that use hyphenated
// share classes (e.g., "brk.b" -> "BRK-B"). Idempotent.
func NormalizeSymbol(raw string, replaceDot bool) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if replaceDot {
		s = strings.ReplaceAll(s, ".", "-")
	}
	return s
}

// NormalizeBars orders bars ascending by trade date with at most one bar per
// date. When the input holds duplicate dates, the bar appearing last in the
// input wins, regardless of the input's ordering.
func NormalizeBars(bars []model.PriceBar) []model.PriceBar {
	if len(bars) <= 1 {
		return bars
	}

	byDate := make(map[string]model.PriceBar, len(bars))
	for _, b := range bars {
		byDate[model.FormatDate(b.TradeDate)] = b
	}

	out := make([]model.PriceBar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TradeDate.Before(out[j].TradeDate)
	})
	return out
}
