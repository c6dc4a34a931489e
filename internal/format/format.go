package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// percentSeries are rendered as fixed two-decimal percentages.
var percentSeries = map[string]bool{
	"UNRATE":   true,
	"FEDFUNDS": true,
	"DGS2":     true,
	"DGS10":    true,
	"T10Y2Y":   true,
}

// Value renders a raw observation for display. The ladder is evaluated top
// to bottom and the first match wins; several unit strings would otherwise
// double-match, so the order is load-bearing.
func Value(seriesID string, value float64, missing bool, units string) string {
	if missing {
		return "N/A"
	}
	switch {
	case percentSeries[seriesID]:
		return fmt.Sprintf("%.2f%%", value)
	case seriesID == "DCOILWTICO":
		return fmt.Sprintf("$%.2f/bbl", value)
	case seriesID == "GOLDPMGBD228NLBM":
		return fmt.Sprintf("$%.2f/oz", value)
	case strings.Contains(units, "Billions of Dollars"):
		return "$" + humanize.FormatFloat("#,###.##", value) + "B"
	case strings.Contains(units, "Millions of Dollars"):
		return "$" + humanize.FormatFloat("#,###.##", value) + "M"
	case seriesID == "ICSA":
		return humanize.FormatFloat("#,###.", value)
	case seriesID == "VIXCLS":
		return fmt.Sprintf("%.2f", value)
	default:
		return humanize.FormatFloat("#,###.##", value)
	}
}

// Decimal renders a plain grouped two-decimal number (the getdata display).
func Decimal(value float64) string {
	return humanize.FormatFloat("#,###.##", value)
}

// unitRule is one row of the search-units rewrite table. Rules are applied
// in order, first match wins.
type unitRule struct {
	match func(string) bool
	apply func(string) string
}

var unitRules = []unitRule{
	{
		// Index with a base year, e.g. "Index 1982-1984=100".
		match: func(u string) bool { return strings.Contains(u, "Index") && strings.Contains(u, "=") },
		apply: func(u string) string {
			base := strings.TrimSpace(u[strings.Index(u, "=")+1:])
			return fmt.Sprintf("Index (Base: %s)", base)
		},
	},
	{
		match: func(u string) bool { return strings.Contains(u, "Index") },
		apply: func(string) string { return "Index" },
	},
	{
		match: func(u string) bool { return strings.Contains(u, "Dollars per") },
		apply: func(u string) string { return "$" + strings.Replace(u, "Dollars per", "per", 1) },
	},
	{
		match: func(u string) bool { return strings.Contains(u, "Billions of Dollars") },
		apply: func(string) string { return "$B" },
	},
	{
		match: func(u string) bool { return strings.Contains(u, "Millions of Dollars") },
		apply: func(string) string { return "$M" },
	},
}

// SearchUnits rewrites a provider-supplied unit string into the compact form
// shown in search results. Unmatched strings pass through unchanged.
func SearchUnits(units string) string {
	for _, rule := range unitRules {
		if rule.match(units) {
			return rule.apply(units)
		}
	}
	return units
}

// Frequency strips the qualifiers FRED appends to frequency names.
func Frequency(freq string) string {
	freq = strings.ReplaceAll(freq, ", Ending Friday", "")
	return strings.ReplaceAll(freq, ", Close", "")
}

// TruncateTitle caps titles at 50 characters with an ellipsis.
func TruncateTitle(title string) string {
	if len(title) > 50 {
		return title[:47] + "..."
	}
	return title
}
