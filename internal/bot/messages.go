package bot

import (
	"fmt"
	"strings"

	"macro-pulse/internal/domain"
	"macro-pulse/internal/format"
)

const (
	noEventsMessage       = "No economic events scheduled."
	eliteOnlyMessage      = "Intraday charts are only available for FINVIZ*Elite users."
	badTimeframeMessage   = "Invalid timeframe. Use 'd' for daily, 'w' for weekly, or 'm' for monthly."
	invalidCommandMessage = "Invalid command. Use format: ;ticker timeframe (e.g., ;aapl d, ;aapl w, ;aapl m)"

	helpMessage = `Available commands:
/events - List upcoming economic releases
/getdata SERIES_ID - Latest value for an indicator (e.g., /getdata VIXCLS)
/search KEYWORDS - Search for data series (e.g., /search treasury yield)
/correlation SERIES1 SERIES2 [DAYS] - Correlation over a trailing window (default 90 days)
/chart TICKER TIMEFRAME - Chart image (d, w, or m)
/setchannel - Subscribe this chat to release notifications (admins only)
/removechannel - Unsubscribe this chat (admins only)

The same commands work with a ';' prefix, and ';ticker timeframe' (e.g., ;aapl d) is a chart shortcut.`
)

var timeframeNames = map[string]string{
	"d": "Daily",
	"w": "Weekly",
	"m": "Monthly",
}

func splitByImpact(events []domain.EventRecord) (high, other []domain.EventRecord) {
	for _, ev := range events {
		if ev.Impact == domain.ImpactHigh {
			high = append(high, ev)
		} else {
			other = append(other, ev)
		}
	}
	return high, other
}

func eventDateLine(ev domain.EventRecord) string {
	date := ev.ScheduledAt.Format("Mon, Jan 02")
	if ev.HasTime {
		return date + " • " + ev.ScheduledAt.Format("03:04 PM")
	}
	return date
}

// eventsHighMessage lists each high-impact release on its own block.
func eventsHighMessage(events []domain.EventRecord) string {
	if len(events) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("🔴 High Impact Economic Releases\n")
	for _, ev := range events {
		sb.WriteString("\n")
		sb.WriteString(eventDateLine(ev))
		sb.WriteString("\n")
		sb.WriteString(ev.Title)
		sb.WriteString("\n└ Previous: ")
		sb.WriteString(ev.Previous)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// eventsOtherMessage packs the remaining releases one per line, grouped under
// date headings.
func eventsOtherMessage(events []domain.EventRecord) string {
	if len(events) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("🟡 Other Economic Releases\n")
	currentDate := ""
	for _, ev := range events {
		date := ev.ScheduledAt.Format("Mon, Jan 02")
		if date != currentDate {
			sb.WriteString("\n" + date + "\n")
			currentDate = date
		}
		if ev.HasTime {
			sb.WriteString(ev.ScheduledAt.Format("03:04 PM") + " ")
		}
		fmt.Fprintf(&sb, "%s (%s)\n", ev.Title, ev.Previous)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func alertMessage(ev domain.EventRecord) string {
	return fmt.Sprintf(
		"🔔 Upcoming Economic Release\n%s\nTime: %s\nImpact: %s\nPrevious Value: %s",
		ev.Title,
		ev.ScheduledAt.UTC().Format("15:04 UTC"),
		ev.Impact,
		ev.Previous,
	)
}

func dataMessage(report *domain.IndicatorReport) string {
	units := report.Info.Units
	if units == "" {
		units = "N/A"
	}
	return fmt.Sprintf(
		"📊 %s\nLatest Value: %s\nLast Updated: %s\nUnits: %s",
		report.Info.Title,
		format.Decimal(report.LatestValue),
		report.LatestDate.Format("2006-01-02"),
		units,
	)
}

func searchMessage(query string, results []domain.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Search Results for '%s'\n", query)
	for _, r := range results {
		fmt.Fprintf(&sb, "\n📊 %s\nSeries ID: %s\nFrequency: %s\nUnits: %s\n",
			r.Title, r.SeriesID, r.Frequency, r.Units)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func correlationMessage(series1, series2 string, days, points int, r float64) string {
	return fmt.Sprintf(
		"📊 Correlation Analysis (%d days)\nCorrelation between %s and %s\nCorrelation Coefficient: %.2f\nOverlapping Points: %d",
		days, series1, series2, r, points,
	)
}

func chartTitle(ticker, timeframe string) string {
	return fmt.Sprintf("%s %s Chart", strings.ToUpper(ticker), timeframeNames[timeframe])
}
