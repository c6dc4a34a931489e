package bot

import (
	"strings"
	"testing"
	"time"

	"macro-pulse/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	if b := StartTelegramBot("", nil, nil, nil, nil); b != nil {
		t.Fatal("expected nil bot without a token")
	}
}

func eventAt(seriesID, title string, impact domain.Impact, when time.Time, hasTime bool, previous string) domain.EventRecord {
	return domain.EventRecord{
		ScheduledAt: when,
		HasTime:     hasTime,
		Title:       title,
		SeriesID:    seriesID,
		Impact:      impact,
		Previous:    previous,
	}
}

func TestSplitByImpact(t *testing.T) {
	day := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	events := []domain.EventRecord{
		eventAt("CPIAUCSL", "Consumer Price Index", domain.ImpactHigh, day, false, "3.40%"),
		eventAt("HOUST", "Housing Starts", domain.ImpactMedium, day, false, "1,360"),
		eventAt("GDP", "Gross Domestic Product", domain.ImpactHigh, day, false, "$27,957.00B"),
	}

	high, other := splitByImpact(events)
	if len(high) != 2 || len(other) != 1 {
		t.Fatalf("expected 2 high / 1 other, got %d / %d", len(high), len(other))
	}
	if other[0].SeriesID != "HOUST" {
		t.Fatalf("unexpected other event: %s", other[0].SeriesID)
	}
}

func TestEventsHighMessageFormat(t *testing.T) {
	day := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	msg := eventsHighMessage([]domain.EventRecord{
		eventAt("CPIAUCSL", "Consumer Price Index", domain.ImpactHigh, day, false, "3.40%"),
	})

	if !strings.HasPrefix(msg, "🔴 High Impact Economic Releases") {
		t.Fatalf("missing heading: %q", msg)
	}
	if !strings.Contains(msg, "Wed, Jun 12") {
		t.Fatalf("missing date line: %q", msg)
	}
	if !strings.Contains(msg, "Consumer Price Index\n└ Previous: 3.40%") {
		t.Fatalf("missing event block: %q", msg)
	}
}

func TestEventsHighMessageIncludesTimeWhenKnown(t *testing.T) {
	at := time.Date(2024, 6, 12, 8, 30, 0, 0, time.UTC)
	msg := eventsHighMessage([]domain.EventRecord{
		eventAt("PAYEMS", "Nonfarm Payrolls", domain.ImpactHigh, at, true, "272,000"),
	})
	if !strings.Contains(msg, "Wed, Jun 12 • 08:30 AM") {
		t.Fatalf("missing timed date line: %q", msg)
	}
}

func TestEventsOtherMessageGroupsByDate(t *testing.T) {
	day1 := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	msg := eventsOtherMessage([]domain.EventRecord{
		eventAt("HOUST", "Housing Starts", domain.ImpactMedium, day1, false, "1,360"),
		eventAt("VIXCLS", "VIX Volatility Index", domain.ImpactMedium, day1, false, "12.85"),
		eventAt("ICSA", "Initial Jobless Claims", domain.ImpactMedium, day2, false, "218,250"),
	})

	if strings.Count(msg, "Wed, Jun 12") != 1 {
		t.Fatalf("expected a single date heading for shared dates: %q", msg)
	}
	if !strings.Contains(msg, "Housing Starts (1,360)") {
		t.Fatalf("missing compact event line: %q", msg)
	}
	if !strings.Contains(msg, "Thu, Jun 13") {
		t.Fatalf("missing second date heading: %q", msg)
	}
}

func TestEmptyEventGroupsProduceNoMessage(t *testing.T) {
	if msg := eventsHighMessage(nil); msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
	if msg := eventsOtherMessage(nil); msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}

func TestAlertMessage(t *testing.T) {
	at := time.Date(2024, 6, 12, 12, 30, 0, 0, time.UTC)
	msg := alertMessage(eventAt("CPIAUCSL", "Consumer Price Index", domain.ImpactHigh, at, true, "3.40%"))

	want := "🔔 Upcoming Economic Release\nConsumer Price Index\nTime: 12:30 UTC\nImpact: High\nPrevious Value: 3.40%"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}

func TestDataMessage(t *testing.T) {
	msg := dataMessage(&domain.IndicatorReport{
		Info: domain.SeriesInfo{
			ID:    "VIXCLS",
			Title: "CBOE Volatility Index: VIX",
			Units: "Index",
		},
		LatestValue: 12.85,
		LatestDate:  time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
	})

	want := "📊 CBOE Volatility Index: VIX\nLatest Value: 12.85\nLast Updated: 2024-06-11\nUnits: Index"
	if msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}

func TestDataMessageGroupsLargeValues(t *testing.T) {
	msg := dataMessage(&domain.IndicatorReport{
		Info:        domain.SeriesInfo{Title: "All Employees, Total Nonfarm", Units: "Thousands of Persons"},
		LatestValue: 158546,
		LatestDate:  time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
	})
	if !strings.Contains(msg, "Latest Value: 158,546.00") {
		t.Fatalf("expected grouped value, got %q", msg)
	}
}

func TestDataMessageMissingUnits(t *testing.T) {
	msg := dataMessage(&domain.IndicatorReport{
		Info:       domain.SeriesInfo{Title: "Some Series"},
		LatestDate: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
	})
	if !strings.Contains(msg, "Units: N/A") {
		t.Fatalf("expected N/A units, got %q", msg)
	}
}

func TestSearchMessage(t *testing.T) {
	msg := searchMessage("oil", []domain.SearchResult{
		{SeriesID: "DCOILWTICO", Title: "Crude Oil Prices: WTI", Frequency: "Daily", Units: "$per Barrel"},
	})

	if !strings.HasPrefix(msg, "🔍 Search Results for 'oil'") {
		t.Fatalf("missing heading: %q", msg)
	}
	if !strings.Contains(msg, "Series ID: DCOILWTICO") {
		t.Fatalf("missing series id: %q", msg)
	}
	if !strings.Contains(msg, "Units: $per Barrel") {
		t.Fatalf("missing units: %q", msg)
	}
}

func TestCorrelationMessage(t *testing.T) {
	msg := correlationMessage("VIXCLS", "DCOILWTICO", 90, 60, -0.4567)
	if !strings.Contains(msg, "Correlation Analysis (90 days)") {
		t.Fatalf("missing window: %q", msg)
	}
	if !strings.Contains(msg, "Correlation Coefficient: -0.46") {
		t.Fatalf("expected 2dp coefficient: %q", msg)
	}
	if !strings.Contains(msg, "Overlapping Points: 60") {
		t.Fatalf("missing point count: %q", msg)
	}
}

func TestCheckTimeframe(t *testing.T) {
	for _, tf := range []string{"3", "5", "15"} {
		if _, reject := checkTimeframe(tf); reject != eliteOnlyMessage {
			t.Fatalf("timeframe %s: expected elite-only rejection, got %q", tf, reject)
		}
	}
	for _, tf := range []string{"d", "W", "m"} {
		norm, reject := checkTimeframe(tf)
		if reject != "" {
			t.Fatalf("timeframe %s: unexpected rejection %q", tf, reject)
		}
		if norm != strings.ToLower(tf) {
			t.Fatalf("timeframe %s: expected lowercase normalization, got %q", tf, norm)
		}
	}
	if _, reject := checkTimeframe("h"); reject != badTimeframeMessage {
		t.Fatalf("expected invalid-timeframe rejection, got %q", reject)
	}
}

func TestChartTitle(t *testing.T) {
	if got := chartTitle("aapl", "d"); got != "AAPL Daily Chart" {
		t.Fatalf("got %q", got)
	}
	if got := chartTitle("SPY", "m"); got != "SPY Monthly Chart" {
		t.Fatalf("got %q", got)
	}
}
