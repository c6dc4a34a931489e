package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoObservations marks a series that exists but has no usable data
// points. Callers distinguish it from transport failures: the former renders
// as "N/A", the latter skips the indicator.
var ErrNoObservations = errors.New("no observations available")

type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
)

// IndicatorSpec describes one tracked FRED series. The catalog is fixed at
// startup and never mutated.
type IndicatorSpec struct {
	SeriesID string
	Label    string
	Impact   Impact
}

// Observation is a single (date, value) point from a series. FRED reports
// gaps as the literal value "."; those arrive with Missing set and are
// skipped when looking for the most recent known value.
type Observation struct {
	Date    time.Time `json:"date"`
	Value   float64   `json:"value"`
	Missing bool      `json:"missing,omitempty"`
}

// SeriesInfo is the metadata FRED returns for a series.
type SeriesInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Units     string `json:"units"`
	Frequency string `json:"frequency"`
}

// EventRecord is one upcoming release as published by the refresh job.
// ScheduledAt is date-only unless HasTime is set; FRED does not expose
// reliable intra-day release times, so date-only is the canonical state.
type EventRecord struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	HasTime     bool      `json:"has_time"`
	Title       string    `json:"title"`
	SeriesID    string    `json:"series_id"`
	Impact      Impact    `json:"impact"`
	Previous    string    `json:"previous"`
}

// Key identifies an event for notification dedupe.
func (e EventRecord) Key() string {
	return fmt.Sprintf("%s@%s", e.SeriesID, e.ScheduledAt.Format(time.RFC3339))
}

// IndicatorReport is the answer to a getdata query: series metadata plus the
// latest known observation.
type IndicatorReport struct {
	Info        SeriesInfo `json:"info"`
	LatestValue float64    `json:"latest_value"`
	LatestDate  time.Time  `json:"latest_date"`
}

// SearchResult is one row of a series search with display-ready fields.
type SearchResult struct {
	SeriesID  string `json:"series_id"`
	Title     string `json:"title"`
	Frequency string `json:"frequency"`
	Units     string `json:"units"`
}

// ChartResult is the outcome of a chart fetch. Exactly one of the two
// branches is populated: Image+FileName when the upstream returned the
// picture, FallbackURL (with a cache-busting parameter) when it did not.
// Both branches are successful completions.
type ChartResult struct {
	Ticker      string
	Timeframe   string
	Image       []byte
	FileName    string
	FallbackURL string
}

// Fetched reports whether the image bytes were obtained.
func (r ChartResult) Fetched() bool {
	return len(r.Image) > 0
}
