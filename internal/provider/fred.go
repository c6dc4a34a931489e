package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"macro-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	fredBaseURL    = "https://api.stlouisfed.org/fred"
	fredDateLayout = "2006-01-02"
)

// FredProvider is a thin adapter over the FRED REST API: series
// observations, series metadata, and free-text search.
type FredProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewFredProvider creates a provider with built-in rate limiting. FRED caps
// at 120 requests per minute, so the bucket refills one token every 500ms.
func NewFredProvider(apiKey string, tracer trace.Tracer) *FredProvider {
	return &FredProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: fredBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewRateLimiter(120, 500*time.Millisecond),
	}
}

// Observations fetches the (date, value) points for a series, ascending by
// date. Zero start/end mean unbounded. Values FRED reports as "." come back
// with Missing set.
func (p *FredProvider) Observations(ctx context.Context, seriesID string, start, end time.Time) ([]domain.Observation, error) {
	_, span := p.tracer.Start(ctx, "fred.observations")
	defer span.End()

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "asc")
	if !start.IsZero() {
		params.Set("observation_start", start.Format(fredDateLayout))
	}
	if !end.IsZero() {
		params.Set("observation_end", end.Format(fredDateLayout))
	}

	body, err := p.doRequest(ctx, "/series/observations", params)
	if err != nil {
		return nil, fmt.Errorf("fetch observations for %s: %w", seriesID, err)
	}
	return parseObservations(body, seriesID)
}

// LatestObservation returns the most recent non-missing observation for a
// series regardless of age.
func (p *FredProvider) LatestObservation(ctx context.Context, seriesID string) (domain.Observation, error) {
	_, span := p.tracer.Start(ctx, "fred.latest-observation")
	defer span.End()

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", "20")

	body, err := p.doRequest(ctx, "/series/observations", params)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("fetch latest observation for %s: %w", seriesID, err)
	}
	obs, err := parseObservations(body, seriesID)
	if err != nil {
		return domain.Observation{}, err
	}
	for _, o := range obs {
		if !o.Missing {
			return o, nil
		}
	}
	return domain.Observation{}, fmt.Errorf("%w for %s", domain.ErrNoObservations, seriesID)
}

// SeriesInfo fetches title, units, and frequency for a series.
func (p *FredProvider) SeriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error) {
	_, span := p.tracer.Start(ctx, "fred.series-info")
	defer span.End()

	params := url.Values{}
	params.Set("series_id", seriesID)

	body, err := p.doRequest(ctx, "/series", params)
	if err != nil {
		return nil, fmt.Errorf("fetch series info for %s: %w", seriesID, err)
	}

	var raw struct {
		Seriess []seriesRow `json:"seriess"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse series info for %s: %w", seriesID, err)
	}
	if len(raw.Seriess) == 0 {
		return nil, fmt.Errorf("unknown series: %s", seriesID)
	}
	info := raw.Seriess[0].toInfo()
	return &info, nil
}

// Search runs a free-text series search ranked by search_rank.
func (p *FredProvider) Search(ctx context.Context, text string, limit int) ([]domain.SeriesInfo, error) {
	_, span := p.tracer.Start(ctx, "fred.search")
	defer span.End()

	params := url.Values{}
	params.Set("search_text", text)
	params.Set("order_by", "search_rank")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := p.doRequest(ctx, "/series/search", params)
	if err != nil {
		return nil, fmt.Errorf("search series %q: %w", text, err)
	}

	var raw struct {
		Seriess []seriesRow `json:"seriess"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse search results for %q: %w", text, err)
	}

	results := make([]domain.SeriesInfo, 0, len(raw.Seriess))
	for _, row := range raw.Seriess {
		results = append(results, row.toInfo())
	}
	return results, nil
}

func (p *FredProvider) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("api_key", p.apiKey)
	params.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("FRED API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

type seriesRow struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Units     string `json:"units"`
	Frequency string `json:"frequency"`
}

func (r seriesRow) toInfo() domain.SeriesInfo {
	return domain.SeriesInfo{ID: r.ID, Title: r.Title, Units: r.Units, Frequency: r.Frequency}
}

func parseObservations(body []byte, seriesID string) ([]domain.Observation, error) {
	var raw struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse observations for %s: %w", seriesID, err)
	}

	obs := make([]domain.Observation, 0, len(raw.Observations))
	for _, o := range raw.Observations {
		date, err := time.Parse(fredDateLayout, o.Date)
		if err != nil {
			continue
		}
		// "." marks a gap in the series.
		if o.Value == "." {
			obs = append(obs, domain.Observation{Date: date, Missing: true})
			continue
		}
		value, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			obs = append(obs, domain.Observation{Date: date, Missing: true})
			continue
		}
		obs = append(obs, domain.Observation{Date: date, Value: value})
	}
	return obs, nil
}
