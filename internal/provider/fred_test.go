package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func testFredProvider(serverURL string) *FredProvider {
	p := NewFredProvider("test-key", trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = serverURL
	return p
}

func TestObservations(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"observations":[
			{"date":"2024-05-01","value":"3.4"},
			{"date":"2024-05-02","value":"."},
			{"date":"2024-05-03","value":"3.6"}
		]}`))
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	obs, err := p.Observations(context.Background(), "UNRATE", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/series/observations" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	for _, want := range []string{"series_id=UNRATE", "api_key=test-key", "file_type=json", "observation_start=2024-05-01", "observation_end=2024-05-31"} {
		if !contains(gotQuery, want) {
			t.Fatalf("query missing %q: %s", want, gotQuery)
		}
	}

	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}
	if obs[0].Value != 3.4 || obs[0].Missing {
		t.Fatalf("unexpected first observation: %+v", obs[0])
	}
	if !obs[1].Missing {
		t.Fatal("expected '.' value to be marked missing")
	}
	if obs[2].Value != 3.6 {
		t.Fatalf("unexpected last observation: %+v", obs[2])
	}
}

func TestLatestObservationSkipsMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contains(r.URL.RawQuery, "sort_order=desc") {
			t.Errorf("expected descending sort, got %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"observations":[
			{"date":"2024-05-03","value":"."},
			{"date":"2024-05-02","value":"97.25"}
		]}`))
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	obs, err := p.LatestObservation(context.Background(), "DCOILWTICO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Value != 97.25 || obs.Missing {
		t.Fatalf("unexpected observation: %+v", obs)
	}
}

func TestLatestObservationAllMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"date":"2024-05-03","value":"."}]}`))
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	if _, err := p.LatestObservation(context.Background(), "GDP"); err == nil {
		t.Fatal("expected error when every observation is missing")
	}
}

func TestSeriesInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"seriess":[{"id":"VIXCLS","title":"CBOE Volatility Index: VIX","units":"Index","frequency":"Daily, Close"}]}`))
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	info, err := p.SeriesInfo(context.Background(), "VIXCLS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "CBOE Volatility Index: VIX" || info.Units != "Index" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestSeriesInfoUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"seriess":[]}`))
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	if _, err := p.SeriesInfo(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for unknown series")
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contains(r.URL.RawQuery, "search_text=treasury+yield") || !contains(r.URL.RawQuery, "limit=5") {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"seriess":[
			{"id":"DGS10","title":"10-Year Treasury","units":"Percent","frequency":"Daily"},
			{"id":"DGS2","title":"2-Year Treasury","units":"Percent","frequency":"Daily"}
		]}`))
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	results, err := p.Search(context.Background(), "treasury yield", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].ID != "DGS10" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer server.Close()

	p := testFredProvider(server.URL)
	if _, err := p.Observations(context.Background(), "GDP", time.Time{}, time.Time{}); err == nil {
		t.Fatal("expected error on 403")
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
