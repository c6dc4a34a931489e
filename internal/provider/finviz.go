package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"macro-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const finvizBaseURL = "https://finviz.com"

// FinvizProvider fetches chart images so the bot can re-upload the raw bytes
// and defeat the chat platform's link-preview cache.
type FinvizProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	now     func() time.Time
}

func NewFinvizProvider(tracer trace.Tracer) *FinvizProvider {
	return &FinvizProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: finvizBaseURL,
		tracer:  tracer,
		now:     time.Now,
	}
}

// ChartURL builds the deterministic chart image URL for a ticker and
// timeframe code (d, w, or m).
func (p *FinvizProvider) ChartURL(ticker, timeframe string) string {
	return fmt.Sprintf("%s/chart.ashx?t=%s&ty=c&ta=1&p=%s&s=l",
		p.baseURL, strings.ToUpper(ticker), timeframe)
}

// FetchChart attempts to download the chart image. On HTTP 200 the result
// carries the raw bytes and a timestamped filename; on any other status or a
// network failure it carries the direct URL with a cache-busting parameter.
// Both outcomes are completions, not errors.
func (p *FinvizProvider) FetchChart(ctx context.Context, ticker, timeframe string) domain.ChartResult {
	_, span := p.tracer.Start(ctx, "finviz.fetch-chart")
	defer span.End()

	upper := strings.ToUpper(ticker)
	chartURL := p.ChartURL(upper, timeframe)
	result := domain.ChartResult{Ticker: upper, Timeframe: timeframe}

	image, err := p.download(ctx, chartURL, upper, timeframe)
	if err != nil {
		result.FallbackURL = fmt.Sprintf("%s&rand=%d", chartURL, p.now().Unix())
		return result
	}

	result.Image = image
	result.FileName = fmt.Sprintf("%s_%s_%d.png", upper, timeframe, p.now().Unix())
	return result
}

func (p *FinvizProvider) download(ctx context.Context, chartURL, ticker, timeframe string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return nil, err
	}
	// Finviz serves charts to browsers only.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36")
	req.Header.Set("Referer", fmt.Sprintf("%s/quote.ashx?t=%s&p=%s", p.baseURL, ticker, timeframe))
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finviz returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
