package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"macro-pulse/internal/domain"
	"macro-pulse/internal/format"

	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"
)

const (
	searchResultLimit      = 5
	defaultCorrelationDays = 90
)

// IndicatorService answers the on-demand data queries: getdata, search, and
// correlation.
type IndicatorService struct {
	tracer  trace.Tracer
	gateway SeriesGateway
	cache   *seriesCache
	now     func() time.Time
}

func NewIndicatorService(tracer trace.Tracer, gateway SeriesGateway, redisClient RedisClient) *IndicatorService {
	return &IndicatorService{
		tracer:  tracer,
		gateway: gateway,
		cache:   newSeriesCache(redisClient),
		now:     time.Now,
	}
}

// GetData returns series metadata plus the latest known observation.
func (s *IndicatorService) GetData(ctx context.Context, seriesID string) (*domain.IndicatorReport, error) {
	_, span := s.tracer.Start(ctx, "indicator-service.get-data")
	defer span.End()

	info, err := s.seriesInfo(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	latest := s.cache.getLatest(ctx, seriesID)
	if latest == nil {
		obs, err := s.gateway.LatestObservation(ctx, seriesID)
		if err != nil {
			return nil, err
		}
		s.cache.putLatest(ctx, seriesID, obs)
		latest = &obs
	}

	return &domain.IndicatorReport{
		Info:        *info,
		LatestValue: latest.Value,
		LatestDate:  latest.Date,
	}, nil
}

// Search runs a free-text series search and rewrites each row for display:
// truncated title, cleaned frequency, compact units.
func (s *IndicatorService) Search(ctx context.Context, text string) ([]domain.SearchResult, error) {
	_, span := s.tracer.Start(ctx, "indicator-service.search")
	defer span.End()

	infos, err := s.gateway.Search(ctx, text, searchResultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(infos))
	for _, info := range infos {
		results = append(results, domain.SearchResult{
			SeriesID:  info.ID,
			Title:     format.TruncateTitle(info.Title),
			Frequency: format.Frequency(info.Frequency),
			Units:     format.SearchUnits(info.Units),
		})
	}
	return results, nil
}

// Correlation computes the Pearson correlation between two series over the
// trailing window, aligning observations by date. It returns the coefficient
// and the number of overlapping points.
func (s *IndicatorService) Correlation(ctx context.Context, series1, series2 string, days int) (float64, int, error) {
	_, span := s.tracer.Start(ctx, "indicator-service.correlation")
	defer span.End()

	if days <= 0 {
		days = defaultCorrelationDays
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)

	obs1, err := s.gateway.Observations(ctx, series1, start, end)
	if err != nil {
		return 0, 0, err
	}
	obs2, err := s.gateway.Observations(ctx, series2, start, end)
	if err != nil {
		return 0, 0, err
	}

	xs, ys := alignByDate(obs1, obs2)
	n := len(xs)
	if n < 2 {
		return 0, n, fmt.Errorf("need at least 2 overlapping observations, got %d", n)
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, n, fmt.Errorf("correlation undefined for %s and %s (constant series)", series1, series2)
	}
	return r, n, nil
}

func (s *IndicatorService) seriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error) {
	if info := s.cache.getInfo(ctx, seriesID); info != nil {
		return info, nil
	}
	info, err := s.gateway.SeriesInfo(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	s.cache.putInfo(ctx, info)
	return info, nil
}

// alignByDate pairs up the non-missing values the two series share a date
// for, preserving ascending date order.
func alignByDate(obs1, obs2 []domain.Observation) ([]float64, []float64) {
	byDate := make(map[string]float64, len(obs1))
	for _, o := range obs1 {
		if !o.Missing {
			byDate[o.Date.Format("2006-01-02")] = o.Value
		}
	}

	var xs, ys []float64
	for _, o := range obs2 {
		if o.Missing {
			continue
		}
		if v, ok := byDate[o.Date.Format("2006-01-02")]; ok {
			xs = append(xs, v)
			ys = append(ys, o.Value)
		}
	}
	return xs, ys
}
