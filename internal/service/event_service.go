package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"macro-pulse/internal/catalog"
	"macro-pulse/internal/domain"
	"macro-pulse/internal/format"
	"macro-pulse/internal/schedule"

	"go.opentelemetry.io/otel/trace"
)

const observationLookbackDays = 30

// SeriesGateway is the time-series provider as seen by the services.
type SeriesGateway interface {
	Observations(ctx context.Context, seriesID string, start, end time.Time) ([]domain.Observation, error)
	LatestObservation(ctx context.Context, seriesID string) (domain.Observation, error)
	SeriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error)
	Search(ctx context.Context, text string, limit int) ([]domain.SeriesInfo, error)
}

// EventService owns the upcoming-release cache. The cache is a slice
// replaced wholesale under the write lock; Snapshot hands out the current
// slice, so readers always see one complete refresh and never a partial one.
type EventService struct {
	tracer  trace.Tracer
	gateway SeriesGateway
	catalog *catalog.Catalog
	cache   *seriesCache
	loc     *time.Location
	now     func() time.Time

	mu     sync.RWMutex
	events []domain.EventRecord
}

func NewEventService(
	tracer trace.Tracer,
	gateway SeriesGateway,
	cat *catalog.Catalog,
	redisClient RedisClient,
	loc *time.Location,
) *EventService {
	return &EventService{
		tracer:  tracer,
		gateway: gateway,
		catalog: cat,
		cache:   newSeriesCache(redisClient),
		loc:     loc,
		now:     time.Now,
	}
}

// Snapshot returns the current event list, ordered by scheduled date. The
// returned slice is never mutated after publication; callers must not
// modify it.
func (s *EventService) Snapshot() []domain.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// Refresh rebuilds the event cache: one record per catalog indicator, all
// scheduled for the next applicable business day. A failing indicator is
// logged and skipped; the cache is only replaced when at least one record
// was built, so a dead provider leaves the previous snapshot intact.
func (s *EventService) Refresh(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "event-service.refresh")
	defer span.End()

	releaseDate := schedule.NextReleaseDate(s.now(), s.loc)

	var records []domain.EventRecord
	failures := 0
	for _, spec := range s.catalog.All() {
		rec, err := s.buildRecord(ctx, spec, releaseDate)
		if err != nil {
			failures++
			log.Printf("event refresh: %s skipped: %v", spec.SeriesID, err)
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return fmt.Errorf("event refresh produced no records (%d indicators failed)", failures)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].ScheduledAt.Equal(records[j].ScheduledAt) {
			return records[i].ScheduledAt.Before(records[j].ScheduledAt)
		}
		return records[i].SeriesID < records[j].SeriesID
	})

	s.mu.Lock()
	s.events = records
	s.mu.Unlock()

	log.Printf("Refreshed %d upcoming events for %s (%d failures)",
		len(records), releaseDate.Format("2006-01-02"), failures)
	return nil
}

func (s *EventService) buildRecord(ctx context.Context, spec domain.IndicatorSpec, releaseDate time.Time) (domain.EventRecord, error) {
	info, err := s.seriesInfo(ctx, spec.SeriesID)
	if err != nil {
		return domain.EventRecord{}, err
	}

	end := s.now()
	start := end.AddDate(0, 0, -observationLookbackDays)
	obs, err := s.gateway.Observations(ctx, spec.SeriesID, start, end)
	if err != nil {
		return domain.EventRecord{}, err
	}

	value, missing := latestKnown(obs)
	if missing {
		latest, err := s.gateway.LatestObservation(ctx, spec.SeriesID)
		switch {
		case err == nil:
			value, missing = latest.Value, false
		case errors.Is(err, domain.ErrNoObservations):
			// Series genuinely has no data; the event still lists with N/A.
		default:
			return domain.EventRecord{}, err
		}
	}

	return domain.EventRecord{
		ScheduledAt: releaseDate,
		HasTime:     false,
		Title:       spec.Label,
		SeriesID:    spec.SeriesID,
		Impact:      spec.Impact,
		Previous:    format.Value(spec.SeriesID, value, missing, info.Units),
	}, nil
}

func (s *EventService) seriesInfo(ctx context.Context, seriesID string) (*domain.SeriesInfo, error) {
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

// latestKnown returns the most recent non-missing value from observations
// ordered ascending by date.
func latestKnown(obs []domain.Observation) (float64, bool) {
	for i := len(obs) - 1; i >= 0; i-- {
		if !obs[i].Missing {
			return obs[i].Value, false
		}
	}
	return 0, true
}
