package handler

import (
	"context"

	"macro-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type EventSource interface {
	Snapshot() []domain.EventRecord
}

type IndicatorSource interface {
	GetData(ctx context.Context, seriesID string) (*domain.IndicatorReport, error)
	Search(ctx context.Context, text string) ([]domain.SearchResult, error)
	Correlation(ctx context.Context, series1, series2 string, days int) (float64, int, error)
}

type Handler struct {
	tracer     trace.Tracer
	events     EventSource
	indicators IndicatorSource
}

func New(tracer trace.Tracer, events EventSource, indicators IndicatorSource) *Handler {
	return &Handler{
		tracer:     tracer,
		events:     events,
		indicators: indicators,
	}
}

// RegisterRoutes mounts the health probe openly and the API behind optional
// X-API-Key auth (disabled when apiKey is empty).
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/events", h.GetEvents)
	api.GET("/indicators/:id", h.GetIndicator)
	api.GET("/search", h.SearchSeries)
	api.GET("/correlation", h.GetCorrelation)
}
