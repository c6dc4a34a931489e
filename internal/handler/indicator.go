package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetIndicator returns series metadata plus the latest observation.
func (h *Handler) GetIndicator(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-indicator")
	defer span.End()

	seriesID := strings.ToUpper(c.Param("id"))
	span.SetAttributes(attribute.String("series_id", seriesID))

	report, err := h.indicators.GetData(ctx, seriesID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// SearchSeries runs a free-text series search; q is required.
func (h *Handler) SearchSeries(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search-series")
	defer span.End()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	span.SetAttributes(attribute.String("query", query))

	results, err := h.indicators.Search(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

// GetCorrelation computes the Pearson correlation between two series over a
// trailing window (days, default 90).
func (h *Handler) GetCorrelation(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-correlation")
	defer span.End()

	series1 := strings.ToUpper(strings.TrimSpace(c.Query("series1")))
	series2 := strings.ToUpper(strings.TrimSpace(c.Query("series2")))
	if series1 == "" || series2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "series1 and series2 are required"})
		return
	}

	days := 0
	if d := c.Query("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	r, points, err := h.indicators.Correlation(ctx, series1, series2, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if days == 0 {
		days = 90
	}
	c.JSON(http.StatusOK, gin.H{
		"series1":     series1,
		"series2":     series2,
		"days":        days,
		"correlation": r,
		"points":      points,
	})
}
