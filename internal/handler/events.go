package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetEvents returns the cached upcoming releases. The list is whatever the
// last successful refresh published; an empty list means no refresh has
// succeeded yet.
func (h *Handler) GetEvents(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-events")
	defer span.End()

	events := h.events.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}
