package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/munirag/munirag/internal/pkg/response"
	"github.com/munirag/munirag/internal/repo"
)

// QueryLogHandler exposes the recent question history for the admin UI.
type QueryLogHandler struct {
	querylogs *repo.QueryLogRepo
}

func NewQueryLogHandler(querylogs *repo.QueryLogRepo) *QueryLogHandler {
	return &QueryLogHandler{querylogs: querylogs}
}

func (h *QueryLogHandler) ListRecent(c *gin.Context) {
	limit := 0
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	entries, err := h.querylogs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	// vectors are internal detail, not part of the admin view
	for i := range entries {
		entries[i].QueryVector = nil
	}
	response.Success(c, gin.H{"querylogs": entries})
}
