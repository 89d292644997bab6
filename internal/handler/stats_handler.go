package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eboard-api/internal/models"
	"github.com/noah-isme/eboard-api/pkg/response"
)

type statsService interface {
	Get(ctx context.Context) (*models.NoticeStats, error)
}

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler constructs a stats handler.
func NewStatsHandler(service statsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get godoc
// @Summary Notice counters
// @Tags Stats
// @Produce json
// @Success 200 {object} models.NoticeStats
// @Failure 500 {object} response.ErrorBody
// @Router /stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
