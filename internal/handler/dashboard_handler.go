package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
	"github.com/ekos-sistemi/ekos-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

// DashboardHandler serves aggregated counters for the landing page.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "dashboard service not configured"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
