package api

import (
	"bunker/gym-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// Stats godoc
// @Summary Admin dashboard figures
// @Description Member and membership counts, this month's revenue, memberships about to expire and today's sessions.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapDashboardToResponse(stats))
}
