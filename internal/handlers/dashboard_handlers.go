package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pabloubeiracarramal/factor-back/internal/common"
	"github.com/pabloubeiracarramal/factor-back/internal/services"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// GetStats handles GET /dashboard/stats.
func (h *DashboardHandlers) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	stats, err := h.dashboardService.GetStats(ctx, companyID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
