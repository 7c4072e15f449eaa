package api

import (
	"net/http"

	resdto "parking-orchestrator/internal/handler/dto/response"
	"parking-orchestrator/internal/handler/httperr"
	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	queries queries.DashboardQueries
}

func NewDashboardHandler(dashboardQueries queries.DashboardQueries) *DashboardHandler {
	return &DashboardHandler{queries: dashboardQueries}
}

// @Summary Administrator dashboard
// @Description Today's occupancy, active reservations and revenue for the administrator's lot.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.DashboardResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/admin/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	view, err := h.queries.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	res, err := resdto.FromDashboardView(view)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Revenue report
// @Description Revenue of the administrator's lot for today, the last 7 days and the last 30 days, with the 5 most recent entries for a chart.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RevenueReportResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/admin/revenue [get]
func (h *DashboardHandler) Revenue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	report, err := h.queries.Revenue(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	res, err := resdto.FromRevenueReport(report)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
