package api

import (
	"net/http"

	reqdto "parking-orchestrator/internal/handler/dto/request"
	resdto "parking-orchestrator/internal/handler/dto/response"
	"parking-orchestrator/internal/handler/httperr"
	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	queries queries.ReservationQueries
}

func NewReservationHandler(reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{queries: reservationQueries}
}

// @Summary List my reservations
// @Description Newest start first, paged with an opaque cursor.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param parking query string false "Only this parking"
// @Param active query bool false "Only pending or confirmed reservations"
// @Param after query string false "Cursor from the previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/reservations [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	var q reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	items, next, err := h.queries.ListMine(c.Request.Context(), userID, q.Filters(), q.Cursor(), q.Limit)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	res, err := resdto.FromReservationList(items, next)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
