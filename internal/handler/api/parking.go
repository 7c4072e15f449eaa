package api

import (
	"net/http"

	resdto "parking-orchestrator/internal/handler/dto/response"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ParkingHandler struct {
	queries queries.ParkingQueries
}

func NewParkingHandler(parkingQueries queries.ParkingQueries) *ParkingHandler {
	return &ParkingHandler{queries: parkingQueries}
}

// @Summary List parkings
// @Tags parkings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ParkingResponse
// @Failure 503 {object} httperr.Response
// @Router /api/parkings [get]
func (h *ParkingHandler) List(c *gin.Context) {
	views, err := h.queries.List(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	res, err := resdto.FromParkingList(views)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get a parking
// @Tags parkings
// @Produce json
// @Security BearerAuth
// @Param name path string true "Parking name"
// @Success 200 {object} resdto.ParkingResponse
// @Failure 404 {object} httperr.Response
// @Router /api/parkings/{name} [get]
func (h *ParkingHandler) Get(c *gin.Context) {
	view, err := h.queries.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	res, err := resdto.FromParkingView(view)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
