package api

import (
	"net/http"

	resdto "parking-orchestrator/internal/handler/dto/response"
	"parking-orchestrator/internal/handler/httperr"
	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	queries queries.LoyaltyQueries
}

func NewLoyaltyHandler(loyaltyQueries queries.LoyaltyQueries) *LoyaltyHandler {
	return &LoyaltyHandler{queries: loyaltyQueries}
}

// @Summary Get my loyalty account
// @Description Opens an account on first read. Administrators have none.
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.LoyaltyResponse
// @Success 201 {object} resdto.LoyaltyResponse "Account opened by this read"
// @Failure 404 {object} httperr.Response
// @Router /api/loyalty [get]
func (h *LoyaltyHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	view, err := h.queries.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	res, err := resdto.FromLoyaltyView(view)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	status := http.StatusOK
	if view.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}
