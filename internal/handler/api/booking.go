package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	reqdto "parking-orchestrator/internal/handler/dto/request"
	resdto "parking-orchestrator/internal/handler/dto/response"
	"parking-orchestrator/internal/handler/httperr"
	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/commands"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const maxIdempotencyKeyLength = 255

type BookingHandler struct {
	commands        commands.BookingCommands
	attempts        queries.AttemptQueries
	clock           clock.Clock
	defaultDuration time.Duration
	logger          *slog.Logger
}

func NewBookingHandler(
	bookingCommands commands.BookingCommands,
	attemptQueries queries.AttemptQueries,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		commands:        bookingCommands,
		attempts:        attemptQueries,
		clock:           clk,
		defaultDuration: time.Duration(cfg.DefaultDurationMinutes) * time.Minute,
		logger:          logger,
	}
}

// @Summary Book a parking slot
// @Description Reserves a slot, then updates the lot's occupancy and the caller's loyalty points.
// @Description Retrying with the same Idempotency-Key never creates a second reservation.
// @Description Without the header the key is derived from parking_name, start_time and end_time.
// @Description A request that omits start_time starts now, so each retry derives a new key;
// @Description send Idempotency-Key or an explicit start_time to have retries deduplicated.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key; derived from parking_name, start_time and end_time when omitted"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Replay of an earlier booking"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	idempotencyKey := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "Idempotency-Key is too long", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	params, err := req.ToParams(userID, idempotencyKey, h.clock.Now(), h.defaultDuration)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid price", nil)
		return
	}

	result := h.commands.AttemptBooking(c.Request.Context(), params)
	if result.Attempt.Key != "" {
		c.Header(middleware.IdempotencyKeyHeader, result.Attempt.Key)
	}

	if !result.Succeeded() {
		h.logger.Info("booking rejected",
			"request_id", middleware.GetRequestID(c),
			"parking", params.ResourceID,
			"reason", result.Reason,
			"error_class", string(errs.Classify(result.Err)))
		respondError(c, result.Err, gin.H{"reason": result.Reason, "idempotency_key": result.Attempt.Key})
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingResult(result))
}

// @Summary Get a booking attempt
// @Description Returns the journaled outcome of the caller's booking with this idempotency key.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param key path string true "Idempotency key"
// @Success 200 {object} resdto.AttemptResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{key} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	view, err := h.attempts.GetByKey(c.Request.Context(), c.Param("key"), userID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAttemptView(view))
}
