//go:build unit

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/infra/ratelimit"
	"parking-orchestrator/internal/pkg/jwt"
	"parking-orchestrator/internal/testutil/httptest"
	"parking-orchestrator/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoCaller(c *gin.Context) {
	id, ok := middleware.GetUserID(c)
	token, _ := jwt.AccessTokenFrom(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "ok": ok, "token": token})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := jwt.NewService("test-secret", "", "authenticated", time.Hour)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(svc), discardLogger())

	router := gin.New()
	router.GET("/me", auth.RequireAuth(), echoCaller)

	t.Run("valid bearer token sets the caller and forwards the token", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.GenerateToken(userID, "authenticated")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)

		var body map[string]any
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, token, body["token"])
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := jwt.NewService("other-secret", "", "authenticated", time.Hour)
		token, err := other.GenerateToken(uuid.New(), "authenticated")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (f *fakeLimiter) Take(_ context.Context, key string) (ratelimit.Decision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	newRouter := func(l *fakeLimiter) *gin.Engine {
		router := gin.New()
		setCaller := func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		}
		rl := middleware.NewRateLimitMiddleware(l, discardLogger())
		router.POST("/api/bookings", setCaller, rl.PerUser(), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return router
	}

	t.Run("allowed request carries the remaining budget", func(t *testing.T) {
		l := &fakeLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9}}
		rec := httptest.PerformRequest(t, newRouter(l), http.MethodPost, "/api/bookings", nil, "")

		assert.Equal(t, http.StatusCreated, rec.Code)
		httptest.AssertHeaders(t, rec, map[string]string{
			"X-RateLimit-Limit":     "10",
			"X-RateLimit-Remaining": "9",
		})
		assert.Equal(t, []string{userID.String()}, l.keys)
	})

	t.Run("empty bucket answers 429 with Retry-After", func(t *testing.T) {
		l := &fakeLimiter{decision: ratelimit.Decision{Allowed: false, Limit: 10, RetryAfter: 1500 * time.Millisecond}}
		rec := httptest.PerformRequest(t, newRouter(l), http.MethodPost, "/api/bookings", nil, "")

		httptest.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "slow down")
		httptest.AssertHeaders(t, rec, map[string]string{
			"Retry-After":           "2",
			"X-RateLimit-Remaining": "0",
		})
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		l := &fakeLimiter{err: errors.New("redis: connection refused")}
		rec := httptest.PerformRequest(t, newRouter(l), http.MethodPost, "/api/bookings", nil, "")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})
}

func TestLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware(discardLogger()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": middleware.GetRequestID(c)})
	})

	rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/health", nil, "", map[string]string{"X-Request-ID": "req-1"})

	var body map[string]string
	httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
	assert.Equal(t, "req-1", body["request_id"])
	httptest.AssertHeaders(t, rec, map[string]string{"X-Request-ID": "req-1"})
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CustomRecovery(discardLogger()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/boom", nil, "")
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}
