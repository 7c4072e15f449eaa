package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"parking-orchestrator/internal/handler/httperr"
	"parking-orchestrator/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

var rateLimitHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}

type RateLimiter interface {
	Take(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimitMiddleware throttles each authenticated caller. Must run after RequireAuth.
// A limiter failure lets the request through.
type RateLimitMiddleware struct {
	limiter RateLimiter
	logger  *slog.Logger
}

func NewRateLimitMiddleware(limiter RateLimiter, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

func (m *RateLimitMiddleware) PerUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.Next()
			return
		}

		d, err := m.limiter.Take(c.Request.Context(), userID.String())
		if err != nil {
			m.logger.Warn("rate limiter unavailable, allowing request",
				"user_id", userID.String(),
				"error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

		if !d.Allowed {
			retryAfter := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			httperr.AbortWithError(c, http.StatusTooManyRequests, nil, "Too many booking requests, slow down", nil)
			return
		}
		c.Next()
	}
}
