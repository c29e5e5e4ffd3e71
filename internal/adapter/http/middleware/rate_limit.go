package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sasa_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Limiter is satisfied by cache.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RetryAfter(ctx context.Context, key string) time.Duration
}

var errRateLimited = pkg.NewDomainErrorSimple("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)

// RateLimit throttles per user when Auth ran first, otherwise per client IP.
// Limiter errors let the request through. onReject may be nil.
func RateLimit(limiter Limiter, onReject func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if identity, ok := IdentityFrom(c); ok {
			key = "user:" + identity.UserID
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[ratelimit][middleware] limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			if onReject != nil {
				onReject()
			}
			retry := limiter.RetryAfter(c.Request.Context(), key)
			c.Header("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
			c.AbortWithStatusJSON(errRateLimited.HTTPStatus, errRateLimited.ToHTTPError())
			return
		}
		c.Next()
	}
}
