package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/go-petr/pet-ledger/pkg/web"
)

// ErrRateLimited is returned when the server is over its request budget.
var ErrRateLimited = errors.New("too many requests")

// RateLimit rejects requests above rps requests per second with bursts of burst.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			zerolog.Ctx(c.Request.Context()).Warn().Msg("request rate limited")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, web.Error(ErrRateLimited))

			return
		}

		c.Next()
	}
}
