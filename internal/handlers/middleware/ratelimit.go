package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ErrRateLimited indica que o limite de requisições foi excedido
var ErrRateLimited = stderrors.New("problem.too_many_requests")

// RateLimit aplica um token bucket compartilhado pela rota.
// Valores não positivos usam 1 requisição por segundo e burst 1.
func RateLimit(ratePerSecond float64, burst int) gin.HandlerFunc {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(ratePerSecond), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			_ = c.Error(ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
