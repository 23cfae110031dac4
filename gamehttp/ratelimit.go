package gamehttp

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// moveLimiters hands out one token bucket per session so a client stuck in a
// hot retry loop cannot hammer the mutation endpoint.
type moveLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newMoveLimiters(limit rate.Limit, burst int) *moveLimiters {
	return &moveLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (ml *moveLimiters) get(playerID string) *rate.Limiter {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	limiter, ok := ml.limiters[playerID]
	if !ok {
		limiter = rate.NewLimiter(ml.limit, ml.burst)
		ml.limiters[playerID] = limiter
	}
	return limiter
}

// RateLimitMiddleware rejects move submissions beyond limit/burst per player.
func RateLimitMiddleware(limit rate.Limit, burst int) gin.HandlerFunc {
	limiters := newMoveLimiters(limit, burst)
	return func(ctx *gin.Context) {
		id := ctx.GetString("id")
		if id != "" && !limiters.get(id).Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too-many-requests"})
			return
		}
		ctx.Next()
	}
}
