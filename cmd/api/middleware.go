package main

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/TejaNaik15/ai-interview-coach/internal/auth"
	"github.com/TejaNaik15/ai-interview-coach/internal/handler"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

// AuthMiddleware rejects requests without a valid bearer token.
func (app *application) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, app.Handler.TokenMaker)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(handler.ClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches claims when a valid token is present and
// lets anonymous requests through untouched. Invalid tokens are treated as
// anonymous rather than rejected.
func (app *application) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := verifyClaimsFromAuthHeader(c, app.Handler.TokenMaker); err == nil {
			c.Set(handler.ClaimsKey, claims)
		}
		c.Next()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, tokenMaker *auth.JWTMaker) (*auth.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	claims, err := tokenMaker.VerifyToken(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}

// RateLimitMiddleware keeps one token bucket per client IP.
func (app *application) RateLimitMiddleware() gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(app.Config.Limiter.RPS), app.Config.Limiter.Burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			response.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
