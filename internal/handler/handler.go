// Package handler holds the gin HTTP handlers for every API surface:
// accounts, question selection, interview actions, sessions, dashboard
// reads and billing.
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TejaNaik15/ai-interview-coach/internal/auth"
	"github.com/TejaNaik15/ai-interview-coach/internal/config"
	"github.com/TejaNaik15/ai-interview-coach/internal/interview"
	"github.com/TejaNaik15/ai-interview-coach/internal/questionbank"
	"github.com/TejaNaik15/ai-interview-coach/internal/repository"
)

// ClaimsKey is the gin context key the auth middleware stores verified
// claims under.
const ClaimsKey = "claims"

type Handler struct {
	Logger     *zap.Logger
	Users      repository.UserStore
	Sessions   repository.SessionStore
	TokenMaker *auth.JWTMaker
	TokenTTL   time.Duration
	Interview  *interview.Service
	Bank       *questionbank.Bank
	Registry   *interview.Registry
	Redis      *redis.Client
	Stripe     config.StripeConfig
}

// GetClaimsFromContext retrieves the verified token claims set by the auth
// middleware, or nil for anonymous requests.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
