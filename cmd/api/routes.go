package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TejaNaik15/ai-interview-coach/internal/metrics"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	})

	r.Use(app.CORSMiddleware())
	if app.Config.Limiter.Enabled {
		r.Use(app.RateLimitMiddleware())
	}

	r.GET("/healthz", app.Handler.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)

		// Stripe calls this, not browsers; it authenticates with its
		// signature header.
		v1.POST("/billing/webhook", app.Handler.Webhook)
	}

	// Dashboard reads render for anonymous visitors with zeroed data.
	dashboard := v1.Group("/dashboard")
	dashboard.Use(app.OptionalAuthMiddleware())
	{
		dashboard.GET("/stats", app.Handler.Stats)
		dashboard.GET("/interviews", app.Handler.RecentInterviews)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", app.Handler.Me)

		protected.POST("/question", app.Handler.NextQuestion)
		protected.POST("/interview", app.Handler.InterviewAction)
		protected.POST("/session", app.Handler.SessionAction)
		protected.POST("/score", app.Handler.Score)

		protected.POST("/billing/checkout", app.Handler.CreateCheckout)
		protected.GET("/billing/subscription", app.Handler.Subscription)
	}

	return r
}

func (app *application) CORSMiddleware() gin.HandlerFunc {
	trusted := app.Config.GetCORSOrigins()

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, t := range trusted {
			if t == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
				c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
				break
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
