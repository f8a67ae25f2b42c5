package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

// Healthz is the liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}
