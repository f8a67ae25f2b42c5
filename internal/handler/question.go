package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/TejaNaik15/ai-interview-coach/internal/questionbank"
	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

type questionReq struct {
	Track      model.Track      `json:"track"`
	Difficulty model.Difficulty `json:"difficulty" binding:"required"`
	AskedIDs   []string         `json:"asked_ids"`
}

// NextQuestion picks an unseen coding question from the bank, preferring
// the track-specific pool.
func (h *Handler) NextQuestion(c *gin.Context) {
	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !model.ValidDifficulty(req.Difficulty) {
		response.BadRequest(c, "Invalid difficulty. Use easy|medium|hard.")
		return
	}

	q, err := h.Bank.Select(req.Difficulty, req.Track, req.AskedIDs)
	if err != nil {
		if errors.Is(err, questionbank.ErrNoUnseen) {
			response.NotFound(c, "No more unseen questions for this difficulty.")
			return
		}
		h.Logger.Sugar().Errorw("question selection failed", "difficulty", req.Difficulty, "err", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, q)
}
