package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/TejaNaik15/ai-interview-coach/internal/interview"
	"github.com/TejaNaik15/ai-interview-coach/internal/metrics"
	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

// InterviewAction dispatches the three AI interview actions. Model
// failures surface as tagged fallback payloads, never as 5xx.
func (h *Handler) InterviewAction(c *gin.Context) {
	var req model.InterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case model.ActionGenerateQuestion:
		res := h.Interview.GenerateQuestion(ctx, req)
		countFallback(req.Action, res.Source)
		response.OK(c, res)

	case model.ActionEvaluateAnswer:
		if !h.beginSubmission(c, req.SessionID) {
			return
		}
		defer h.endSubmission(req.SessionID)
		res := h.Interview.EvaluateAnswer(ctx, req)
		countFallback(req.Action, res.Source)
		response.OK(c, res)

	case model.ActionEvaluateCode:
		if !h.beginSubmission(c, req.SessionID) {
			return
		}
		defer h.endSubmission(req.SessionID)
		res := h.Interview.EvaluateCode(ctx, req)
		countFallback(req.Action, res.Source)
		response.OK(c, res)

	default:
		response.BadRequest(c, "unknown action")
	}
}

func countFallback(action model.InterviewAction, source model.ResultSource) {
	if source == model.SourceFallback {
		metrics.RecordFallback(string(action))
	}
}

// beginSubmission claims the session's single evaluation slot. Requests
// without a session id skip the guard. Writes the error response on
// rejection and reports whether the caller may proceed.
func (h *Handler) beginSubmission(c *gin.Context, sessionID string) bool {
	if sessionID == "" {
		return true
	}
	tracker := h.Registry.Get(sessionID)
	if tracker == nil {
		return true
	}

	err := tracker.BeginSubmission()
	switch {
	case err == nil:
		return true
	case errors.Is(err, interview.ErrSubmissionInFlight):
		response.TooManyRequests(c, "an evaluation for this session is already in progress")
	case errors.Is(err, interview.ErrNotActive):
		response.Conflict(c, "session is not active")
	default:
		response.InternalError(c, "")
	}
	return false
}

func (h *Handler) endSubmission(sessionID string) {
	if sessionID == "" {
		return
	}
	if tracker := h.Registry.Get(sessionID); tracker != nil {
		tracker.EndSubmission()
	}
}
