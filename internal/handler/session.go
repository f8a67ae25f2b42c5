package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TejaNaik15/ai-interview-coach/internal/repository"
	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

// SessionAction starts or ends an interview session.
func (h *Handler) SessionAction(c *gin.Context) {
	var req model.SessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	switch req.Action {
	case model.SessionActionStart:
		h.startSession(c, req)
	case model.SessionActionEnd:
		h.endSession(c, req)
	default:
		response.BadRequest(c, "unknown action")
	}
}

type startSessionRes struct {
	SessionID string             `json:"session_id"`
	Greeting  string             `json:"greeting"`
	Source    model.ResultSource `json:"source"`
}

func (h *Handler) startSession(c *gin.Context, req model.SessionReq) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if req.Track == "" || req.Mode == "" {
		response.BadRequest(c, "track and mode are required")
		return
	}
	if req.Difficulty != "" && !model.ValidDifficulty(req.Difficulty) {
		response.BadRequest(c, "Invalid difficulty. Use easy|medium|hard.")
		return
	}

	ctx := c.Request.Context()
	session := &model.InterviewSession{
		UserID:     user.UserID,
		Track:      req.Track,
		Difficulty: req.Difficulty,
		Mode:       req.Mode,
	}
	id, err := h.Sessions.Start(ctx, session)
	if err != nil {
		h.Logger.Sugar().Errorw("session start failed", "user", user.UserID.Hex(), "err", err)
		response.InternalError(c, "could not start session")
		return
	}

	greeting, source := h.Interview.Greeting(ctx, req.Track, req.Difficulty)

	tracker, err := h.Registry.Create(id.Hex(), req.Track, req.Difficulty, req.Mode)
	if err != nil {
		// A collision on a fresh ObjectID should not happen.
		h.Logger.Sugar().Errorw("tracker create failed", "session", id.Hex(), "err", err)
		response.InternalError(c, "")
		return
	}
	tracker.AddMessage(model.AuthorAI, greeting)

	response.Created(c, startSessionRes{
		SessionID: id.Hex(),
		Greeting:  greeting,
		Source:    source,
	})
}

func (h *Handler) endSession(c *gin.Context, req model.SessionReq) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}

	messages := req.Messages
	track := req.Track
	if tracker := h.Registry.Get(req.SessionID); tracker != nil {
		snap := tracker.Snapshot()
		if messages == nil {
			messages = snap.Messages
		}
		if track == "" {
			track = snap.Track
		}
	}
	if messages == nil {
		messages = []model.Message{}
	}

	ctx := c.Request.Context()
	if track == "" {
		if stored, gerr := h.Sessions.GetByID(ctx, id, user.UserID); gerr == nil {
			track = stored.Track
		}
	}

	scorecard, feedback, source := h.Interview.Scorecard(ctx, track, messages)

	err = h.Sessions.End(ctx, id, user.UserID, repository.EndUpdate{
		Duration:  req.Duration,
		Messages:  messages,
		Scorecard: scorecard,
		Feedback:  feedback,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.Logger.Sugar().Errorw("session end failed", "session", req.SessionID, "err", err)
		response.InternalError(c, "could not end session")
		return
	}

	if tracker := h.Registry.Get(req.SessionID); tracker != nil {
		_ = tracker.End()
	}
	h.Registry.Remove(req.SessionID)

	response.OK(c, endSessionRes{
		Message:   "session completed",
		Scorecard: scorecard,
		Feedback:  feedback,
		Source:    source,
	})
}

type endSessionRes struct {
	Message   string             `json:"message"`
	Scorecard *model.Scorecard   `json:"scorecard"`
	Feedback  *model.Feedback    `json:"feedback"`
	Source    model.ResultSource `json:"source"`
}

type scoreRes struct {
	Score  int                `json:"score"`
	Source model.ResultSource `json:"source"`
}

// Score produces the holistic session score and patches it onto the stored
// session. Model failure degrades to the documented default rather than an
// error, and re-scoring a session is a no-op.
func (h *Handler) Score(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req model.ScoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}

	ctx := c.Request.Context()
	score, source := h.Interview.Score(ctx, req.Mode, req.Messages)

	if err := h.Sessions.ApplyScore(ctx, id, user.UserID, score); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		// The score is still useful to the client even if the patch failed.
		h.Logger.Sugar().Errorw("score persist failed", "session", req.SessionID, "err", err)
	}

	response.OK(c, scoreRes{Score: score, Source: source})
}
