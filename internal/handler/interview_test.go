package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

func interviewRouter(f *fixture) *gin.Engine {
	r := gin.New()
	r.POST("/interview", f.handler.InterviewAction)
	return r
}

func TestInterviewGenerateQuestion(t *testing.T) {
	f := newFixture(t)
	f.gen.output = `{"question": "How does connection pooling work?"}`
	r := interviewRouter(f)

	rec := doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action: model.ActionGenerateQuestion,
		Mode:   model.ModeText,
		Track:  model.TrackBackend,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.QuestionRes
	decodeData(t, rec, &res)
	assert.Equal(t, "How does connection pooling work?", res.Question)
	assert.Equal(t, model.SourceModel, res.Source)
}

func TestInterviewGenerateQuestionModelDown(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("model unavailable")
	r := interviewRouter(f)

	rec := doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action: model.ActionGenerateQuestion,
		Mode:   model.ModeText,
		Track:  model.TrackBackend,
	})
	// Model failure degrades to a canned question, never a 5xx.
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.QuestionRes
	decodeData(t, rec, &res)
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.NotEmpty(t, res.Question)
}

func TestInterviewEvaluateAnswer(t *testing.T) {
	f := newFixture(t)
	f.gen.output = `{"score": 8, "feedback": "good", "strengths": ["s"], "weaknesses": ["w"]}`
	r := interviewRouter(f)

	rec := doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action:       model.ActionEvaluateAnswer,
		Mode:         model.ModeText,
		Context:      "Explain indexes.",
		UserResponse: "They speed up lookups at write cost.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.EvaluationRes
	decodeData(t, rec, &res)
	assert.Equal(t, 8, res.Score)
}

func TestInterviewEvaluateCodeEmptySubmission(t *testing.T) {
	f := newFixture(t)
	r := interviewRouter(f)

	rec := doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action:       model.ActionEvaluateCode,
		Mode:         model.ModeCode,
		UserResponse: "1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.EvaluationRes
	decodeData(t, rec, &res)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, model.SourceFallback, res.Source)
}

func TestInterviewUnknownAction(t *testing.T) {
	f := newFixture(t)
	r := interviewRouter(f)

	rec := doJSON(t, r, http.MethodPost, "/interview", gin.H{"action": "self-destruct"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewSubmissionGuard(t *testing.T) {
	f := newFixture(t)
	r := interviewRouter(f)

	_, err := f.handler.Registry.Create("sess-1", model.TrackBackend, model.DifficultyEasy, model.ModeText)
	require.NoError(t, err)

	// Claim the slot as a concurrent request would.
	require.NoError(t, f.handler.Registry.Get("sess-1").BeginSubmission())

	rec := doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action:       model.ActionEvaluateAnswer,
		SessionID:    "sess-1",
		Mode:         model.ModeText,
		UserResponse: "answer",
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Releasing the slot lets the next submission through.
	f.handler.Registry.Get("sess-1").EndSubmission()
	f.gen.output = `{"score": 5, "feedback": "ok", "strengths": ["s"], "weaknesses": ["w"]}`
	rec = doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action:       model.ActionEvaluateAnswer,
		SessionID:    "sess-1",
		Mode:         model.ModeText,
		UserResponse: "answer",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// The handler released the slot after responding.
	assert.NoError(t, f.handler.Registry.Get("sess-1").BeginSubmission())
}

func TestInterviewSubmissionGuardInactiveSession(t *testing.T) {
	f := newFixture(t)
	r := interviewRouter(f)

	tracker, err := f.handler.Registry.Create("sess-1", model.TrackBackend, model.DifficultyEasy, model.ModeText)
	require.NoError(t, err)
	require.NoError(t, tracker.End())

	rec := doJSON(t, r, http.MethodPost, "/interview", model.InterviewReq{
		Action:       model.ActionEvaluateAnswer,
		SessionID:    "sess-1",
		Mode:         model.ModeText,
		UserResponse: "answer",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
