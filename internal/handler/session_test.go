package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

func sessionRouter(f *fixture, user model.User) *gin.Engine {
	r := gin.New()
	r.POST("/session", asUser(user), f.handler.SessionAction)
	r.POST("/score", asUser(user), f.handler.Score)
	return r
}

func startSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action: model.SessionActionStart,
		Track:  model.TrackBackend,
		Mode:   model.ModeText,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var res struct {
		SessionID string `json:"session_id"`
		Greeting  string `json:"greeting"`
	}
	decodeData(t, rec, &res)
	require.NotEmpty(t, res.SessionID)
	return res.SessionID
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	f.gen.output = "Welcome! Tell me about a service you have built."
	r := sessionRouter(f, user)

	id := startSession(t, r)

	// The session is persisted in progress and a live tracker exists with
	// the greeting already in the transcript.
	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	stored, err := f.sessions.GetByID(context.Background(), oid, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, stored.Status)
	assert.Equal(t, model.TrackBackend, stored.Track)

	tracker := f.handler.Registry.Get(id)
	require.NotNil(t, tracker)
	snap := tracker.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, model.AuthorAI, snap.Messages[0].Author)
	assert.Equal(t, "Welcome! Tell me about a service you have built.", snap.Messages[0].Content)
}

func TestStartSessionValidation(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	rec := doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action: model.SessionActionStart,
		Mode:   model.ModeText,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:     model.SessionActionStart,
		Track:      model.TrackBackend,
		Mode:       model.ModeText,
		Difficulty: "brutal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndSession(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	messages := []model.Message{
		{ID: "m1", Author: model.AuthorAI, Content: "Q?"},
		{ID: "m2", Author: model.AuthorUser, Content: "A."},
	}

	rec := doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:    model.SessionActionEnd,
		SessionID: id,
		Duration:  600,
		Messages:  messages,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	stored, err := f.sessions.GetByID(context.Background(), oid, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.Equal(t, 600, stored.Duration)
	assert.Len(t, stored.Messages, 2)
	require.NotNil(t, stored.Scorecard)
	assert.Equal(t, 75, stored.Scorecard.Total)
	require.NotNil(t, stored.Feedback)

	// The live tracker is gone.
	assert.Nil(t, f.handler.Registry.Get(id))
}

func TestEndSessionScorecardFromModel(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	f.gen.output = `{"scores":{"technical":88,"communication":72,"structure":66,"depth":90},` +
		`"strengths":["Solid API design"],"improvements":["Shorter answers"],"suggestions":["Drill estimation"]}`

	rec := doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:    model.SessionActionEnd,
		SessionID: id,
		Duration:  900,
		Messages:  []model.Message{{ID: "m1", Author: model.AuthorUser, Content: "I would version the API."}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Scorecard *model.Scorecard   `json:"scorecard"`
		Feedback  *model.Feedback    `json:"feedback"`
		Source    model.ResultSource `json:"source"`
	}
	decodeData(t, rec, &res)
	require.NotNil(t, res.Scorecard)
	assert.Equal(t, 88, res.Scorecard.Technical)
	assert.Equal(t, 79, res.Scorecard.Total)
	assert.Equal(t, model.SourceModel, res.Source)

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	stored, err := f.sessions.GetByID(context.Background(), oid, user.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.Scorecard)
	assert.Equal(t, 88, stored.Scorecard.Technical)
	assert.Equal(t, 72, stored.Scorecard.Communication)
	assert.Equal(t, 66, stored.Scorecard.Structure)
	assert.Equal(t, 90, stored.Scorecard.Depth)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, []string{"Solid API design"}, stored.Feedback.Strengths)
}

func TestEndSessionModelFailureWritesFallback(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	f.gen.err = assert.AnError

	rec := doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:    model.SessionActionEnd,
		SessionID: id,
		Duration:  300,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Source model.ResultSource `json:"source"`
	}
	decodeData(t, rec, &res)
	assert.Equal(t, model.SourceFallback, res.Source)

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	stored, err := f.sessions.GetByID(context.Background(), oid, user.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.Scorecard)
	assert.Equal(t, &model.Scorecard{Technical: 75, Communication: 80, Structure: 70, Depth: 75, Total: 75}, stored.Scorecard)
	require.NotNil(t, stored.Feedback)
	assert.Contains(t, stored.Feedback.Suggestions, "Practice coding problems")
}

func TestEndSessionIdempotent(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	end := model.SessionReq{Action: model.SessionActionEnd, SessionID: id, Duration: 300}

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/session", end).Code)
	// A client retry of the same end request still succeeds.
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/session", end).Code)
}

func TestEndSessionNotFound(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	rec := doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:    model.SessionActionEnd,
		SessionID: primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:    model.SessionActionEnd,
		SessionID: "not-an-object-id",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScorePersists(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/session", model.SessionReq{
		Action:    model.SessionActionEnd,
		SessionID: id,
	}).Code)

	f.gen.output = "91"
	rec := doJSON(t, r, http.MethodPost, "/score", model.ScoreReq{
		SessionID: id,
		Mode:      model.ModeText,
		Messages:  []model.Message{{ID: "m1", Author: model.AuthorUser, Content: "answer"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Score  int                `json:"score"`
		Source model.ResultSource `json:"source"`
	}
	decodeData(t, rec, &res)
	assert.Equal(t, 91, res.Score)
	assert.Equal(t, model.SourceModel, res.Source)

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	stored, err := f.sessions.GetByID(context.Background(), oid, user.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 91, *stored.Score)
}

func TestScoreModelFailureUsesDefault(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	f.gen.err = assert.AnError

	rec := doJSON(t, r, http.MethodPost, "/score", model.ScoreReq{
		SessionID: id,
		Mode:      model.ModeText,
		Messages:  []model.Message{{ID: "m1", Author: model.AuthorUser, Content: "answer"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Score  int                `json:"score"`
		Source model.ResultSource `json:"source"`
	}
	decodeData(t, rec, &res)
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, model.SourceFallback, res.Source)
}

func TestScoreIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	id := startSession(t, r)
	req := model.ScoreReq{
		SessionID: id,
		Mode:      model.ModeText,
		Messages:  []model.Message{{ID: "m1", Author: model.AuthorUser, Content: "answer"}},
	}

	f.gen.output = "80"
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/score", req).Code)

	// A second scoring pass does not overwrite the stored score.
	f.gen.output = "20"
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/score", req).Code)

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	stored, err := f.sessions.GetByID(context.Background(), oid, user.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 80, *stored.Score)
}

func TestScoreUnknownSession(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t)
	r := sessionRouter(f, user)

	f.gen.output = "70"
	rec := doJSON(t, r, http.MethodPost, "/score", model.ScoreReq{
		SessionID: primitive.NewObjectID().Hex(),
		Mode:      model.ModeText,
		Messages:  []model.Message{{ID: "m1", Author: model.AuthorUser, Content: "answer"}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
