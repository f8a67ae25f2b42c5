package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/TejaNaik15/ai-interview-coach/internal/auth"
	"github.com/TejaNaik15/ai-interview-coach/internal/handler"
	"github.com/TejaNaik15/ai-interview-coach/internal/interview"
	"github.com/TejaNaik15/ai-interview-coach/internal/questionbank"
	"github.com/TejaNaik15/ai-interview-coach/internal/repository"
	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "0123456789abcdef0123456789abcdef"

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users     map[primitive.ObjectID]model.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}
	id := primitive.NewObjectID()
	user.UserID = id
	f.users[id] = *user
	return id, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateSubscription(_ context.Context, id primitive.ObjectID, tier model.SubscriptionTier, credits int) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Subscription = tier
	u.Credits = credits
	f.users[id] = u
	return nil
}

// fakeSessionStore is an in-memory SessionStore with the same end/score
// idempotency rules as the MongoDB implementation.
type fakeSessionStore struct {
	sessions map[primitive.ObjectID]*model.InterviewSession
	startErr error
	endErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[primitive.ObjectID]*model.InterviewSession)}
}

func (f *fakeSessionStore) Start(_ context.Context, session *model.InterviewSession) (primitive.ObjectID, error) {
	if f.startErr != nil {
		return primitive.NilObjectID, f.startErr
	}
	id := primitive.NewObjectID()
	session.SessionID = id
	session.Status = model.StatusInProgress
	session.StartedAt = time.Now()
	cp := *session
	f.sessions[id] = &cp
	return id, nil
}

func (f *fakeSessionStore) End(_ context.Context, id, userID primitive.ObjectID, end repository.EndUpdate) error {
	if f.endErr != nil {
		return f.endErr
	}
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	if s.Status != model.StatusInProgress {
		return nil
	}
	now := time.Now()
	s.Status = model.StatusCompleted
	s.EndedAt = &now
	s.Duration = end.Duration
	s.Messages = end.Messages
	s.Scorecard = end.Scorecard
	s.Feedback = end.Feedback
	return nil
}

func (f *fakeSessionStore) ApplyScore(_ context.Context, id, userID primitive.ObjectID, score int) error {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	if s.Score != nil {
		return nil
	}
	now := time.Now()
	s.Score = &score
	s.ScoredAt = &now
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id, userID primitive.ObjectID) (model.InterviewSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return model.InterviewSession{}, repository.ErrNotFound
	}
	return *s, nil
}

func (f *fakeSessionStore) CompletedByUser(_ context.Context, userID primitive.ObjectID) ([]model.InterviewSession, error) {
	return f.completed(userID, 0), nil
}

func (f *fakeSessionStore) RecentByUser(_ context.Context, userID primitive.ObjectID, limit int) ([]model.InterviewSession, error) {
	return f.completed(userID, limit), nil
}

func (f *fakeSessionStore) completed(userID primitive.ObjectID, limit int) []model.InterviewSession {
	var out []model.InterviewSession
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == model.StatusCompleted {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// stubGenerator returns fixed output for the interview service.
type stubGenerator struct {
	output string
	err    error
}

func (s *stubGenerator) GenerateText(context.Context, string) (string, error) {
	return s.output, s.err
}

type fixture struct {
	handler  *handler.Handler
	users    *fakeUserStore
	sessions *fakeSessionStore
	gen      *stubGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bank, err := questionbank.New()
	require.NoError(t, err)

	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	gen := &stubGenerator{output: `{"question": "stub"}`}

	h := &handler.Handler{
		Logger:     zap.NewNop(),
		Users:      users,
		Sessions:   sessions,
		TokenMaker: auth.NewJWTMaker(testJWTSecret),
		TokenTTL:   time.Hour,
		Interview:  interview.NewService(gen, zap.NewNop()),
		Bank:       bank,
		Registry:   interview.NewRegistry(),
	}
	return &fixture{handler: h, users: users, sessions: sessions, gen: gen}
}

// addUser seeds a user and returns it.
func (f *fixture) addUser(t *testing.T) model.User {
	t.Helper()
	u := &model.User{
		Name:         "Test User",
		Email:        "user@example.com",
		PasswordHash: "$2a$10$fake",
		Subscription: model.TierFree,
		Credits:      model.DefaultCredits,
		WeeklyGoal:   model.DefaultWeeklyGoal,
	}
	_, err := f.users.Create(context.Background(), u)
	require.NoError(t, err)
	return *u
}

// asUser returns middleware injecting verified claims for the given user.
func asUser(u model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handler.ClaimsKey, &auth.UserClaims{UserID: u.UserID.Hex(), Email: u.Email})
		c.Next()
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors the response wrapper for decoding in assertions.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, out))
}
