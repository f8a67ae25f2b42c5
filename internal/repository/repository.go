// Package repository implements persistence on MongoDB. Handlers depend on
// the store interfaces so tests can swap in fakes.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const (
	usersCollection    = "users"
	sessionsCollection = "interview_sessions"
)

// UserStore is the persistence surface for accounts and subscriptions.
type UserStore interface {
	Create(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error)
	UpdateSubscription(ctx context.Context, id primitive.ObjectID, tier model.SubscriptionTier, credits int) error
}

// SessionStore is the persistence surface for interview sessions.
type SessionStore interface {
	Start(ctx context.Context, session *model.InterviewSession) (primitive.ObjectID, error)
	End(ctx context.Context, id, userID primitive.ObjectID, end EndUpdate) error
	ApplyScore(ctx context.Context, id, userID primitive.ObjectID, score int) error
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (model.InterviewSession, error)
	CompletedByUser(ctx context.Context, userID primitive.ObjectID) ([]model.InterviewSession, error)
	RecentByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.InterviewSession, error)
}

// EndUpdate is everything written in the single end-of-session update.
type EndUpdate struct {
	Duration  int
	Messages  []model.Message
	Scorecard *model.Scorecard
	Feedback  *model.Feedback
}

type Repository struct {
	User    UserStore
	Session SessionStore
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		User:    &UserRepository{col: db.Collection(usersCollection)},
		Session: &SessionRepository{col: db.Collection(sessionsCollection)},
	}
}

// EnsureIndexes creates the indexes both stores rely on. Safe to call on
// every startup, index creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}},
	})
	return err
}
