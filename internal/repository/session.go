package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

// SessionRepository is the concrete MongoDB implementation for sessions.
type SessionRepository struct {
	col *mongo.Collection
}

// Start inserts a fresh in-progress session and returns its id.
func (r *SessionRepository) Start(ctx context.Context, session *model.InterviewSession) (primitive.ObjectID, error) {
	now := time.Now()
	session.Status = model.StatusInProgress
	session.StartedAt = now
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Messages == nil {
		session.Messages = []model.Message{}
	}

	res, err := r.col.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert session: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	session.SessionID = id
	return id, nil
}

// End writes the terminal state of a session in a single update: status,
// end time, duration, the full transcript and the provisional scorecard.
// Ending an already-completed session is a no-op, not an error, so client
// retries stay safe.
func (r *SessionRepository) End(ctx context.Context, id, userID primitive.ObjectID, end EndUpdate) error {
	now := time.Now()
	set := bson.M{
		"status":     model.StatusCompleted,
		"ended_at":   now,
		"duration":   end.Duration,
		"messages":   end.Messages,
		"updated_at": now,
	}
	if end.Scorecard != nil {
		set["scorecard"] = end.Scorecard
	}
	if end.Feedback != nil {
		set["feedback"] = end.Feedback
	}

	res, err := r.col.UpdateOne(ctx, bson.M{
		"_id":     id,
		"user_id": userID,
		"status":  model.StatusInProgress,
	}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.existsOr(ctx, id, userID)
	}
	return nil
}

// ApplyScore patches the holistic score onto a completed session. Re-applying
// to an already scored session is a no-op.
func (r *SessionRepository) ApplyScore(ctx context.Context, id, userID primitive.ObjectID, score int) error {
	now := time.Now()
	res, err := r.col.UpdateOne(ctx, bson.M{
		"_id":     id,
		"user_id": userID,
		"score":   bson.M{"$exists": false},
	}, bson.M{"$set": bson.M{
		"score":      score,
		"scored_at":  now,
		"updated_at": now,
	}})
	if err != nil {
		return fmt.Errorf("apply score: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.existsOr(ctx, id, userID)
	}
	return nil
}

// existsOr resolves a zero-match update: nil when the session exists (the
// update was already applied), ErrNotFound otherwise.
func (r *SessionRepository) existsOr(ctx context.Context, id, userID primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns one session scoped to its owner.
func (r *SessionRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (model.InterviewSession, error) {
	var s model.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.InterviewSession{}, ErrNotFound
		}
		return model.InterviewSession{}, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}

// CompletedByUser returns all completed sessions for dashboard aggregation,
// newest first.
func (r *SessionRepository) CompletedByUser(ctx context.Context, userID primitive.ObjectID) ([]model.InterviewSession, error) {
	return r.findCompleted(ctx, userID, 0)
}

// RecentByUser returns the newest completed sessions, capped at limit.
func (r *SessionRepository) RecentByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.InterviewSession, error) {
	return r.findCompleted(ctx, userID, int64(limit))
}

func (r *SessionRepository) findCompleted(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.InterviewSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{
		"user_id": userID,
		"status":  model.StatusCompleted,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []model.InterviewSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}
