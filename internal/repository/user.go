package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

// UserRepository is the concrete MongoDB implementation for users.
type UserRepository struct {
	col *mongo.Collection
}

// Create inserts a new user and returns the new user's id. The unique index
// on email turns concurrent duplicate signups into ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateEmail
		}
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.UserID = id
	return id, nil
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	var u model.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// UpdateSubscription sets the user's tier and credit balance in one write.
func (r *UserRepository) UpdateSubscription(ctx context.Context, id primitive.ObjectID, tier model.SubscriptionTier, credits int) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"subscription": tier,
			"credits":      credits,
			"updated_at":   time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
