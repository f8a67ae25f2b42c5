package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPremium    SubscriptionTier = "premium"
	TierEnterprise SubscriptionTier = "enterprise"
)

const (
	// DefaultCredits is the interview credit balance granted on signup and
	// restored when a subscription is cancelled.
	DefaultCredits = 3
	// PremiumCredits is effectively unlimited for paying users.
	PremiumCredits = 999
	// DefaultWeeklyGoal is the number of interviews per week shown on the dashboard.
	DefaultWeeklyGoal = 5
)

type User struct {
	UserID       primitive.ObjectID `json:"user_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Role         string             `json:"role" bson:"role"`
	Level        string             `json:"level" bson:"level"`
	Skills       []string           `json:"skills,omitempty" bson:"skills,omitempty"`
	Subscription SubscriptionTier   `json:"subscription" bson:"subscription"`
	Credits      int                `json:"credits" bson:"credits"`
	WeeklyGoal   int                `json:"weekly_goal" bson:"weekly_goal"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type SignUpReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Level    string `json:"level"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserRes struct {
	UserID       string           `json:"user_id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Role         string           `json:"role"`
	Level        string           `json:"level"`
	Subscription SubscriptionTier `json:"subscription"`
	Credits      int              `json:"credits"`
}

type LoginUserRes struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserRes   `json:"user"`
}

// ToRes strips server-only fields for API responses.
func (u *User) ToRes() UserRes {
	return UserRes{
		UserID:       u.UserID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Level:        u.Level,
		Subscription: u.Subscription,
		Credits:      u.Credits,
	}
}
