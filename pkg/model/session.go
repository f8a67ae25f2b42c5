package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Track string

const (
	TrackFrontend     Track = "frontend"
	TrackBackend      Track = "backend"
	TrackSystemDesign Track = "system-design"
	TrackDSA          Track = "dsa"
	TrackBehavioral   Track = "behavioral"
)

type Mode string

const (
	ModeText  Mode = "text"
	ModeVoice Mode = "voice"
	ModeCode  Mode = "code"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty reports whether d is one of the three known pool partitions.
func ValidDifficulty(d Difficulty) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in-progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

type Author string

const (
	AuthorAI   Author = "ai"
	AuthorUser Author = "user"
)

// Message is one entry of a session transcript. The sequence is append-only
// and owned by the active session.
type Message struct {
	ID        string    `json:"id" bson:"id"`
	Author    Author    `json:"author" bson:"author"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Scorecard holds the four sub-scores plus their derived total, all in [0,100].
type Scorecard struct {
	Technical     int `json:"technical" bson:"technical"`
	Communication int `json:"communication" bson:"communication"`
	Structure     int `json:"structure" bson:"structure"`
	Depth         int `json:"depth" bson:"depth"`
	Total         int `json:"total" bson:"total"`
}

type Feedback struct {
	Strengths    []string `json:"strengths" bson:"strengths"`
	Improvements []string `json:"improvements" bson:"improvements"`
	Suggestions  []string `json:"suggestions" bson:"suggestions"`
}

type InterviewSession struct {
	SessionID  primitive.ObjectID `json:"session_id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Track      Track              `json:"track" bson:"track"`
	Difficulty Difficulty         `json:"difficulty" bson:"difficulty"`
	Mode       Mode               `json:"mode" bson:"mode"`
	Status     SessionStatus      `json:"status" bson:"status"`
	StartedAt  time.Time          `json:"started_at" bson:"started_at"`
	EndedAt    *time.Time         `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	// Duration is the elapsed interview time in seconds, reported by the client.
	Duration  int        `json:"duration" bson:"duration"`
	Messages  []Message  `json:"messages" bson:"messages"`
	Scorecard *Scorecard `json:"scorecard,omitempty" bson:"scorecard,omitempty"`
	Feedback  *Feedback  `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Score     *int       `json:"score,omitempty" bson:"score,omitempty"`
	ScoredAt  *time.Time `json:"scored_at,omitempty" bson:"scored_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

type SessionAction string

const (
	SessionActionStart SessionAction = "start"
	SessionActionEnd   SessionAction = "end"
)

type SessionReq struct {
	Action     SessionAction `json:"action" binding:"required"`
	SessionID  string        `json:"session_id"`
	Track      Track         `json:"track"`
	Difficulty Difficulty    `json:"difficulty"`
	Mode       Mode          `json:"mode"`
	Duration   int           `json:"duration"`
	Messages   []Message     `json:"messages"`
}

type ScoreReq struct {
	SessionID string    `json:"session_id" binding:"required"`
	Messages  []Message `json:"messages" binding:"required"`
	Mode      Mode      `json:"mode"`
}

type DashboardStats struct {
	TotalInterviews int `json:"total_interviews"`
	AverageScore    int `json:"average_score"`
	// TimeSpent is total completed interview time in minutes.
	TimeSpent   int `json:"time_spent"`
	Streak      int `json:"streak"`
	WeeklyCount int `json:"weekly_count"`
	WeeklyGoal  int `json:"weekly_goal"`
}

type RecentInterview struct {
	SessionID string    `json:"session_id"`
	Track     Track     `json:"track"`
	Mode      Mode      `json:"mode"`
	Score     int       `json:"score"`
	Duration  int       `json:"duration"`
	Date      time.Time `json:"date"`
}
