package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

const recentInterviewsLimit = 5

// Stats aggregates the dashboard numbers from completed sessions.
// Anonymous requests get zeroed stats rather than an error so the landing
// dashboard renders without an account.
func (h *Handler) Stats(c *gin.Context) {
	stats := model.DashboardStats{WeeklyGoal: model.DefaultWeeklyGoal}

	userID, ok := h.optionalUserID(c)
	if !ok {
		response.OK(c, stats)
		return
	}

	sessions, err := h.Sessions.CompletedByUser(c.Request.Context(), userID)
	if err != nil {
		h.Logger.Sugar().Errorw("stats query failed", "user", userID.Hex(), "err", err)
		response.OK(c, stats)
		return
	}

	response.OK(c, aggregateStats(sessions, time.Now()))
}

// RecentInterviews lists the newest completed sessions. Anonymous requests
// get an empty list.
func (h *Handler) RecentInterviews(c *gin.Context) {
	recent := []model.RecentInterview{}

	userID, ok := h.optionalUserID(c)
	if !ok {
		response.OK(c, recent)
		return
	}

	sessions, err := h.Sessions.RecentByUser(c.Request.Context(), userID, recentInterviewsLimit)
	if err != nil {
		h.Logger.Sugar().Errorw("recent interviews query failed", "user", userID.Hex(), "err", err)
		response.OK(c, recent)
		return
	}

	for _, s := range sessions {
		recent = append(recent, model.RecentInterview{
			SessionID: s.SessionID.Hex(),
			Track:     s.Track,
			Mode:      s.Mode,
			Score:     sessionScore(s),
			Duration:  s.Duration,
			Date:      s.StartedAt,
		})
	}
	response.OK(c, recent)
}

// optionalUserID resolves the user id when the request carries a valid
// token, otherwise reports anonymous.
func (h *Handler) optionalUserID(c *gin.Context) (primitive.ObjectID, bool) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// sessionScore prefers the patched holistic score, then the provisional
// scorecard total.
func sessionScore(s model.InterviewSession) int {
	if s.Score != nil {
		return *s.Score
	}
	if s.Scorecard != nil {
		return s.Scorecard.Total
	}
	return 0
}

// aggregateStats folds completed sessions into the dashboard numbers.
// Time spent is reported in minutes; the weekly count resets at the start
// of the calendar week; the streak counts consecutive days with at least
// one completed session ending today or yesterday.
func aggregateStats(sessions []model.InterviewSession, now time.Time) model.DashboardStats {
	stats := model.DashboardStats{WeeklyGoal: model.DefaultWeeklyGoal}
	if len(sessions) == 0 {
		return stats
	}

	stats.TotalInterviews = len(sessions)

	scoreSum, scored := 0, 0
	secondsSum := 0
	days := make(map[string]bool, len(sessions))

	weekStart := startOfWeek(now)
	for _, s := range sessions {
		if s.Score != nil {
			scoreSum += *s.Score
			scored++
		} else if s.Scorecard != nil {
			scoreSum += s.Scorecard.Total
			scored++
		}
		secondsSum += s.Duration
		days[s.StartedAt.Format("2006-01-02")] = true
		if !s.StartedAt.Before(weekStart) {
			stats.WeeklyCount++
		}
	}

	if scored > 0 {
		stats.AverageScore = scoreSum / scored
	}
	stats.TimeSpent = secondsSum / 60
	stats.Streak = streak(days, now)
	return stats
}

func startOfWeek(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func streak(days map[string]bool, now time.Time) int {
	cursor := now
	// A streak survives until the end of the current day.
	if !days[cursor.Format("2006-01-02")] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	n := 0
	for days[cursor.Format("2006-01-02")] {
		n++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return n
}
