// Package interview assembles prompts for the generative model, interprets
// its free-text output and tracks per-session interview state.
package interview

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

// Generator is the text-generation surface of the AI provider. Satisfied by
// gemini.Client; faked in tests.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Service runs the three interview actions against a Generator. Model
// failures never propagate: every path degrades to tagged fallback content.
type Service struct {
	gen Generator
	log *zap.Logger
}

func NewService(gen Generator, log *zap.Logger) *Service {
	return &Service{gen: gen, log: log}
}

// GenerateQuestion asks the model for the next question. On any model
// failure the per-track canned question is substituted.
func (s *Service) GenerateQuestion(ctx context.Context, req model.InterviewReq) model.QuestionRes {
	prompt := QuestionPrompt(req.Mode, req.Track, req.Difficulty, req.Context, req.AskedQuestions)

	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Sugar().Warnw("question generation failed, using fallback", "track", req.Track, "err", err)
		return FallbackQuestion(req.Track)
	}
	return InterpretQuestion(raw, req.Track, req.AskedQuestions)
}

// EvaluateAnswer scores a free-text answer out of 10.
func (s *Service) EvaluateAnswer(ctx context.Context, req model.InterviewReq) model.EvaluationRes {
	prompt := AnswerEvalPrompt(req.Mode, req.Context, req.UserResponse)

	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Sugar().Warnw("answer evaluation failed, using fallback", "err", err)
		return fallbackEvaluation("", req.Mode)
	}
	return InterpretEvaluation(raw, req.Mode)
}

// noCodeEvaluation is returned for empty or placeholder submissions. The
// model is never consulted for these.
var noCodeEvaluation = model.EvaluationRes{
	Score:      0,
	Feedback:   "No code solution provided. Please write your implementation to solve the problem.",
	Strengths:  []string{},
	Weaknesses: []string{"No code submitted", "Need to implement the solution"},
	Source:     model.SourceFallback,
}

// EvaluateCode scores a code submission out of 10. Empty and placeholder
// submissions short-circuit to a zero score without a model call.
func (s *Service) EvaluateCode(ctx context.Context, req model.InterviewReq) model.EvaluationRes {
	code := strings.TrimSpace(req.UserResponse)
	if code == "" || code == "1234" || len(code) < 10 {
		return noCodeEvaluation
	}

	language := req.Language
	if language == "" {
		language = "javascript"
	}

	prompt := CodeEvalPrompt(language, req.Context, code)
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Sugar().Warnw("code evaluation failed, using fallback", "err", err)
		return fallbackEvaluation("", model.ModeCode)
	}
	return InterpretEvaluation(raw, model.ModeCode)
}

// Scorecard produces the end-of-session scorecard and feedback. Model
// failure degrades to the fixed fallback card.
func (s *Service) Scorecard(ctx context.Context, track model.Track, messages []model.Message) (*model.Scorecard, *model.Feedback, model.ResultSource) {
	prompt := ScorecardPrompt(track, messages)

	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Sugar().Warnw("scorecard generation failed, using fallback", "track", track, "err", err)
		card, fb := fallbackScorecard()
		return card, fb, model.SourceFallback
	}
	return InterpretScorecard(raw)
}

// Score produces the holistic end-of-session score in [0, 100].
func (s *Service) Score(ctx context.Context, mode model.Mode, messages []model.Message) (int, model.ResultSource) {
	prompt := ScorePrompt(mode, messages)

	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Sugar().Warnw("holistic scoring failed, using default", "err", err)
		return DefaultHolisticScore, model.SourceFallback
	}
	return InterpretHolisticScore(raw)
}

const defaultGreeting = "Hello! Welcome to your interview. Can you start by telling me about yourself and your background?"

// Greeting produces the opening message for a fresh session.
func (s *Service) Greeting(ctx context.Context, track model.Track, difficulty model.Difficulty) (string, model.ResultSource) {
	raw, err := s.gen.GenerateText(ctx, GreetingPrompt(track, difficulty))
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			s.log.Sugar().Warnw("greeting generation failed, using default", "err", err)
		}
		return defaultGreeting, model.SourceFallback
	}
	return raw, model.SourceModel
}
