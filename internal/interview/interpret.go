package interview

import (
	"encoding/json"
	"math/rand"
	"strconv"
	"strings"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

// minQuestionLen is the shortest raw model output still treated as a usable
// question when JSON parsing fails.
const minQuestionLen = 10

// duplicateThreshold is the token-overlap (Jaccard) similarity above which a
// generated question is treated as a near-duplicate of an earlier one.
const duplicateThreshold = 0.6

// fallbackPools are substituted when the model repeats itself.
var fallbackPools = map[model.Track][]string{
	model.TrackFrontend: {
		"Can you walk me through how you handle state management in complex React applications?",
		"What's your approach to optimizing frontend performance?",
		"How do you ensure cross-browser compatibility in your projects?",
		"Describe your experience with frontend testing strategies.",
	},
	model.TrackBackend: {
		"How do you design APIs for scalability?",
		"What's your approach to database optimization?",
		"How do you handle error management in production?",
		"Describe your experience with microservices architecture.",
	},
	model.TrackBehavioral: {
		"Tell me about a time when you had to make a difficult technical decision.",
		"Describe a situation where you had to work with a challenging team member.",
		"Give me an example of when you had to learn something completely new.",
		"Tell me about a project that didn't go as planned.",
	},
}

// parseFallbacks are substituted when the model output is unusable.
var parseFallbacks = map[model.Track]string{
	model.TrackFrontend:     "Can you walk me through how you would optimize the performance of a React application?",
	model.TrackBackend:      "How would you design a RESTful API for a user management system?",
	model.TrackSystemDesign: "How would you design a URL shortening service to handle millions of requests?",
	model.TrackDSA:          "Can you explain your approach to solving dynamic programming problems?",
	model.TrackBehavioral:   "Tell me about a time when you had to work under pressure to meet a deadline.",
}

// errorFallbacks are substituted when the model call itself fails.
var errorFallbacks = map[model.Track]string{
	model.TrackFrontend:     "Can you describe a challenging frontend problem you've solved recently?",
	model.TrackBackend:      "How do you handle error management in your backend applications?",
	model.TrackSystemDesign: "What factors do you consider when designing a scalable system?",
	model.TrackDSA:          "Walk me through your problem-solving approach for algorithmic challenges.",
	model.TrackBehavioral:   "Tell me about a time when you had to learn something new quickly.",
}

const genericFallbackQuestion = "Can you tell me more about your technical experience?"

// stripCodeFences removes a markdown code-fence wrapper around the payload,
// preferring a ```json fence when present.
func stripCodeFences(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// extractJSON returns the outermost brace-delimited substring, or "" when
// the text contains no object.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// normalizeTokens lowercases the text, strips punctuation and splits it
// into words.
func normalizeTokens(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// similarity is the Jaccard overlap of the two texts' token sets.
func similarity(a, b string) float64 {
	ta, tb := normalizeTokens(a), normalizeTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}

	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(tb))
	for _, t := range tb {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// isDuplicate reports whether the candidate question is a near-duplicate of
// any previously asked question. Very short asked entries are ignored, they
// match almost anything.
func isDuplicate(candidate string, asked []string) bool {
	for _, a := range asked {
		if len(normalizeTokens(a)) < 3 {
			continue
		}
		if similarity(candidate, a) >= duplicateThreshold {
			return true
		}
	}
	return false
}

func fallbackFromPool(track model.Track) string {
	pool, ok := fallbackPools[track]
	if !ok {
		pool = fallbackPools[model.TrackFrontend]
	}
	return pool[rand.Intn(len(pool))]
}

// rawQuestion is the wire shape the model is asked to return for
// question generation.
type rawQuestion struct {
	Question    string          `json:"question"`
	Difficulty  string          `json:"difficulty"`
	Constraints []string        `json:"constraints"`
	Examples    []model.Example `json:"examples"`
}

// InterpretQuestion normalizes the model's question-generation output.
//
// Policy: strip fences, try a strict JSON parse, then the brace-delimited
// substring; a generated question too similar to an earlier one is replaced
// from the per-track fallback pool; unparseable output long enough to stand
// on its own is used verbatim as the question; anything else becomes the
// fixed per-track fallback.
func InterpretQuestion(raw string, track model.Track, asked []string) model.QuestionRes {
	text := stripCodeFences(raw)

	var parsed rawQuestion
	err := json.Unmarshal([]byte(text), &parsed)
	if err != nil {
		if sub := extractJSON(text); sub != "" {
			err = json.Unmarshal([]byte(sub), &parsed)
		}
	}

	if err == nil && parsed.Question != "" {
		if isDuplicate(parsed.Question, asked) {
			return model.QuestionRes{
				Question: fallbackFromPool(track),
				Source:   model.SourceFallback,
			}
		}
		return model.QuestionRes{
			Question:    parsed.Question,
			Difficulty:  model.Difficulty(parsed.Difficulty),
			Constraints: parsed.Constraints,
			Examples:    parsed.Examples,
			Source:      model.SourceModel,
		}
	}

	if len(text) > minQuestionLen {
		return model.QuestionRes{Question: text, Source: model.SourceModel}
	}

	q, ok := parseFallbacks[track]
	if !ok {
		q = genericFallbackQuestion
	}
	return model.QuestionRes{Question: q, Source: model.SourceFallback}
}

// FallbackQuestion is the canned question substituted when the model call
// itself fails.
func FallbackQuestion(track model.Track) model.QuestionRes {
	q, ok := errorFallbacks[track]
	if !ok {
		q = "Can you tell me more about your experience?"
	}
	return model.QuestionRes{Question: q, Source: model.SourceFallback}
}

type rawEvaluation struct {
	Score      json.Number `json:"score"`
	Feedback   string      `json:"feedback"`
	Strengths  []string    `json:"strengths"`
	Weaknesses []string    `json:"weaknesses"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InterpretEvaluation normalizes the model's answer/code evaluation output.
// Scores are clamped to [0, 10]; missing fields are filled with defaults.
func InterpretEvaluation(raw string, mode model.Mode) model.EvaluationRes {
	text := stripCodeFences(raw)

	var parsed rawEvaluation
	err := json.Unmarshal([]byte(text), &parsed)
	if err != nil {
		if sub := extractJSON(text); sub != "" {
			err = json.Unmarshal([]byte(sub), &parsed)
		}
	}

	if err != nil {
		return fallbackEvaluation(text, mode)
	}

	score, perr := parsed.Score.Int64()
	if perr != nil {
		if f, ferr := parsed.Score.Float64(); ferr == nil {
			score = int64(f)
		} else {
			score = 5
		}
	}

	res := model.EvaluationRes{
		Score:      clamp(int(score), 0, 10),
		Feedback:   parsed.Feedback,
		Strengths:  parsed.Strengths,
		Weaknesses: parsed.Weaknesses,
		Source:     model.SourceModel,
	}
	if res.Feedback == "" {
		res.Feedback = "Evaluation completed"
	}
	if len(res.Strengths) == 0 {
		res.Strengths = []string{"Shows effort"}
	}
	if len(res.Weaknesses) == 0 {
		res.Weaknesses = []string{"Needs improvement"}
	}
	return res
}

// fallbackEvaluation builds a synthetic evaluation from unparseable model
// text. Code reviews get a rough keyword-derived score.
func fallbackEvaluation(text string, mode model.Mode) model.EvaluationRes {
	if mode == model.ModeCode {
		score := 5
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "good"), strings.Contains(lower, "correct"):
			score = 7
		case strings.Contains(lower, "works"), strings.Contains(lower, "solution"):
			score = 6
		}
		snippet := text
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return model.EvaluationRes{
			Score:      score,
			Feedback:   "Code Review: " + snippet,
			Strengths:  []string{"Demonstrates programming knowledge", "Attempts problem solving"},
			Weaknesses: []string{"Consider optimization opportunities", "Review edge case handling"},
			Source:     model.SourceFallback,
		}
	}

	return model.EvaluationRes{
		Score:      6,
		Feedback:   "Your answer shows understanding but needs improvement. " + text,
		Strengths:  []string{"Demonstrates knowledge"},
		Weaknesses: []string{"Could be more specific with examples"},
		Source:     model.SourceFallback,
	}
}

// rawScorecard is the wire shape the model is asked to return for the
// end-of-session scorecard.
type rawScorecard struct {
	Scores struct {
		Technical     json.Number `json:"technical"`
		Communication json.Number `json:"communication"`
		Structure     json.Number `json:"structure"`
		Depth         json.Number `json:"depth"`
	} `json:"scores"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  []string `json:"suggestions"`
}

// subScore parses one scorecard sub-score, clamping to [0, 100]. Missing or
// non-numeric fields default to 75.
func subScore(n json.Number) int {
	v, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return DefaultHolisticScore
		}
		v = int64(f)
	}
	return clamp(int(v), 0, 100)
}

// fallbackScorecard is the fixed card written when the model cannot produce
// a usable one.
func fallbackScorecard() (*model.Scorecard, *model.Feedback) {
	return &model.Scorecard{
			Technical:     75,
			Communication: 80,
			Structure:     70,
			Depth:         75,
			Total:         75,
		}, &model.Feedback{
			Strengths:    []string{"Good communication skills", "Clear explanations", "Relevant experience"},
			Improvements: []string{"More technical depth needed", "Better problem-solving approach", "Stronger examples"},
			Suggestions:  []string{"Practice coding problems", "Study system design patterns", "Work on technical communication"},
		}
}

// InterpretScorecard normalizes the model's end-of-session scorecard output.
// Sub-scores are clamped to [0, 100] with missing fields defaulting to 75,
// and the total is the rounded average of the four. Empty feedback arrays
// are filled with defaults; unparseable output becomes the fixed fallback
// card.
func InterpretScorecard(raw string) (*model.Scorecard, *model.Feedback, model.ResultSource) {
	text := stripCodeFences(raw)

	var parsed rawScorecard
	err := json.Unmarshal([]byte(text), &parsed)
	if err != nil {
		if sub := extractJSON(text); sub != "" {
			err = json.Unmarshal([]byte(sub), &parsed)
		}
	}
	if err != nil {
		card, fb := fallbackScorecard()
		return card, fb, model.SourceFallback
	}

	card := &model.Scorecard{
		Technical:     subScore(parsed.Scores.Technical),
		Communication: subScore(parsed.Scores.Communication),
		Structure:     subScore(parsed.Scores.Structure),
		Depth:         subScore(parsed.Scores.Depth),
	}
	card.Total = (card.Technical + card.Communication + card.Structure + card.Depth + 2) / 4

	fb := &model.Feedback{
		Strengths:    parsed.Strengths,
		Improvements: parsed.Improvements,
		Suggestions:  parsed.Suggestions,
	}
	if len(fb.Strengths) == 0 {
		fb.Strengths = []string{"Good communication", "Clear thinking", "Relevant examples"}
	}
	if len(fb.Improvements) == 0 {
		fb.Improvements = []string{"More technical depth", "Better structure", "Specific examples"}
	}
	if len(fb.Suggestions) == 0 {
		fb.Suggestions = []string{"Practice more examples", "Study system design", "Mock interviews"}
	}
	return card, fb, model.SourceModel
}

// DefaultHolisticScore is returned when the model's holistic score output
// is missing or non-numeric.
const DefaultHolisticScore = 75

// InterpretHolisticScore parses the end-of-session score, clamping to
// [0, 100] and falling back to the documented default on non-numeric output.
func InterpretHolisticScore(raw string) (int, model.ResultSource) {
	text := stripCodeFences(raw)

	// The model is told to return a bare number, but routinely wraps it
	// in prose. Take the first integer found.
	start := -1
	for i, r := range text {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return DefaultHolisticScore, model.SourceFallback
	}

	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(text[start:end])
	if err != nil {
		return DefaultHolisticScore, model.SourceFallback
	}
	return clamp(n, 0, 100), model.SourceModel
}
