package model

type InterviewAction string

const (
	ActionGenerateQuestion InterviewAction = "generate-question"
	ActionEvaluateAnswer   InterviewAction = "evaluate-answer"
	ActionEvaluateCode     InterviewAction = "evaluate-code"
)

type InterviewReq struct {
	Action InterviewAction `json:"action" binding:"required"`
	// SessionID ties an evaluation to a live session so overlapping
	// submissions for the same session can be rejected. Optional.
	SessionID      string     `json:"session_id"`
	Mode           Mode       `json:"mode"`
	Track          Track      `json:"track"`
	Difficulty     Difficulty `json:"difficulty"`
	Context        string     `json:"context"`
	AskedQuestions []string   `json:"asked_questions"`
	UserResponse   string     `json:"user_response"`
	Language       string     `json:"language"`
}

// ResultSource records whether a payload came from the model or from a
// local fallback, so callers can tell synthetic content apart.
type ResultSource string

const (
	SourceModel    ResultSource = "model"
	SourceFallback ResultSource = "fallback"
)

type QuestionRes struct {
	Question    string       `json:"question"`
	Difficulty  Difficulty   `json:"difficulty,omitempty"`
	Constraints []string     `json:"constraints,omitempty"`
	Examples    []Example    `json:"examples,omitempty"`
	Source      ResultSource `json:"source"`
}

type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type EvaluationRes struct {
	Score      int          `json:"score"`
	Feedback   string       `json:"feedback"`
	Strengths  []string     `json:"strengths"`
	Weaknesses []string     `json:"weaknesses"`
	Source     ResultSource `json:"source"`
}
