package interview

import (
	"fmt"
	"strings"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

// Prompt templates per track and mode. Each template receives the
// candidate's latest answer and the rendered list of previously asked
// questions the model must never repeat.

const frontendTextPrompt = `You are a FAANG frontend technical interviewer. Analyze the candidate's response and ask a SPECIFIC follow-up question.

Candidate just said: "%s"

Previously asked questions (NEVER repeat these exact questions):
%s

Based on their response, ask about:
- If they mentioned React: Ask about specific hooks, performance, or state management
- If they mentioned JavaScript: Ask about ES6+ features, async/await, or closures
- If they mentioned CSS: Ask about flexbox, grid, animations, or responsive design
- If they mentioned APIs: Ask about error handling, caching, or authentication
- If they mentioned performance: Ask about optimization techniques or metrics

Rules:
1. Ask ONE specific question directly related to what they just mentioned
2. Be conversational and natural
3. Ask for concrete examples or implementation details
4. Don't repeat any previously asked questions
5. Make it progressively more technical

Return only JSON:
{
  "question": "specific follow-up question based on their exact response"
}`

const backendTextPrompt = `You are a FAANG backend technical interviewer. Ask a SPECIFIC follow-up based on their response.

Candidate just said: "%s"

Previously asked questions (NEVER repeat):
%s

Based on their response, ask about:
- If they mentioned APIs: Ask about REST vs GraphQL, error handling, or rate limiting
- If they mentioned databases: Ask about SQL vs NoSQL, indexing, or transactions
- If they mentioned authentication: Ask about JWT, OAuth, or session management
- If they mentioned caching: Ask about Redis, cache invalidation, or strategies
- If they mentioned deployment: Ask about CI/CD, containers, or monitoring

Rules:
1. Ask ONE specific question about what they just mentioned
2. Be conversational and build on their exact words
3. Ask for implementation details or real examples
4. Don't repeat previous questions
5. Make it progressively deeper

Return only JSON:
{
  "question": "specific follow-up question based on their response"
}`

const systemDesignTextPrompt = `You are a FAANG system design interviewer. Generate a NEW system design question.

Candidate's response: "%s"

Previously asked questions (NEVER repeat):
%s

System design question categories to explore:
- Scalability and load balancing
- Database sharding and replication
- Caching strategies (Redis, Memcached)
- CDN and content delivery
- Message queues and pub/sub systems
- Microservices vs monolithic architecture
- Distributed systems and consistency

Rules:
1. Generate a UNIQUE system design question not in the previous list
2. Build on their response naturally
3. Focus on scalability and architecture
4. Ask for specific design decisions and trade-offs

Return JSON:
{
  "question": "your new system design follow-up question"
}`

const dsaTextPrompt = `You are a FAANG DSA technical interviewer. Generate a NEW algorithms question.

Candidate's response: "%s"

Previously asked questions (NEVER repeat):
%s

DSA question categories to explore:
- Array and string manipulation techniques
- Tree and graph traversal algorithms
- Dynamic programming approaches
- Sorting and searching algorithms
- Hash table and set operations
- Time and space complexity analysis

Rules:
1. Generate a UNIQUE DSA question not in the previous list
2. Build on their response naturally
3. Focus on algorithmic thinking and problem-solving
4. Progress from basic to advanced DSA concepts

Return JSON:
{
  "question": "your new DSA follow-up question"
}`

const behavioralTextPrompt = `You are a FAANG behavioral interviewer. Ask a SPECIFIC follow-up based on their response.

Candidate just said: "%s"

Previously asked questions (NEVER repeat):
%s

Based on their response, ask about:
- If they mentioned teamwork: Ask about a specific conflict or collaboration challenge
- If they mentioned learning: Ask about a time they failed or struggled
- If they mentioned leadership: Ask about a difficult decision or team motivation
- If they mentioned projects: Ask about obstacles, timeline pressure, or stakeholder management

Rules:
1. Ask ONE specific behavioral question related to what they mentioned
2. Use "Tell me about a time when..." format
3. Ask for concrete examples with STAR method details
4. Don't repeat previous questions

Return only JSON:
{
  "question": "specific behavioral follow-up question"
}`

const genericTextPrompt = `You are a FAANG technical interviewer. Generate a NEW question.

Candidate's response: "%s"

Previously asked questions (NEVER repeat):
%s

Question categories to explore:
- Technical depth and experience
- System design and architecture
- Problem-solving approaches
- Technology choices and trade-offs
- Team collaboration and leadership

Rules:
1. Generate a UNIQUE question not in the previous list
2. Build on their response naturally
3. Ask for specific examples and details

Return JSON:
{
  "question": "your new follow-up question"
}`

const genericVoicePrompt = `You are conducting a FAANG voice interview.

Candidate said: "%s"
Previously asked questions:
%s

Rules:
1. NEVER repeat any previously asked questions
2. Ask ONE clear question that's easy to answer verbally
3. Build directly on what they just said
4. Focus on behavioral and communication skills
5. Keep questions conversational

Return JSON:
{
  "question": "your voice-friendly question"
}`

const codePromptTemplate = `Generate a %s %s coding problem.

Previously asked problems (avoid these):
%s

For %s level:
%s

Return JSON:
{
  "difficulty": "%s",
  "question": "Coding problem statement",
  "constraints": ["Problem constraints"],
  "examples": [{"input": "Example input", "output": "Expected output", "explanation": "Solution explanation"}]
}`

var trackTextPrompts = map[model.Track]string{
	model.TrackFrontend:     frontendTextPrompt,
	model.TrackBackend:      backendTextPrompt,
	model.TrackSystemDesign: systemDesignTextPrompt,
	model.TrackDSA:          dsaTextPrompt,
	model.TrackBehavioral:   behavioralTextPrompt,
}

// codeGuidance is the per-track, per-difficulty briefing embedded in code
// problem prompts. Tracks without a code mode (behavioral) use the DSA
// guidance.
var codeGuidance = map[model.Track]map[model.Difficulty]string{
	model.TrackFrontend: {
		model.DifficultyEasy:   "Focus on DOM manipulation, basic React components, simple JavaScript functions, CSS styling challenges.",
		model.DifficultyMedium: "Intermediate React hooks, state management, API integration, responsive design challenges, performance optimization.",
		model.DifficultyHard:   "Advanced React patterns, custom hooks, complex state management, build tool configuration, advanced CSS techniques.",
	},
	model.TrackBackend: {
		model.DifficultyEasy:   "Focus on basic API endpoints, simple database queries, file operations, basic algorithms.",
		model.DifficultyMedium: "Intermediate API design, database relationships, authentication logic, caching implementation.",
		model.DifficultyHard:   "Advanced system design, complex database optimization, distributed systems, performance tuning.",
	},
	model.TrackSystemDesign: {
		model.DifficultyEasy:   "Focus on basic system components, simple load balancer logic, basic caching implementation.",
		model.DifficultyMedium: "Intermediate distributed system components, database partitioning logic, message queue implementation.",
		model.DifficultyHard:   "Advanced distributed algorithms, consensus protocols, complex system optimization.",
	},
	model.TrackDSA: {
		model.DifficultyEasy:   "Focus on fundamental algorithms and data structures. Time complexity O(n) or O(n log n). Clear problem statements with basic constraints.",
		model.DifficultyMedium: "Intermediate algorithms like sliding window, binary search, DP. Time complexity O(n log n) to O(n^2). Multiple solution approaches possible.",
		model.DifficultyHard:   "Advanced algorithms including complex DP, graph theory, advanced data structures. Optimization challenges. Time complexity O(n^2) or better optimization required.",
	},
}

func renderAsked(asked []string) string {
	if len(asked) == 0 {
		return "None"
	}
	return strings.Join(asked, "\n")
}

// QuestionPrompt builds the question-generation prompt for the given mode,
// track and difficulty.
func QuestionPrompt(mode model.Mode, track model.Track, difficulty model.Difficulty, context string, asked []string) string {
	askedStr := renderAsked(asked)

	switch mode {
	case model.ModeCode:
		perTrack, ok := codeGuidance[track]
		if !ok {
			perTrack = codeGuidance[model.TrackDSA]
		}
		guidance, ok := perTrack[difficulty]
		if !ok {
			guidance = perTrack[model.DifficultyEasy]
			difficulty = model.DifficultyEasy
		}
		upper := strings.ToUpper(string(difficulty))
		return fmt.Sprintf(codePromptTemplate, upper, track, askedStr, upper, guidance, difficulty)

	case model.ModeVoice:
		tmpl, ok := trackTextPrompts[track]
		if !ok {
			return fmt.Sprintf(genericVoicePrompt, context, askedStr)
		}
		tmpl = strings.Replace(tmpl, "technical interviewer", "voice interviewer", 1)
		tmpl = strings.Replace(tmpl, "Generate a NEW", "Generate a NEW voice-friendly", 1)
		return fmt.Sprintf(tmpl, context, askedStr)

	default:
		tmpl, ok := trackTextPrompts[track]
		if !ok {
			tmpl = genericTextPrompt
		}
		return fmt.Sprintf(tmpl, context, askedStr)
	}
}

// AnswerEvalPrompt builds the prompt scoring a free-text answer out of 10.
func AnswerEvalPrompt(mode model.Mode, question, answer string) string {
	return fmt.Sprintf(`Evaluate this %s interview answer and provide a score out of 10.

Question: %s
Answer: %s

Score based on:
- Communication clarity (0-3 points)
- Technical content (0-4 points)
- Specific examples (0-3 points)

Provide constructive feedback and suggestions.

Return JSON:
{
  "score": 7,
  "feedback": "Actionable feedback on the answer.",
  "strengths": ["Clear communication"],
  "weaknesses": ["Need more specific technical details"]
}`, mode, question, answer)
}

// CodeEvalPrompt builds the prompt scoring a code submission out of 10.
func CodeEvalPrompt(language, problem, code string) string {
	return fmt.Sprintf(`Evaluate this %s code solution and return JSON.

Problem: %s

Code:
%s

Score out of 10 based on:
- Correctness (0-4 points)
- Efficiency (0-3 points)
- Code quality (0-3 points)

Return exactly this JSON format:
{
  "score": 7,
  "feedback": "What works and what should be optimized.",
  "strengths": ["Correct logic"],
  "weaknesses": ["Can optimize time complexity"]
}`, language, problem, code)
}

// ScorecardPrompt builds the end-of-session scorecard prompt from the
// candidate's responses. Interviewer messages are left out, only what the
// candidate actually said is scored.
func ScorecardPrompt(track model.Track, messages []model.Message) string {
	var responses []string
	for _, m := range messages {
		if m.Author == model.AuthorUser {
			responses = append(responses, m.Content)
		}
	}

	return fmt.Sprintf(`Analyze this interview performance and provide scores (0-100) and feedback:

Interview Type: %s
Responses: %s

Provide:
1. Scores for: technical, communication, structure, depth
2. 3 strengths
3. 3 areas for improvement
4. 3 specific suggestions

Format as JSON with scores object and feedback arrays.`, track, strings.Join(responses, "\n\n"))
}

// ScorePrompt builds the holistic end-of-session scoring prompt. The model
// is asked for a bare integer in [0, 100].
func ScorePrompt(mode model.Mode, messages []model.Message) string {
	var conv strings.Builder
	for _, m := range messages {
		conv.WriteString(fmt.Sprintf("%s: %s\n", m.Author, m.Content))
	}

	return fmt.Sprintf(`Analyze this %s interview conversation and provide a score out of 100:

%s
Evaluate based on:
- Technical knowledge (if applicable)
- Communication clarity
- Problem-solving approach
- Completeness of answers
- Confidence level

Return ONLY a number between 0-100, nothing else.`, mode, conv.String())
}

// GreetingPrompt builds the opening prompt for a fresh session.
func GreetingPrompt(track model.Track, difficulty model.Difficulty) string {
	return fmt.Sprintf(`You are a senior software engineer interviewing a candidate for a %s position at %s level. Start with a warm greeting and ask an appropriate opening question. Keep it conversational and encouraging.`, track, difficulty)
}
