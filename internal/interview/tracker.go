package interview

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

type TrackerState string

const (
	StateIdle   TrackerState = "idle"
	StateActive TrackerState = "active"
	StatePaused TrackerState = "paused"
	StateEnded  TrackerState = "ended"
)

var (
	ErrNotActive          = errors.New("session is not active")
	ErrAlreadyStarted     = errors.New("session already started")
	ErrSubmissionInFlight = errors.New("a submission is already being evaluated")
)

// Tracker is the per-session interview state: transcript, per-difficulty
// asked-question logs, timer and lifecycle. All mutations go through
// methods; a mutex plus an in-flight flag guards against overlapping
// submissions for the same session.
type Tracker struct {
	mu sync.Mutex

	state      TrackerState
	sessionID  string
	track      model.Track
	difficulty model.Difficulty
	mode       model.Mode

	messages        []model.Message
	asked           map[model.Difficulty][]string
	currentQuestion string
	timerSeconds    int
	inFlight        bool
}

func NewTracker() *Tracker {
	return &Tracker{
		state: StateIdle,
		asked: make(map[model.Difficulty][]string),
	}
}

// Start transitions idle → active.
func (t *Tracker) Start(sessionID string, track model.Track, difficulty model.Difficulty, mode model.Mode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateIdle {
		return ErrAlreadyStarted
	}
	t.state = StateActive
	t.sessionID = sessionID
	t.track = track
	t.difficulty = difficulty
	t.mode = mode
	return nil
}

// Pause stops the timer. No network effect.
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive {
		return ErrNotActive
	}
	t.state = StatePaused
	return nil
}

// Resume restarts a paused session.
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StatePaused {
		return errors.New("session is not paused")
	}
	t.state = StateActive
	return nil
}

// End transitions active/paused → ended.
func (t *Tracker) End() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive && t.state != StatePaused {
		return ErrNotActive
	}
	t.state = StateEnded
	t.inFlight = false
	return nil
}

// BeginSubmission marks an evaluation request in flight. A second call
// before EndSubmission fails, which is what keeps double-submits from
// racing each other.
func (t *Tracker) BeginSubmission() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive {
		return ErrNotActive
	}
	if t.inFlight {
		return ErrSubmissionInFlight
	}
	t.inFlight = true
	return nil
}

func (t *Tracker) EndSubmission() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
}

// AddMessage appends to the transcript and returns the stored message.
func (t *Tracker) AddMessage(author model.Author, content string) model.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := model.Message{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		Timestamp: time.Now(),
	}
	t.messages = append(t.messages, msg)
	return msg
}

// RecordAsked appends a question identifier to the difficulty's asked-log.
func (t *Tracker) RecordAsked(difficulty model.Difficulty, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.asked[difficulty] = append(t.asked[difficulty], id)
}

// AskedFor returns a copy of the asked-log for one difficulty.
func (t *Tracker) AskedFor(difficulty model.Difficulty) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.asked[difficulty]...)
}

func (t *Tracker) SetCurrentQuestion(q string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentQuestion = q
}

func (t *Tracker) SetTimer(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timerSeconds = seconds
}

// Snapshot is a copy of the tracker's state for reads and tests.
type Snapshot struct {
	State           TrackerState
	SessionID       string
	Track           model.Track
	Difficulty      model.Difficulty
	Mode            model.Mode
	Messages        []model.Message
	Asked           map[model.Difficulty][]string
	CurrentQuestion string
	TimerSeconds    int
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	asked := make(map[model.Difficulty][]string, len(t.asked))
	for d, ids := range t.asked {
		asked[d] = append([]string(nil), ids...)
	}
	return Snapshot{
		State:           t.state,
		SessionID:       t.sessionID,
		Track:           t.track,
		Difficulty:      t.difficulty,
		Mode:            t.mode,
		Messages:        append([]model.Message(nil), t.messages...),
		Asked:           asked,
		CurrentQuestion: t.currentQuestion,
		TimerSeconds:    t.timerSeconds,
	}
}

// Reset restores every session-scoped field to its initial value.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateIdle
	t.sessionID = ""
	t.track = ""
	t.difficulty = ""
	t.mode = ""
	t.messages = nil
	t.asked = make(map[model.Difficulty][]string)
	t.currentQuestion = ""
	t.timerSeconds = 0
	t.inFlight = false
}

// Registry keeps one tracker per live session id.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewRegistry() *Registry {
	return &Registry{trackers: make(map[string]*Tracker)}
}

// Create registers a fresh active tracker for a session.
func (r *Registry) Create(sessionID string, track model.Track, difficulty model.Difficulty, mode model.Mode) (*Tracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.trackers[sessionID]; exists {
		return nil, ErrAlreadyStarted
	}
	t := NewTracker()
	if err := t.Start(sessionID, track, difficulty, mode); err != nil {
		return nil, err
	}
	r.trackers[sessionID] = t
	return t, nil
}

// Get returns the tracker for a session, or nil.
func (r *Registry) Get(sessionID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trackers[sessionID]
}

// Remove drops a session's tracker, typically after end.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, sessionID)
}
