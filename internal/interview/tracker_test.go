package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

func startedTracker(t *testing.T) *Tracker {
	t.Helper()
	tr := NewTracker()
	require.NoError(t, tr.Start("sess-1", model.TrackFrontend, model.DifficultyEasy, model.ModeText))
	return tr
}

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, StateIdle, tr.Snapshot().State)

	require.NoError(t, tr.Start("sess-1", model.TrackBackend, model.DifficultyMedium, model.ModeVoice))
	assert.Equal(t, StateActive, tr.Snapshot().State)

	// Starting twice is rejected.
	assert.ErrorIs(t, tr.Start("sess-2", model.TrackBackend, model.DifficultyMedium, model.ModeVoice), ErrAlreadyStarted)

	require.NoError(t, tr.Pause())
	assert.Equal(t, StatePaused, tr.Snapshot().State)

	require.NoError(t, tr.Resume())
	assert.Equal(t, StateActive, tr.Snapshot().State)

	require.NoError(t, tr.End())
	assert.Equal(t, StateEnded, tr.Snapshot().State)
}

func TestTrackerEndFromPaused(t *testing.T) {
	tr := startedTracker(t)
	require.NoError(t, tr.Pause())
	assert.NoError(t, tr.End())
}

func TestTrackerInvalidTransitions(t *testing.T) {
	tr := NewTracker()
	assert.ErrorIs(t, tr.Pause(), ErrNotActive)
	assert.Error(t, tr.Resume())
	assert.ErrorIs(t, tr.End(), ErrNotActive)

	require.NoError(t, tr.Start("s", model.TrackDSA, model.DifficultyHard, model.ModeCode))
	require.NoError(t, tr.End())
	assert.ErrorIs(t, tr.End(), ErrNotActive)
}

func TestTrackerSubmissionGuard(t *testing.T) {
	tr := startedTracker(t)

	require.NoError(t, tr.BeginSubmission())
	assert.ErrorIs(t, tr.BeginSubmission(), ErrSubmissionInFlight)

	tr.EndSubmission()
	assert.NoError(t, tr.BeginSubmission())
}

func TestTrackerSubmissionRequiresActive(t *testing.T) {
	tr := startedTracker(t)
	require.NoError(t, tr.Pause())
	assert.ErrorIs(t, tr.BeginSubmission(), ErrNotActive)
}

func TestTrackerTranscriptAndAskedLog(t *testing.T) {
	tr := startedTracker(t)

	m1 := tr.AddMessage(model.AuthorAI, "Welcome!")
	m2 := tr.AddMessage(model.AuthorUser, "Thanks.")
	assert.NotEmpty(t, m1.ID)
	assert.NotEqual(t, m1.ID, m2.ID)

	tr.RecordAsked(model.DifficultyEasy, "q1")
	tr.RecordAsked(model.DifficultyEasy, "q2")
	tr.RecordAsked(model.DifficultyMedium, "q3")

	assert.Equal(t, []string{"q1", "q2"}, tr.AskedFor(model.DifficultyEasy))
	assert.Equal(t, []string{"q3"}, tr.AskedFor(model.DifficultyMedium))
	assert.Empty(t, tr.AskedFor(model.DifficultyHard))

	snap := tr.Snapshot()
	assert.Len(t, snap.Messages, 2)
	assert.Equal(t, "Welcome!", snap.Messages[0].Content)
}

func TestTrackerSnapshotIsACopy(t *testing.T) {
	tr := startedTracker(t)
	tr.RecordAsked(model.DifficultyEasy, "q1")

	snap := tr.Snapshot()
	snap.Asked[model.DifficultyEasy][0] = "mutated"
	snap.Messages = append(snap.Messages, model.Message{Content: "x"})

	assert.Equal(t, []string{"q1"}, tr.AskedFor(model.DifficultyEasy))
	assert.Empty(t, tr.Snapshot().Messages)
}

func TestTrackerResetRestoresInitialState(t *testing.T) {
	tr := startedTracker(t)
	tr.AddMessage(model.AuthorAI, "hi")
	tr.RecordAsked(model.DifficultyEasy, "q1")
	tr.SetCurrentQuestion("q1")
	tr.SetTimer(120)
	require.NoError(t, tr.BeginSubmission())

	tr.Reset()

	fresh := NewTracker().Snapshot()
	assert.Equal(t, fresh, tr.Snapshot())

	// A reset tracker behaves like a new one.
	assert.NoError(t, tr.Start("sess-2", model.TrackBackend, model.DifficultyHard, model.ModeCode))
	assert.NoError(t, tr.BeginSubmission())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	tr, err := reg.Create("s1", model.TrackFrontend, model.DifficultyEasy, model.ModeText)
	require.NoError(t, err)
	assert.Equal(t, StateActive, tr.Snapshot().State)
	assert.Same(t, tr, reg.Get("s1"))

	_, err = reg.Create("s1", model.TrackFrontend, model.DifficultyEasy, model.ModeText)
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	assert.Nil(t, reg.Get("missing"))

	reg.Remove("s1")
	assert.Nil(t, reg.Get("s1"))
}
