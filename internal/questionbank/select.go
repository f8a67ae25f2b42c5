package questionbank

import (
	"errors"
	"math/rand"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

// ErrNoUnseen means every question in the resolved pool (and the generic
// fallback pool, when applicable) has already been asked.
var ErrNoUnseen = errors.New("no unseen questions for this difficulty")

// Select picks an unseen question uniformly at random.
//
// The candidate pool is the track-specific partition for (track, difficulty)
// when one exists, otherwise the generic DSA pool. Questions whose id is in
// askedIDs are filtered out. If the track pool is exhausted the generic pool
// is retried against the same seen-set. An unknown track means "use the
// generic pool".
func (b *Bank) Select(difficulty model.Difficulty, track model.Track, askedIDs []string) (Question, error) {
	if !model.ValidDifficulty(difficulty) {
		return Question{}, errors.New("invalid difficulty")
	}

	asked := make(map[string]bool, len(askedIDs))
	for _, id := range askedIDs {
		asked[id] = true
	}

	var trackPool []Question
	if p, ok := b.tracks[track]; ok {
		trackPool = p[difficulty]
	}

	if len(trackPool) > 0 {
		if q, ok := pickUnseen(trackPool, asked); ok {
			return q, nil
		}
		// Track pool exhausted: fall back to the generic pool with the
		// same seen-set.
	}

	if q, ok := pickUnseen(b.generic[difficulty], asked); ok {
		return q, nil
	}
	return Question{}, ErrNoUnseen
}

func pickUnseen(qs []Question, asked map[string]bool) (Question, bool) {
	unseen := make([]Question, 0, len(qs))
	for _, q := range qs {
		if !asked[q.ID] {
			unseen = append(unseen, q)
		}
	}
	if len(unseen) == 0 {
		return Question{}, false
	}
	return unseen[rand.Intn(len(unseen))], true
}
