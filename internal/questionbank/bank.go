// Package questionbank serves coding problems from static catalogs
// partitioned by track and difficulty.
package questionbank

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
)

//go:embed data/questions.json data/track-questions.json
var dataFS embed.FS

// Question is one entry of a catalog partition. Within a partition every
// id is unique.
type Question struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Question    string    `json:"question"`
	Constraints string    `json:"constraints"`
	Examples    []Example `json:"examples"`
}

type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type pool map[model.Difficulty][]Question

// Bank holds the generic DSA pool plus track-specific pools.
type Bank struct {
	generic pool
	tracks  map[model.Track]pool
}

// New loads the embedded catalogs.
func New() (*Bank, error) {
	dsaRaw, err := dataFS.ReadFile("data/questions.json")
	if err != nil {
		return nil, fmt.Errorf("read dsa catalog: %w", err)
	}
	trackRaw, err := dataFS.ReadFile("data/track-questions.json")
	if err != nil {
		return nil, fmt.Errorf("read track catalog: %w", err)
	}
	return Load(dsaRaw, trackRaw)
}

// Load builds a Bank from raw catalog JSON. Exposed for tests.
func Load(dsaRaw, trackRaw []byte) (*Bank, error) {
	var generic pool
	if err := json.Unmarshal(dsaRaw, &generic); err != nil {
		return nil, fmt.Errorf("parse dsa catalog: %w", err)
	}

	var tracks map[model.Track]pool
	if err := json.Unmarshal(trackRaw, &tracks); err != nil {
		return nil, fmt.Errorf("parse track catalog: %w", err)
	}

	b := &Bank{generic: generic, tracks: tracks}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// validate enforces id uniqueness within each partition.
func (b *Bank) validate() error {
	check := func(name string, qs []Question) error {
		seen := make(map[string]bool, len(qs))
		for _, q := range qs {
			if q.ID == "" {
				return fmt.Errorf("partition %s: question %q has no id", name, q.Title)
			}
			if seen[q.ID] {
				return fmt.Errorf("partition %s: duplicate question id %q", name, q.ID)
			}
			seen[q.ID] = true
		}
		return nil
	}

	for diff, qs := range b.generic {
		if err := check(fmt.Sprintf("dsa/%s", diff), qs); err != nil {
			return err
		}
	}
	for track, p := range b.tracks {
		for diff, qs := range p {
			if err := check(fmt.Sprintf("%s/%s", track, diff), qs); err != nil {
				return err
			}
		}
	}
	return nil
}
