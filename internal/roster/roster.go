// Package roster loads the static team roster from a YAML file. The
// roster is read once at process start and never mutated.
package roster

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hackfest/vibeboard/internal/domain/model"
)

// Sentinel kinds for roster errors.
var (
	ErrEmptyRoster  = errors.New("roster has no teams")
	ErrDuplicateID  = errors.New("duplicate team id")
	ErrInvalidTeam  = errors.New("invalid team entry")
	ErrInvalidTrack = errors.New("track must be 1 or 2")
)

type rosterFile struct {
	Teams []model.Team `yaml:"teams"`
}

// Load reads and validates the roster at path.
func Load(path string) ([]model.Team, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var rf rosterFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	if len(rf.Teams) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[string]bool, len(rf.Teams))
	for _, t := range rf.Teams {
		if t.ID == "" || t.Name == "" || t.RepoURL == "" {
			return nil, fmt.Errorf("%w: id=%q name=%q repo=%q", ErrInvalidTeam, t.ID, t.Name, t.RepoURL)
		}
		if t.Track != 1 && t.Track != 2 {
			return nil, fmt.Errorf("%w: team %s has track %d", ErrInvalidTrack, t.ID, t.Track)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = true
	}

	return rf.Teams, nil
}
