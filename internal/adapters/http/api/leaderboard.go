package api

import (
	"net/http"
	"time"

	"github.com/hackfest/vibeboard/internal/domain/model"
	"github.com/hackfest/vibeboard/pkg/logger"
)

// leaderboardPayload is the GET /api/leaderboard data shape. Slices are
// never null in the wire form so polling clients can skip nil checks.
type leaderboardPayload struct {
	Scores      []model.ScoreRecord     `json:"scores"`
	Commentary  []model.CommentaryEvent `json:"commentary"`
	LastRefresh *time.Time              `json:"lastRefresh"`
}

// handleLeaderboard serves the full board state. It always answers 200:
// a store failure degrades to an empty payload with success set false so
// dashboards keep rendering instead of breaking on a poll.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload := leaderboardPayload{
		Scores:     []model.ScoreRecord{},
		Commentary: []model.CommentaryEvent{},
	}
	if last := s.deps.LastRefresh(); !last.IsZero() {
		payload.LastRefresh = &last
	}

	scores, scoresErr := s.deps.Scores(ctx)
	commentary, commentaryErr := s.deps.Commentary(ctx)

	if scoresErr != nil || commentaryErr != nil {
		err := scoresErr
		if err == nil {
			err = commentaryErr
		}
		logger.Get().Named("api").Warn(ctx, "leaderboard read degraded", logger.Error(err))
		writeJSON(w, http.StatusOK, envelope{
			Success: false,
			Data:    payload,
			Error:   err.Error(),
		})
		return
	}

	if scores != nil {
		payload.Scores = scores
	}
	if commentary != nil {
		payload.Commentary = commentary
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: payload})
}
