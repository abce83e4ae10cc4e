package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hackfest/vibeboard/internal/adapters/githubapi"
	"github.com/hackfest/vibeboard/internal/domain/model"
)

// analyzeRequest is the POST /api/analyze body. Track rides as a raw
// message so a string where a number belongs is reported as a type
// error, not a decode failure.
type analyzeRequest struct {
	TeamID   *string         `json:"teamId"`
	TeamName *string         `json:"teamName"`
	Repo     *string         `json:"repo"`
	Track    json.RawMessage `json:"track"`
}

// validate returns the list of field-level problems, empty when valid.
func (a analyzeRequest) validate() (track int, problems []string) {
	if a.TeamID == nil || strings.TrimSpace(*a.TeamID) == "" {
		problems = append(problems, "teamId must be a non-empty string")
	}
	if a.TeamName == nil || strings.TrimSpace(*a.TeamName) == "" {
		problems = append(problems, "teamName must be a non-empty string")
	}
	if a.Repo == nil || strings.TrimSpace(*a.Repo) == "" {
		problems = append(problems, "repo must be a non-empty string")
	} else if !strings.Contains(*a.Repo, "github.com") {
		problems = append(problems, "repo must be a github.com URL")
	}
	if len(a.Track) == 0 {
		problems = append(problems, "track must be a number")
	} else if err := json.Unmarshal(a.Track, &track); err != nil {
		problems = append(problems, "track must be a number")
	}
	return track, problems
}

// handleAnalyze runs fetch+score+upsert for exactly one team.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	track, problems := req.validate()
	if len(problems) > 0 {
		writeError(w, http.StatusBadRequest, ErrValidation.Error(), problems...)
		return
	}

	team := model.Team{
		ID:      strings.TrimSpace(*req.TeamID),
		Name:    strings.TrimSpace(*req.TeamName),
		RepoURL: strings.TrimSpace(*req.Repo),
		Track:   track,
	}

	record, err := s.deps.AnalyzeOne(r.Context(), team)
	if err != nil {
		if errors.Is(err, githubapi.ErrInvalidReference) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: record})
}
