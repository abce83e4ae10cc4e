package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/hackfest/vibeboard/internal/domain/model"
)

// refreshResponse wraps the pass summary with a completion timestamp.
type refreshResponse struct {
	Summary   model.RefreshSummary `json:"summary"`
	Timestamp time.Time            `json:"timestamp"`
}

// handleRefresh triggers a full refresh pass. In production the request
// must carry the configured bearer secret; development bypasses the
// check so a browser tab can drive the board.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.production && s.refreshSecret != "" {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || token == auth ||
			subtle.ConstantTimeCompare([]byte(token), []byte(s.refreshSecret)) != 1 {
			writeError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
	}

	summary, err := s.deps.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "refresh complete",
		Data:    refreshResponse{Summary: summary, Timestamp: time.Now().UTC()},
	})
}
