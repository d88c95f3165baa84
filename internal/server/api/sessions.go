package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/fitassess/internal/results"
	"github.com/ayusman/fitassess/internal/store"
)

// SessionHandler serves the saved session history.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type sessionResponse struct {
	ID           string           `json:"id"`
	UserHeightCm float64          `json:"user_height_cm"`
	OverallScore float64          `json:"overall_score"`
	CreatedAt    string           `json:"created_at"`
	Results      []results.Record `json:"results,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		UserHeightCm: s.UserHeightCm,
		OverallScore: s.OverallScore,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

// ServeHTTP routes /api/sessions and /api/sessions/{id}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions"), "/")

	if id == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.list(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SessionHandler) list(w http.ResponseWriter) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) get(w http.ResponseWriter, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	recs, err := h.store.Results().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}

	resp := toSessionResponse(sess)
	resp.Results = recs
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) delete(w http.ResponseWriter, id string) {
	err := h.store.Sessions().Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
