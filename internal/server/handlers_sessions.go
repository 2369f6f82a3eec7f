package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/types"
)

// handleCreateSession opens a new wizard session for the caller.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sess, err := s.sessions.CreateSession(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.CreateSessionResponse{
		SessionID: sess.ID.String(),
	})
}

// handleUpdateSession sets snapshot fields addressed by dotted paths. The
// session is named by the session_id query parameter.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sessionID, err := sessionIDFromQuery(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var fields map[string]any
	if err := s.decodeBody(r, &fields); err != nil {
		s.fail(w, err)
		return
	}
	if len(fields) == 0 {
		s.fail(w, &ErrValidation{Message: "no fields to update"})
		return
	}

	sess, err := s.sessions.UpdateSnapshotFields(r.Context(), sessionID, userID, fields)
	if err != nil {
		s.fail(w, err)
		return
	}
	if sess == nil {
		s.fail(w, &ErrSessionNotFound{SessionID: sessionID.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message":    "session updated",
		"session_id": sess.ID.String(),
	})
}

// handleResumeData returns the full snapshot for resuming a wizard.
func (s *Server) handleResumeData(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "id", Message: "invalid session id"})
		return
	}

	sess, err := s.sessions.GetSession(r.Context(), sessionID, userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if sess == nil {
		s.fail(w, &ErrSessionNotFound{SessionID: sessionID.String()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if len(sess.Snapshot) == 0 {
		_, _ = w.Write([]byte("{}"))
		return
	}
	_, _ = w.Write(sess.Snapshot)
}

func sessionIDFromQuery(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("session_id")
	if raw == "" {
		return uuid.Nil, &ErrValidation{Field: "session_id", Message: "session_id is required"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "session_id", Message: "invalid session id"}
	}
	return id, nil
}

// sessionState is the decoded snapshot the AI handlers work with. It extends
// the client-visible snapshot with the stored job analysis.
type sessionState struct {
	types.ResumeSnapshot
	JobAnalysis *jobAnalysis `json:"job_analysis,omitempty"`
}

type jobAnalysis struct {
	ParsedRequirements []types.RequirementField `json:"parsed_requirements,omitempty"`
	ExtractedKeywords  []string                 `json:"extracted_keywords,omitempty"`
	MissingFields      []types.RequirementField `json:"missing_fields,omitempty"`
}

func decodeState(raw []byte) (*sessionState, error) {
	state := &sessionState{}
	if len(raw) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, err
	}
	return state, nil
}
