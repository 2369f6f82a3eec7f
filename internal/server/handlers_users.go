package server

import (
	"net/http"

	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/types"
)

// handleUpdateProfile merges the personal-info step into the user record.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var update types.PersonalInfoUpdate
	if err := s.decodeBody(r, &update); err != nil {
		s.fail(w, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		s.fail(w, err)
		return
	}
	if user == nil {
		s.fail(w, &ErrUserNotFound{UserID: userID})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": "personal info updated",
		"user":    user,
	})
}

// handleAddKnowledgeGraph appends one step's records to the user's stored
// knowledge graph. Absent sections stay untouched.
func (s *Server) handleAddKnowledgeGraph(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var add types.KnowledgeGraphAdd
	if err := s.decodeBody(r, &add); err != nil {
		s.fail(w, err)
		return
	}

	graph, err := s.users.AddKnowledgeGraph(r.Context(), userID, add)
	if err != nil {
		s.fail(w, err)
		return
	}
	if graph == nil {
		s.fail(w, &ErrUserNotFound{UserID: userID})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message":         "knowledge graph updated",
		"knowledge_graph": graph,
	})
}
