package server

import (
	"net/http"

	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/types"
)

// handleSignup creates an account, signs a token, and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, &ErrValidation{Message: err.Error()})
		return
	}

	existing, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.fail(w, err)
		return
	}
	if existing != nil {
		s.fail(w, &ErrEmailAlreadyExists{Email: req.Email})
		return
	}

	hash, err := s.password.Hash(req.Password)
	if err != nil {
		s.fail(w, err)
		return
	}
	user, err := s.users.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		s.fail(w, err)
		return
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jwt.setAuthCookie(w, token)
	s.jsonResponse(w, http.StatusCreated, types.AuthResponse{
		Message: "account created",
		UserID:  user.ID,
		Email:   user.Email,
	})
}

// handleLogin verifies credentials and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, &ErrValidation{Message: err.Error()})
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.fail(w, err)
		return
	}
	if user == nil || !s.password.Verify(req.Password, user.PasswordHash) {
		s.fail(w, &ErrInvalidCredentials{})
		return
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jwt.setAuthCookie(w, token)
	s.jsonResponse(w, http.StatusOK, types.AuthResponse{
		Message: "logged in",
		UserID:  user.ID,
		Email:   user.Email,
	})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.jwt.clearAuthCookie(w)
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// handleMe returns the authenticated account.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := s.users.GetUserByID(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if user == nil {
		s.fail(w, &ErrUserNotFound{UserID: userID})
		return
	}
	s.jsonResponse(w, http.StatusOK, types.AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
