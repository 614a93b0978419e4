package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/appengine-ltd/agrodm/internal/account"
)

type ctxKey string

const emailKey ctxKey = "email"

type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// ProfileResponse is the public view of an account.
type ProfileResponse struct {
	Email     string            `json:"email"`
	Username  string            `json:"username"`
	Age       int               `json:"age"`
	Streak    int               `json:"streak"`
	Created   string            `json:"created"`
	LastLogin *string           `json:"last_login"`
	Projects  []account.Project `json:"projects"`
}

func profileOf(u account.User) ProfileResponse {
	return ProfileResponse{
		Email:     u.Email,
		Username:  u.Username,
		Age:       u.Age,
		Streak:    u.Streak,
		Created:   u.Created,
		LastLogin: u.LastLogin,
		Projects:  u.Projects,
	}
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req account.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		accountEvents.WithLabelValues("signup", "invalid").Inc()
		return
	}
	u, err := s.accounts.Signup(req)
	if err != nil {
		accountEvents.WithLabelValues("signup", "error").Inc()
		respondServiceError(w, r, err)
		return
	}
	accountEvents.WithLabelValues("signup", "ok").Inc()
	respondJSON(w, http.StatusCreated, profileOf(u))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := s.accounts.Login(req)
	if err != nil {
		accountEvents.WithLabelValues("login", "error").Inc()
		respondServiceError(w, r, err)
		return
	}
	accountEvents.WithLabelValues("login", "ok").Inc()
	token := s.sessions.Create(u.Email)
	activeSessions.Set(float64(s.sessions.Prune()))
	respondJSON(w, http.StatusOK, LoginResponse{Token: token, Profile: profileOf(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := bearerToken(r); ok {
		s.sessions.Revoke(token)
	}
	activeSessions.Set(float64(s.sessions.Prune()))
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Profile(emailFrom(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profileOf(u))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req account.SettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := s.accounts.UpdateSettings(emailFrom(r.Context()), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profileOf(u))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.accounts.Projects(emailFrom(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"projects": projects, "statuses": account.Statuses()})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in account.ProjectInput
	if !decodeAndValidate(w, r, &in) {
		return
	}
	p, err := s.accounts.CreateProject(emailFrom(r.Context()), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	index, ok := projectIndex(w, r)
	if !ok {
		return
	}
	var up account.ProjectUpdate
	if !decodeAndValidate(w, r, &up) {
		return
	}
	p, err := s.accounts.UpdateProject(emailFrom(r.Context()), index, up)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	index, ok := projectIndex(w, r)
	if !ok {
		return
	}
	if err := s.accounts.DeleteProject(emailFrom(r.Context()), index); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Project deleted"})
}

func projectIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidIndex)
		return 0, false
	}
	return index, true
}

// requireSession rejects requests without a live bearer token and stores
// the session email on the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
			return
		}
		email, ok := s.sessions.Lookup(token)
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), emailKey, email)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func emailFrom(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
