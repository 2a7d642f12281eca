// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/metrics"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

type AuthHandler struct {
	store    *store.Store
	sessions *auth.SessionIssuer
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		store:    store.New(db),
		sessions: auth.NewSessionIssuer(cfg),
		metrics:  m,
		cfg:      cfg,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := auth.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password is too long")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), name, email, hash)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			slog.Warn("registration with existing email")
		}
		middleware.WriteError(w, r, err)
		return
	}

	public := user.Public()
	if err := h.sessions.Issue(w, public); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	h.metrics.Registrations.Inc()
	slog.Info("user registered", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    &public,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if errors.Is(err, models.ErrUserNotFound) {
		h.loginFailed(w, r)
		return
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			slog.Error("failed to check password", "user_id", user.ID, "error", err)
		}
		h.loginFailed(w, r)
		return
	}

	public := user.Public()
	if err := h.sessions.Issue(w, public); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	h.metrics.Logins.WithLabelValues("success").Inc()
	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    &public,
	})
}

// Unknown email and wrong password answer the same way.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request) {
	h.metrics.Logins.WithLabelValues("failure").Inc()
	middleware.WriteError(w, r, models.ErrInvalidCredentials)
}

// Logout handles POST /auth/logout
// The cookie is cleared unconditionally; issued tokens stay valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Logged out successfully",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), session.UserID)
	if errors.Is(err, models.ErrUserNotFound) {
		// Valid token for a user that no longer exists
		h.sessions.Clear(w)
		middleware.WriteError(w, r, models.ErrUnauthenticated)
		return
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user.Public())
}
