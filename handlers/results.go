// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

type ResultsHandler struct {
	store    *store.Store
	sessions *auth.SessionIssuer
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{
		store:    store.New(db),
		sessions: auth.NewSessionIssuer(cfg),
	}
}

// GetResults handles GET /polls/{id}/results
// Returns 403 while the creator keeps results hidden from the caller.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	viewer := viewerID(h.sessions.Current(w, r))

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if !models.ResultsVisible(poll, viewer) {
		middleware.WriteError(w, r, models.ErrResultsHidden)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll.Results())
}

// EditResults handles PUT /polls/{id}/edit-results
// Overwrites option texts and counts directly; the vote ledger is not touched.
func (h *ResultsHandler) EditResults(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}
	pollID := r.PathValue("id")

	var req models.EditResultsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	options, err := models.NormalizeResults(req.Options)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.store.SetResults(r.Context(), session.UserID, pollID, options)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("poll results edited", "poll_id", pollID, "user_id", session.UserID, "total_votes", poll.TotalVotes)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Poll results updated successfully",
	})
}

// ToggleResults handles POST /polls/{id}/toggle-results
func (h *ResultsHandler) ToggleResults(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}
	pollID := r.PathValue("id")

	show, err := h.store.ToggleResults(r.Context(), session.UserID, pollID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("poll results toggled", "poll_id", pollID, "show_results", show)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleResultsResponse{ShowResults: show})
}
