// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/metrics"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

type PollHandler struct {
	store    *store.Store
	sessions *auth.SessionIssuer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *PollHandler {
	return &PollHandler{
		store:    store.New(db),
		sessions: auth.NewSessionIssuer(cfg),
		metrics:  m,
		now:      time.Now,
	}
}

// ListPolls handles GET /polls
// An optional ?userId= restricts the list to polls created by that user.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(h.sessions.Current(w, r))

	polls, err := h.store.ListPolls(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summarize(polls, viewer, h.now()))
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	question, options, err := models.NormalizePollInput(req.Question, req.Options)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), *session, question, options)
	if err != nil {
		writeSessionError(w, r, h.sessions, err)
		return
	}

	h.metrics.PollsCreated.Inc()
	slog.Info("poll created", "poll_id", poll.ID, "user_id", session.UserID, "options", len(options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		ID:      poll.ID,
		Message: "Poll created successfully",
	})
}

// GetPoll handles GET /polls/{id}
// Counts are redacted unless results are visible to the caller.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	session := h.sessions.Current(w, r)
	viewer := viewerID(session)

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	detail := models.PollDetail{
		Poll:           poll,
		ResultsVisible: models.ResultsVisible(poll, viewer),
	}
	if detail.ResultsVisible {
		detail.Winner = models.ComputeWinner(poll)
	} else {
		detail.Poll = poll.Redacted()
	}

	if viewer != "" {
		voted, err := h.store.HasVoted(r.Context(), pollID, viewer)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}
		detail.HasVoted = voted
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// UpdatePoll handles PUT /polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}
	pollID := r.PathValue("id")

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	question, options, err := models.NormalizePollInput(req.Question, req.Options)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.store.UpdatePoll(r.Context(), session.UserID, pollID, question, options)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("poll updated", "poll_id", pollID, "options", len(poll.Options), "total_votes", poll.TotalVotes)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Poll updated successfully",
	})
}

// DeletePoll handles DELETE /polls/{id}
// The poll's votes are removed with it.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}
	pollID := r.PathValue("id")

	removed, err := h.store.DeletePoll(r.Context(), session.UserID, pollID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	h.metrics.PollsDeleted.Inc()
	slog.Info("poll deleted", "poll_id", pollID, "votes_removed", removed)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Poll deleted successfully",
	})
}
