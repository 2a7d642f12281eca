// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
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

type VotingHandler struct {
	store    *store.Store
	sessions *auth.SessionIssuer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{
		store:    store.New(db),
		sessions: auth.NewSessionIssuer(cfg),
		metrics:  m,
		now:      time.Now,
	}
}

// CastVote handles POST /polls/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}
	pollID := r.PathValue("id")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option index is required")
		return
	}

	vote, err := h.store.CastVote(r.Context(), pollID, session.UserID, *req.OptionIndex)
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			h.metrics.VoteRejections.WithLabelValues(reason).Inc()
			slog.Warn("vote rejected", "poll_id", pollID, "user_id", session.UserID, "reason", reason)
		}
		writeSessionError(w, r, h.sessions, err)
		return
	}

	h.metrics.VotesCast.Inc()
	slog.Info("vote recorded", "poll_id", pollID, "vote_id", vote.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Vote recorded successfully",
	})
}

// HasVoted handles GET /polls/{id}/vote?userId=
func (h *VotingHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "User ID is required")
		return
	}

	voted, err := h.store.HasVoted(r.Context(), pollID, userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{HasVoted: voted})
}

// VotedPolls handles GET /user/voted-polls
// Most recent vote first.
func (h *VotingHandler) VotedPolls(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.sessions)
	if session == nil {
		return
	}

	polls, err := h.store.ListVotedPolls(r.Context(), session.UserID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summarize(polls, session.UserID, h.now()))
}

// rejectionReason maps an expected vote failure to its metrics label, or ""
// for unexpected errors.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrAlreadyVoted):
		return metrics.ReasonDuplicate
	case errors.Is(err, models.ErrVotingClosed):
		return metrics.ReasonClosed
	case errors.Is(err, models.ErrInvalidOption):
		return metrics.ReasonInvalidOption
	case errors.Is(err, models.ErrPollNotFound):
		return metrics.ReasonNotFound
	default:
		return ""
	}
}
