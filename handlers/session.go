// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
)

// requireSession returns the caller's session, or writes a 401 and returns
// nil.
func requireSession(w http.ResponseWriter, r *http.Request, sessions *auth.SessionIssuer) *models.Session {
	session := sessions.Current(w, r)
	if session == nil {
		middleware.WriteError(w, r, models.ErrUnauthenticated)
		return nil
	}
	return session
}

// writeSessionError writes err, also clearing the session cookie when the
// store reports that the session's user no longer exists.
func writeSessionError(w http.ResponseWriter, r *http.Request, sessions *auth.SessionIssuer, err error) {
	if errors.Is(err, models.ErrUnauthenticated) {
		sessions.Clear(w)
	}
	middleware.WriteError(w, r, err)
}

// viewerID returns the user ID of an optional session, or "".
func viewerID(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.UserID
}

// summarize builds the list view of polls for viewer. Option counts are
// redacted when viewer may not see results; the total stays.
func summarize(polls []models.Poll, viewer string, now time.Time) []models.PollSummary {
	out := make([]models.PollSummary, len(polls))
	for i, p := range polls {
		visible := models.ResultsVisible(p, viewer)
		if !visible {
			total := p.TotalVotes
			p = p.Redacted()
			p.TotalVotes = total
		}
		out[i] = models.PollSummary{
			Poll:           p,
			OptionCount:    len(p.Options),
			ResultsVisible: visible,
			CreatedAgo:     humanize.RelTime(p.CreatedAt, now, "ago", "from now"),
		}
	}
	return out
}
