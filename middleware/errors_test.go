// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/quickly-poll/metrics"
	"github.com/danielhkuo/quickly-poll/models"
)

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"not found", models.ErrPollNotFound, http.StatusNotFound, "Poll not found"},
		{"forbidden", models.ErrNotPollOwner, http.StatusForbidden, "You can only modify your own polls"},
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized, "You must be logged in"},
		{"voting closed", models.ErrVotingClosed, http.StatusConflict, "The creator has ended voting for this poll"},
		{"duplicate vote keeps route status", models.ErrAlreadyVoted, http.StatusBadRequest, "You have already voted on this poll"},
		{"wrapped sentinel", fmt.Errorf("cast vote: %w", models.ErrInvalidOption), http.StatusBadRequest, "Invalid option index"},
		{"validation", models.ValidationError("Name is required"), http.StatusBadRequest, "Name is required"},
		{"internal detail hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/polls/1", nil)
			w := httptest.NewRecorder()

			WriteError(w, req, tc.err)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Message != tc.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tc.expectedMessage, resp.Message)
			}
			if resp.Error != http.StatusText(tc.expectedStatus) {
				t.Errorf("Expected error '%s', got '%s'", http.StatusText(tc.expectedStatus), resp.Error)
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	t.Run("generates an ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		if seen == "" {
			t.Fatal("Expected request ID in context")
		}
		if w.Header().Get(RequestIDHeader) != seen {
			t.Errorf("Expected response header %q, got %q", seen, w.Header().Get(RequestIDHeader))
		}
	})

	t.Run("reuses client ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if seen != "trace-123" {
			t.Errorf("Expected 'trace-123', got %q", seen)
		}
	})

	t.Run("no ID outside the middleware", func(t *testing.T) {
		if id := RequestID(httptest.NewRequest("GET", "/", nil).Context()); id != "" {
			t.Errorf("Expected empty ID, got %q", id)
		}
	})
}

func TestWithMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	handler := WithMetrics(m, "GET /polls/{id}", func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusNotFound, "Poll not found")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/polls/abc", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if n := testutil.CollectAndCount(m.RequestDuration); n != 1 {
		t.Errorf("Expected 1 histogram series, got %d", n)
	}
}
