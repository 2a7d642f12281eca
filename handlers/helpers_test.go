// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/metrics"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/testutil"
)

// testEnv bundles the handlers under test with their shared database.
type testEnv struct {
	db      *sql.DB
	cfg     cliparse.Config
	metrics *metrics.Metrics

	auth    *AuthHandler
	polls   *PollHandler
	voting  *VotingHandler
	results *ResultsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })

	cfg := testutil.GetTestConfig()
	m := metrics.New(prometheus.NewRegistry())

	return &testEnv{
		db:      db,
		cfg:     cfg,
		metrics: m,
		auth:    NewAuthHandler(db, cfg, m),
		polls:   NewPollHandler(db, cfg, m),
		voting:  NewVotingHandler(db, cfg, m),
		results: NewResultsHandler(db, cfg),
	}
}

// user creates a user and returns it with a session cookie.
func (e *testEnv) user(t *testing.T, name, email string) (models.User, *http.Cookie) {
	t.Helper()
	u := testutil.CreateTestUser(t, e.db, name, email)
	return u, testutil.SessionCookie(t, e.cfg, u)
}

// request builds a request with an optional cookie and the {id} path value.
func request(method, path, pollID string, body interface{}, cookie *http.Cookie) *http.Request {
	req := testutil.MakeAuthRequest(method, path, body, cookie)
	if pollID != "" {
		req.SetPathValue("id", pollID)
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// responseCookie returns the session cookie set on the response, or nil.
func responseCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func intPtr(i int) *int {
	return &i
}
