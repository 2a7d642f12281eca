// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/handlers"
	"github.com/danielhkuo/quickly-poll/metrics"
	"github.com/danielhkuo/quickly-poll/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	registry := metrics.NewRegistry()
	m := metrics.New(registry)
	authLimiter := middleware.NewRateLimiterRegistry(cfg.AuthRateLimit, cfg.TrustProxy)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, m)
	pollHandler := handlers.NewPollHandler(db, cfg, m)
	votingHandler := handlers.NewVotingHandler(db, cfg, m)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// handle registers h with request logging and latency metrics labelled
	// by the route pattern
	handle := func(pattern string, h http.HandlerFunc) {
		route := pattern[strings.Index(pattern, " ")+1:]
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(m, route, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler(registry))

	// Accounts
	handle("POST /auth/register", middleware.RateLimit(authLimiter, m, authHandler.Register))
	handle("POST /auth/login", middleware.RateLimit(authLimiter, m, authHandler.Login))
	handle("POST /auth/logout", authHandler.Logout)
	handle("GET /auth/me", authHandler.Me)

	// Polls
	handle("GET /polls", pollHandler.ListPolls)
	handle("POST /polls", pollHandler.CreatePoll)
	handle("GET /polls/{id}", pollHandler.GetPoll)
	handle("PUT /polls/{id}", pollHandler.UpdatePoll)
	handle("DELETE /polls/{id}", pollHandler.DeletePoll)

	// Results (creator only, except GET once shown)
	handle("GET /polls/{id}/results", resultsHandler.GetResults)
	handle("PUT /polls/{id}/edit-results", resultsHandler.EditResults)
	handle("POST /polls/{id}/toggle-results", resultsHandler.ToggleResults)

	// Voting
	handle("POST /polls/{id}/vote", votingHandler.CastVote)
	handle("GET /polls/{id}/vote", votingHandler.HasVoted)
	handle("GET /user/voted-polls", votingHandler.VotedPolls)

	// Root endpoint; {$} keeps it from catching unknown paths
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-poll API v1"))
	})

	return mux
}
