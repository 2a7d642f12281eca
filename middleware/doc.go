// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, duration_ms).

# Request IDs

WithRequestID wraps the whole mux. It reuses a client-supplied X-Request-ID
or generates one, echoes it on the response, and exposes it through
RequestID(ctx) for log lines.

# Metrics

	mux.HandleFunc("GET /polls", middleware.WithMetrics(m, "GET /polls", handler))

Observes request latency labelled by method, route pattern and status.

# Rate Limiting

Login and registration are limited per client IP with a token bucket:

	limiters := middleware.NewRateLimiterRegistry(cfg.AuthRateLimit, cfg.TrustProxy)
	mux.HandleFunc("POST /auth/login", middleware.RateLimit(limiters, m, h.Login))

Rejected requests get 429 with a Retry-After header. Client IPs are only
logged hashed.

# CORS Middleware

Enable cross-origin requests for the configured frontend origins:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins, mux),
	}

Allowed origins are echoed with Access-Control-Allow-Credentials so the
session cookie travels with their requests. Entries like
"http://localhost:*" match any port. Other origins get no CORS headers.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Convert a store or handler error to a response:

	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

*models.Error values keep their message and status; anything else is logged
and answered with a generic 500.

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the client IP:

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

X-Forwarded-For and X-Real-IP are only read when trustProxy is set;
otherwise the peer address is used. Used to key the rate limiter.
*/
package middleware
