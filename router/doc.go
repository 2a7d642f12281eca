// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Poll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

The caller wraps the mux with middleware.WithRequestID and middleware.CORS.

# Endpoints

Health and monitoring:

	GET /health  - Liveness probe
	GET /metrics - Prometheus metrics

Accounts (register and login are rate limited per client IP):

	POST /auth/register - Create account, sets session cookie
	POST /auth/login    - Sign in, sets session cookie
	POST /auth/logout   - Clear session cookie
	GET  /auth/me       - Current user

Polls:

	GET    /polls       - List polls (?userId= filters by creator)
	POST   /polls       - Create poll (session required)
	GET    /polls/{id}  - Poll detail, counts hidden until visible
	PUT    /polls/{id}  - Edit question and options (creator)
	DELETE /polls/{id}  - Delete poll and its votes (creator)

Results:

	GET  /polls/{id}/results        - Breakdown (creator, or anyone once shown)
	PUT  /polls/{id}/edit-results   - Overwrite options and counts (creator)
	POST /polls/{id}/toggle-results - Show or hide results (creator)

Voting:

	POST /polls/{id}/vote    - Cast a vote (session required)
	GET  /polls/{id}/vote    - Has ?userId= voted
	GET  /user/voted-polls   - Polls the current user voted on

Every API route is wrapped with request logging and a latency histogram
labelled by route pattern.
*/
package router
