// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Poll API server.

Quickly Poll is a single-choice polling service. Registered users create
polls, every user votes at most once per poll, and the creator decides when
the results become public. Revealing the results closes voting.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	DATABASE_URL=quickly-poll.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): Session signing secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - APP_ENV (--env): development or production (default: development)
  - SESSION_TTL, BCRYPT_COST, AUTH_RATE_LIMIT
  - TRUST_PROXY (--trust-proxy): honor forwarding headers (default: false)
  - CORS_ORIGINS (--cors-origins): allowed browser origins

# Architecture

  - handlers: HTTP request handlers (auth, polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - store: Transactional persistence of users, polls and votes
  - middleware: CORS, request IDs, logging, metrics, rate limiting
  - models: Request/response types, errors, result computation
  - auth: Password hashing, IDs and signed session cookies
  - metrics: Prometheus collectors
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
