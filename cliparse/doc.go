// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type (sqlite or postgres)
	--jwt-secret   Session signing secret
	--env          development or production
	--session-ttl  Session lifetime
	--bcrypt-cost  bcrypt work factor
	--auth-rate    Login/register attempts per minute per IP
	--trust-proxy  Read client IPs from X-Forwarded-For / X-Real-IP
	--cors-origins Comma-separated allowed origins; "host:*" matches any port

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	JWT_SECRET      → --jwt-secret
	APP_ENV         → --env
	SESSION_TTL     → --session-ttl
	BCRYPT_COST     → --bcrypt-cost
	AUTH_RATE_LIMIT → --auth-rate
	TRUST_PROXY     → --trust-proxy
	CORS_ORIGINS    → --cors-origins

CLI flags take precedence over environment variables. main loads a .env file
into the environment first.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - JWT_SECRET is missing
  - the database type or environment is unknown
  - the session TTL, bcrypt cost or rate limit is out of range
  - the trust proxy setting is not a boolean

Session cookies are marked Secure outside development. In development the
CORS allowlist defaults to DevAllowedOrigins; in production it is empty
unless set.
*/
package cliparse
