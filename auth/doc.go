// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, identifiers and session cookies.

# Passwords

Passwords are hashed with bcrypt at the configured cost:

	hash, err := auth.HashPassword(password, cfg.BcryptCost)
	err = auth.CheckPassword(hash, password)

bcrypt ignores input past MaxPasswordBytes, so longer passwords are rejected
before hashing.

# Sessions

A SessionIssuer signs HS256 JWTs carrying the user's id, name and email and
stores them in the HttpOnly "auth-token" cookie:

	sessions := auth.NewSessionIssuer(cfg)
	err := sessions.Issue(w, user.Public())
	session := sessions.Current(w, r) // nil when absent or invalid
	sessions.Clear(w)

An invalid or expired cookie is cleared on the response. Sessions are not
stored server-side.

# Emails

Emails are compared after NormalizeEmail (trimmed, lower-cased).

# ID Generation

Random hex IDs for request correlation:

	id, err := auth.GenerateID(8) // 16 hex characters

# IP Hashing

For logging clients without recording addresses:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
