// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Poll API.

# Handler Types

  - AuthHandler: Registration, login, logout, current user
  - PollHandler: Poll listing, creation, editing and deletion
  - VotingHandler: Casting votes and vote lookups
  - ResultsHandler: Result breakdown, manual edits, visibility toggle

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(db, cfg, m)

# Sessions

Mutating routes require the session cookie issued by AuthHandler. Missing or
invalid sessions get 401. Operations on another user's poll get 403.

# Result Visibility

Vote counts are visible to the poll's creator, and to everyone once the
creator shows results. Until then GetPoll returns the poll with counts zeroed.
List endpoints return the same redacted polls but keep the total.

Showing results closes voting: CastVote answers 409 while they are shown.

# Errors

Store errors are *models.Error values and map to status codes through
middleware.WriteError. Anything else is logged and answered with 500.
*/
package handlers
