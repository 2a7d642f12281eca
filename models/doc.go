// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, email, password
  - LoginRequest: email, password
  - CreatePollRequest / UpdatePollRequest: question, options ([]string)
  - EditResultsRequest: options ([]Option with text and votes)
  - CastVoteRequest: optionIndex

# Response Types

  - AuthResponse: success, message, user
  - CreatePollResponse: id, message
  - PollSummary: list entry, a poll with option count and humanized age
  - PollDetail: a poll as seen by one viewer (resultsVisible, hasVoted, winner)
  - ResultsResponse: per-option votes and percentages
  - ToggleResultsResponse, HasVotedResponse, MessageResponse
  - ErrorResponse: error, message

# Domain Types

  - User: account with bcrypt password hash (never serialized)
  - Session: identity carried by a verified session token
  - Poll: question, ordered options, creator snapshot, totals, visibility
  - Option: text and vote count
  - Vote: one (poll, user) ballot

# Results Rules

	winner := models.ComputeWinner(poll)            // nil when no votes
	opts := models.RemapOptions(poll.Options, texts) // positional count carry-over
	ok := models.ResultsVisible(poll, viewerID)      // showResults or creator

# Errors

Errors returned to clients are *Error values with a Kind:

	KindValidation      → 400
	KindUnauthenticated → 401
	KindForbidden       → 403
	KindNotFound        → 404
	KindConflict        → 409 (ErrEmailTaken and ErrAlreadyVoted use 400)
	KindInternal        → 500

Compare with errors.Is(err, models.ErrPollNotFound).
*/
package models
