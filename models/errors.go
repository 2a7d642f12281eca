// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status returns the default HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, client-safe error. Message is shown to the client
// as-is. Status overrides the kind's default status when non-zero.
type Error struct {
	Kind    Kind
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind and message so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// HTTPStatus returns the status code to answer with.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.Status()
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationError builds a 400 error with the given message.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "You must be logged in"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "Invalid email or password"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrPollNotFound       = &Error{Kind: KindNotFound, Message: "Poll not found"}
	ErrNotPollOwner       = &Error{Kind: KindForbidden, Message: "You can only modify your own polls"}
	ErrResultsHidden      = &Error{Kind: KindForbidden, Message: "Results are hidden by the poll creator"}
	ErrInvalidOption      = &Error{Kind: KindValidation, Message: "Invalid option index"}
	ErrVotingClosed       = &Error{Kind: KindConflict, Message: "The creator has ended voting for this poll"}

	// Duplicate email and duplicate vote answer 400 on their routes.
	ErrEmailTaken   = &Error{Kind: KindConflict, Message: "User already exists", Status: http.StatusBadRequest}
	ErrAlreadyVoted = &Error{Kind: KindConflict, Message: "You have already voted on this poll", Status: http.StatusBadRequest}
)

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
