package models

import "time"

// Request types

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// UpdatePollRequest replaces the question and option texts of a poll.
// Vote counts are carried over by position.
type UpdatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type EditResultsRequest struct {
	Options []Option `json:"options"`
}

// OptionIndex is a pointer so a missing field can be told apart from 0.
type CastVoteRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

// Response types

type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    *PublicUser `json:"user,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatePollResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ToggleResultsResponse struct {
	ShowResults bool `json:"showResults"`
}

type HasVotedResponse struct {
	HasVoted bool `json:"hasVoted"`
}

// PollSummary is the list representation of a poll. Option counts are
// zeroed when ResultsVisible is false; TotalVotes is always reported.
type PollSummary struct {
	Poll
	OptionCount    int    `json:"optionCount"`
	ResultsVisible bool   `json:"resultsVisible"`
	CreatedAgo     string `json:"createdAgo"`
}

// PollDetail is a poll as seen by one viewer. Counts are zeroed when
// ResultsVisible is false.
type PollDetail struct {
	Poll
	ResultsVisible bool    `json:"resultsVisible"`
	HasVoted       bool    `json:"hasVoted"`
	Winner         *Winner `json:"winner,omitempty"`
}

type OptionResult struct {
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

type ResultsResponse struct {
	PollID      string         `json:"pollId"`
	Question    string         `json:"question"`
	TotalVotes  int            `json:"totalVotes"`
	ShowResults bool           `json:"showResults"`
	Options     []OptionResult `json:"options"`
	Winner      *Winner        `json:"winner,omitempty"`
}

// Domain types

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Session is the identity carried by a verified session token.
type Session struct {
	UserID    string
	Name      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Option struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []Option   `json:"options"`
	CreatedBy     string     `json:"createdBy"`
	CreatedByName string     `json:"createdByName"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	TotalVotes    int        `json:"totalVotes"`
	ShowResults   bool       `json:"showResults"`
}

type Vote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"pollId"`
	UserID      string    `json:"userId"`
	OptionIndex int       `json:"optionIndex"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
