// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"math"
	"strings"
)

// MinOptions is the smallest number of options a poll may have.
const MinOptions = 2

// Winner describes the leading option(s) of a poll.
type Winner struct {
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Votes      int      `json:"votes"`
	Percentage int      `json:"percentage"`
	IsTie      bool     `json:"isTie"`
}

// SumVotes adds up the vote counts of opts.
func SumVotes(opts []Option) int {
	total := 0
	for _, o := range opts {
		total += o.Votes
	}
	return total
}

// Percent returns round(part / total * 100), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// ComputeWinner returns the option(s) holding the most votes. It returns nil
// when the poll has no votes. Options sharing the maximum are reported as a
// tie, their texts joined with " & ".
func ComputeWinner(p Poll) *Winner {
	if p.TotalVotes == 0 {
		return nil
	}

	maxVotes := 0
	var leaders []string
	for _, o := range p.Options {
		switch {
		case o.Votes > maxVotes:
			maxVotes = o.Votes
			leaders = []string{o.Text}
		case o.Votes == maxVotes:
			leaders = append(leaders, o.Text)
		}
	}
	if len(leaders) == 0 {
		return nil
	}

	return &Winner{
		Text:       strings.Join(leaders, " & "),
		Options:    leaders,
		Votes:      maxVotes,
		Percentage: Percent(maxVotes, p.TotalVotes),
		IsTie:      len(leaders) > 1,
	}
}

// RemapOptions builds the option list for an edited poll. The option at
// position i keeps the count previously held at position i, or starts at 0.
// Reordering texts therefore moves counts with the position, not the text.
func RemapOptions(existing []Option, texts []string) []Option {
	out := make([]Option, len(texts))
	for i, text := range texts {
		out[i] = Option{Text: text}
		if i < len(existing) {
			out[i].Votes = existing[i].Votes
		}
	}
	return out
}

// ResultsVisible reports whether viewerID may see the counts of p.
// viewerID is empty for anonymous viewers.
func ResultsVisible(p Poll, viewerID string) bool {
	return p.ShowResults || (viewerID != "" && viewerID == p.CreatedBy)
}

// Redacted returns a copy of p with every count cleared.
func (p Poll) Redacted() Poll {
	out := p
	out.Options = make([]Option, len(p.Options))
	for i, o := range p.Options {
		out.Options[i] = Option{Text: o.Text}
	}
	out.TotalVotes = 0
	return out
}

// Results builds the per-option breakdown of p.
func (p Poll) Results() ResultsResponse {
	opts := make([]OptionResult, len(p.Options))
	for i, o := range p.Options {
		opts[i] = OptionResult{
			Text:       o.Text,
			Votes:      o.Votes,
			Percentage: Percent(o.Votes, p.TotalVotes),
		}
	}
	return ResultsResponse{
		PollID:      p.ID,
		Question:    p.Question,
		TotalVotes:  p.TotalVotes,
		ShowResults: p.ShowResults,
		Options:     opts,
		Winner:      ComputeWinner(p),
	}
}
