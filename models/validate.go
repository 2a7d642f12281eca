// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "strings"

var (
	errPollInput    = ValidationError("Question and at least two options are required")
	errBlankOption  = ValidationError("Options cannot be blank")
	errResultsInput = ValidationError("Invalid options data")
)

// NormalizePollInput trims the question and option texts and checks that a
// poll can be built from them.
func NormalizePollInput(question string, options []string) (string, []string, error) {
	question = strings.TrimSpace(question)
	if question == "" || len(options) < MinOptions {
		return "", nil, errPollInput
	}

	texts := make([]string, len(options))
	for i, o := range options {
		texts[i] = strings.TrimSpace(o)
		if texts[i] == "" {
			return "", nil, errBlankOption
		}
	}
	return question, texts, nil
}

// NormalizeResults trims option texts of a manual results edit and rejects
// negative counts.
func NormalizeResults(options []Option) ([]Option, error) {
	if len(options) < MinOptions {
		return nil, errResultsInput
	}

	out := make([]Option, len(options))
	for i, o := range options {
		text := strings.TrimSpace(o.Text)
		if text == "" || o.Votes < 0 {
			return nil, errResultsInput
		}
		out[i] = Option{Text: text, Votes: o.Votes}
	}
	return out, nil
}
