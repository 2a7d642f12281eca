// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/models"
)

// CastVote records userID's vote for the option at optionIndex and bumps the
// option and poll tallies. A user can vote once per poll; the second attempt
// fails with models.ErrAlreadyVoted and leaves the tallies alone. Voting is
// closed once the creator has made results public.
func (s *Store) CastVote(ctx context.Context, pollID, userID string, optionIndex int) (models.Vote, error) {
	vote := models.Vote{
		ID:          uuid.NewString(),
		PollID:      pollID,
		UserID:      userID,
		OptionIndex: optionIndex,
		CreatedAt:   s.now(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var showResults bool
		var optionCount int
		err := tx.QueryRowContext(ctx, `
			SELECT p.show_results,
				(SELECT COUNT(*) FROM poll_option o WHERE o.poll_id = p.id)
			FROM poll p
			WHERE p.id = $1
		`, pollID).Scan(&showResults, &optionCount)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrPollNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query poll: %w", err)
		}

		if optionIndex < 0 || optionIndex >= optionCount {
			return models.ErrInvalidOption
		}
		if showResults {
			return models.ErrVotingClosed
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (id, poll_id, user_id, option_index, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, vote.ID, vote.PollID, vote.UserID, vote.OptionIndex, vote.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return models.ErrAlreadyVoted
			}
			if isForeignKeyViolation(err) {
				return models.ErrUnauthenticated
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		// Conditional on show_results so a concurrent toggle cannot slip a vote in.
		res, err := tx.ExecContext(ctx, `
			UPDATE poll SET total_votes = total_votes + 1
			WHERE id = $1 AND show_results = FALSE
		`, pollID)
		if err != nil {
			return fmt.Errorf("failed to update poll total: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrVotingClosed
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE poll_option SET votes = votes + 1
			WHERE poll_id = $1 AND position = $2
		`, pollID, optionIndex)
		if err != nil {
			return fmt.Errorf("failed to update option votes: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrInvalidOption
		}
		return nil
	})
	if err != nil {
		return models.Vote{}, err
	}

	return vote, nil
}

// HasVoted reports whether userID has a vote on pollID.
func (s *Store) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE poll_id = $1 AND user_id = $2
	`, pollID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query vote: %w", err)
	}
	return count > 0, nil
}

// ListVotedPolls returns the polls userID has voted on, most recent vote
// first.
func (s *Store) ListVotedPolls(ctx context.Context, userID string) ([]models.Poll, error) {
	polls, err := scanPolls(ctx, s.db, `
		SELECT `+pollColumns+`
		FROM poll p
		JOIN vote v ON v.poll_id = p.id
		WHERE v.user_id = $1
		ORDER BY v.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	if err := attachOptions(ctx, s.db, polls); err != nil {
		return nil, err
	}
	return polls, nil
}
