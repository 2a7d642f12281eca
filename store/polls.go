// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/models"
)

const pollColumns = `p.id, p.question, p.created_by, p.created_by_name, p.total_votes, p.show_results, p.created_at, p.updated_at`

// CreatePoll stores a new poll owned by creator. Every option starts at zero
// votes. The creator's name is copied onto the poll as a snapshot.
func (s *Store) CreatePoll(ctx context.Context, creator models.Session, question string, texts []string) (models.Poll, error) {
	poll := models.Poll{
		ID:            uuid.NewString(),
		Question:      question,
		Options:       make([]models.Option, len(texts)),
		CreatedBy:     creator.UserID,
		CreatedByName: creator.Name,
		CreatedAt:     s.now(),
	}
	for i, text := range texts {
		poll.Options[i] = models.Option{Text: text}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll (id, question, created_by, created_by_name, total_votes, show_results, created_at)
			VALUES ($1, $2, $3, $4, 0, FALSE, $5)
		`, poll.ID, poll.Question, poll.CreatedBy, poll.CreatedByName, poll.CreatedAt)
		if err != nil {
			// The session outlived its user.
			if isForeignKeyViolation(err) {
				return models.ErrUnauthenticated
			}
			return fmt.Errorf("failed to insert poll: %w", err)
		}
		return insertOptions(ctx, tx, poll.ID, poll.Options)
	})
	if err != nil {
		return models.Poll{}, err
	}

	return poll, nil
}

// ListPolls returns polls newest first, optionally only those created by
// createdBy.
func (s *Store) ListPolls(ctx context.Context, createdBy string) ([]models.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM poll p`
	var args []any
	if createdBy != "" {
		query += ` WHERE p.created_by = $1`
		args = append(args, createdBy)
	}
	query += ` ORDER BY p.created_at DESC`

	polls, err := scanPolls(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	if err := attachOptions(ctx, s.db, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// GetPoll returns models.ErrPollNotFound when id is unknown.
func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	return s.loadPoll(ctx, s.db, id, false)
}

// UpdatePoll replaces the question and option texts of a poll owned by
// actorID. Counts are carried over by position (see models.RemapOptions) and
// the total is recomputed from them.
func (s *Store) UpdatePoll(ctx context.Context, actorID, id, question string, texts []string) (models.Poll, error) {
	var updated models.Poll
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		poll, err := s.loadOwnedPoll(ctx, tx, actorID, id)
		if err != nil {
			return err
		}

		now := s.now()
		poll.Question = question
		poll.Options = models.RemapOptions(poll.Options, texts)
		poll.TotalVotes = models.SumVotes(poll.Options)
		poll.UpdatedAt = &now

		if err := s.writePoll(ctx, tx, poll); err != nil {
			return err
		}
		updated = poll
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}
	return updated, nil
}

// SetResults overwrites the options of a poll owned by actorID, counts
// included, and recomputes the total. The vote ledger is left untouched.
func (s *Store) SetResults(ctx context.Context, actorID, id string, options []models.Option) (models.Poll, error) {
	var updated models.Poll
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		poll, err := s.loadOwnedPoll(ctx, tx, actorID, id)
		if err != nil {
			return err
		}

		now := s.now()
		poll.Options = append([]models.Option(nil), options...)
		poll.TotalVotes = models.SumVotes(poll.Options)
		poll.UpdatedAt = &now

		if err := s.writePoll(ctx, tx, poll); err != nil {
			return err
		}
		updated = poll
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}
	return updated, nil
}

// ToggleResults flips show_results on a poll owned by actorID and returns
// the new value.
func (s *Store) ToggleResults(ctx context.Context, actorID, id string) (bool, error) {
	var show bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		poll, err := s.loadOwnedPoll(ctx, tx, actorID, id)
		if err != nil {
			return err
		}

		show = !poll.ShowResults
		_, err = tx.ExecContext(ctx, `UPDATE poll SET show_results = $1 WHERE id = $2`, show, id)
		if err != nil {
			return fmt.Errorf("failed to toggle results: %w", err)
		}
		return nil
	})
	return show, err
}

// DeletePoll removes a poll owned by actorID together with its options and
// votes. It returns the number of votes removed.
func (s *Store) DeletePoll(ctx context.Context, actorID, id string) (int64, error) {
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.loadOwnedPoll(ctx, tx, actorID, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE poll_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		removed, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE poll_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete poll: %w", err)
		}
		return nil
	})
	return removed, err
}

// loadOwnedPoll loads and locks a poll, failing with models.ErrNotPollOwner
// unless actorID created it.
func (s *Store) loadOwnedPoll(ctx context.Context, tx *sql.Tx, actorID, id string) (models.Poll, error) {
	poll, err := s.loadPoll(ctx, tx, id, true)
	if err != nil {
		return models.Poll{}, err
	}
	if poll.CreatedBy != actorID {
		return models.Poll{}, models.ErrNotPollOwner
	}
	return poll, nil
}

// loadPoll reads a poll and its options. With lock set on PostgreSQL the poll
// row stays locked until the transaction ends, serialising edits with votes.
func (s *Store) loadPoll(ctx context.Context, q queryer, id string, lock bool) (models.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM poll p WHERE p.id = $1`
	if lock && s.rowLocks() {
		query += ` FOR UPDATE`
	}

	var p models.Poll
	var updatedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Question, &p.CreatedBy, &p.CreatedByName,
		&p.TotalVotes, &p.ShowResults, &p.CreatedAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, models.ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}
	p.UpdatedAt = nullTimePtr(updatedAt)

	polls := []models.Poll{p}
	if err := attachOptions(ctx, q, polls); err != nil {
		return models.Poll{}, err
	}
	return polls[0], nil
}

// writePoll stores the mutable fields of poll and replaces its options.
func (s *Store) writePoll(ctx context.Context, tx *sql.Tx, poll models.Poll) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE poll
		SET question = $1, total_votes = $2, updated_at = $3
		WHERE id = $4
	`, poll.Question, poll.TotalVotes, poll.UpdatedAt, poll.ID)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_option WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to clear options: %w", err)
	}
	return insertOptions(ctx, tx, poll.ID, poll.Options)
}

func insertOptions(ctx context.Context, tx *sql.Tx, pollID string, options []models.Option) error {
	for i, opt := range options {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, position, text, votes)
			VALUES ($1, $2, $3, $4)
		`, pollID, i, opt.Text, opt.Votes)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

// scanPolls runs query and scans poll rows. Options are not loaded.
func scanPolls(ctx context.Context, q queryer, query string, args ...any) ([]models.Poll, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var p models.Poll
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.Question, &p.CreatedBy, &p.CreatedByName,
			&p.TotalVotes, &p.ShowResults, &p.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		p.UpdatedAt = nullTimePtr(updatedAt)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}
	return polls, nil
}

// attachOptions loads the options of every poll in one query.
func attachOptions(ctx context.Context, q queryer, polls []models.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	index := make(map[string]int, len(polls))
	placeholders := make([]string, len(polls))
	args := make([]any, len(polls))
	for i, p := range polls {
		index[p.ID] = i
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = p.ID
		polls[i].Options = []models.Option{}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT poll_id, text, votes
		FROM poll_option
		WHERE poll_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY poll_id, position
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID string
		var opt models.Option
		if err := rows.Scan(&pollID, &opt.Text, &opt.Votes); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		i := index[pollID]
		polls[i].Options = append(polls[i].Options, opt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read options: %w", err)
	}
	return nil
}
