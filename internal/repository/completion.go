package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"telegram-quest-backend/internal/model"
)

const completionColumns = `completion_id, user_id, task_id, exp_granted, coins_granted, completed_at, next_available`

// CompletionRepository handles the append-only task completion history.
type CompletionRepository struct {
	db Querier
}

// NewCompletionRepository creates a new CompletionRepository instance.
func NewCompletionRepository(db Querier) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CompletionRepository) WithTx(tx pgx.Tx) *CompletionRepository {
	return &CompletionRepository{db: tx}
}

func scanCompletion(row pgx.Row) (*model.Completion, error) {
	var c model.Completion
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.TaskID,
		&c.ExpGranted,
		&c.CoinsGranted,
		&c.CompletedAt,
		&c.NextAvailable,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create appends a new completion record.
func (r *CompletionRepository) Create(ctx context.Context, c *model.Completion) (*model.Completion, error) {
	const query = `
		INSERT INTO completed_tasks (user_id, task_id, exp_granted, coins_granted, completed_at, next_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + completionColumns

	created, err := scanCompletion(r.db.QueryRow(ctx, query,
		c.UserID,
		c.TaskID,
		c.ExpGranted,
		c.CoinsGranted,
		c.CompletedAt,
		c.NextAvailable,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion record: %w", err)
	}

	return created, nil
}

// Latest retrieves the most recent completion record for a (user, task)
// pair, or nil if the user has never completed the task.
func (r *CompletionRepository) Latest(ctx context.Context, userID, taskID int64) (*model.Completion, error) {
	const query = `
		SELECT ` + completionColumns + `
		FROM completed_tasks
		WHERE user_id = $1 AND task_id = $2
		ORDER BY completed_at DESC, completion_id DESC
		LIMIT 1
	`

	c, err := scanCompletion(r.db.QueryRow(ctx, query, userID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest completion: %w", err)
	}

	return c, nil
}

// ListByTask retrieves completion records for a task, newest first.
func (r *CompletionRepository) ListByTask(ctx context.Context, taskID int64, limit int) ([]*model.Completion, error) {
	const query = `
		SELECT ` + completionColumns + `
		FROM completed_tasks
		WHERE task_id = $1
		ORDER BY completed_at DESC, completion_id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	var completions []*model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completions: %w", err)
	}

	return completions, nil
}

// CountForUser returns how many times a user has completed a task.
func (r *CompletionRepository) CountForUser(ctx context.Context, userID, taskID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM completed_tasks WHERE user_id = $1 AND task_id = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, taskID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}

	return count, nil
}
