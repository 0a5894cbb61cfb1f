package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"telegram-quest-backend/internal/model"
)

const taskColumns = `task_id, creator_id, clan_id, task_text, task_type, reward_exp, reward_coins, penalty, cooldown_seconds, repeatable, is_default, created_at`

// TaskRepository handles task data persistence.
type TaskRepository struct {
	db Querier
}

// NewTaskRepository creates a new TaskRepository instance.
func NewTaskRepository(db Querier) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TaskRepository) WithTx(tx pgx.Tx) *TaskRepository {
	return &TaskRepository{db: tx}
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var (
		task         model.Task
		cooldownSecs int64
	)
	err := row.Scan(
		&task.ID,
		&task.CreatorID,
		&task.ClanID,
		&task.Text,
		&task.Type,
		&task.RewardExp,
		&task.RewardCoins,
		&task.Penalty,
		&cooldownSecs,
		&task.Repeatable,
		&task.IsDefault,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Cooldown = time.Duration(cooldownSecs) * time.Second
	return &task, nil
}

// Create creates a new task.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	const query = `
		INSERT INTO tasks (creator_id, clan_id, task_text, task_type, reward_exp, reward_coins, penalty, cooldown_seconds, repeatable, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING ` + taskColumns

	created, err := scanTask(r.db.QueryRow(ctx, query,
		task.CreatorID,
		task.ClanID,
		task.Text,
		task.Type,
		task.RewardExp,
		task.RewardCoins,
		task.Penalty,
		int64(task.Cooldown/time.Second),
		task.Repeatable,
		task.IsDefault,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

// GetByID retrieves a task by its ID.
// Returns ErrTaskNotFound if the task does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, taskID int64) (*model.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListForUser retrieves all tasks visible to a user: system-issued
// default tasks (no creator), tasks the user created (their seeded
// defaults included), and tasks scoped to the user's clan.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]*model.Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE (is_default = TRUE AND creator_id IS NULL)
		   OR creator_id = $1
		   OR clan_id IN (SELECT clan_id FROM clan_members WHERE user_id = $1)
		ORDER BY task_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}
