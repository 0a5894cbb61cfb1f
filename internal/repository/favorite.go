package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"telegram-quest-backend/internal/model"
)

const favoriteColumns = `favorite_id, user_id, task_id, position, created_at`

// FavoriteRepository handles the per-user quick-access task slots.
type FavoriteRepository struct {
	db Querier
}

// NewFavoriteRepository creates a new FavoriteRepository instance.
func NewFavoriteRepository(db Querier) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *FavoriteRepository) WithTx(tx pgx.Tx) *FavoriteRepository {
	return &FavoriteRepository{db: tx}
}

func scanFavorite(row pgx.Row) (*model.FavoriteTask, error) {
	var fav model.FavoriteTask
	err := row.Scan(
		&fav.ID,
		&fav.UserID,
		&fav.TaskID,
		&fav.Position,
		&fav.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// Set pins a task to the given position, replacing whatever task held
// that position before. Callers must first Clear the task's previous
// position (inside the same transaction) so a task never occupies two
// slots.
func (r *FavoriteRepository) Set(ctx context.Context, userID, taskID int64, position int) (*model.FavoriteTask, error) {
	const query = `
		INSERT INTO favorite_tasks (user_id, task_id, position, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, position)
		DO UPDATE SET task_id = EXCLUDED.task_id, created_at = NOW()
		RETURNING ` + favoriteColumns

	fav, err := scanFavorite(r.db.QueryRow(ctx, query, userID, taskID, position))
	if err != nil {
		return nil, fmt.Errorf("failed to set favorite: %w", err)
	}

	return fav, nil
}

// Clear removes a task from the user's favorites, whatever position it
// holds. Clearing a task that is not favorited is a no-op.
func (r *FavoriteRepository) Clear(ctx context.Context, userID, taskID int64) error {
	const query = `DELETE FROM favorite_tasks WHERE user_id = $1 AND task_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, taskID); err != nil {
		return fmt.Errorf("failed to clear favorite: %w", err)
	}

	return nil
}

// List retrieves the user's favorites ordered by position.
func (r *FavoriteRepository) List(ctx context.Context, userID int64) ([]*model.FavoriteTask, error) {
	const query = `
		SELECT ` + favoriteColumns + `
		FROM favorite_tasks
		WHERE user_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*model.FavoriteTask
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return favorites, nil
}

// Remove vacates the given position.
// Returns ErrFavoriteNotFound if the position is already empty.
func (r *FavoriteRepository) Remove(ctx context.Context, userID int64, position int) error {
	const query = `DELETE FROM favorite_tasks WHERE user_id = $1 AND position = $2`

	result, err := r.db.Exec(ctx, query, userID, position)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}
