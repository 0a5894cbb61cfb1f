package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"telegram-quest-backend/internal/model"
)

const userColumns = `user_id, telegram_id, nickname, level, exp, coins, hp, max_hp, created_at, updated_at`

// UserRepository handles user data persistence.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Nickname,
		&user.Level,
		&user.Exp,
		&user.Coins,
		&user.HP,
		&user.MaxHP,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user with the given Telegram ID and nickname.
// New users start at level 1 with 0 exp, 0 coins and 100/100 HP.
func (r *UserRepository) Create(ctx context.Context, telegramID int64, nickname string) (*model.User, error) {
	const query = `
		INSERT INTO users (telegram_id, nickname, level, exp, coins, hp, max_hp, created_at, updated_at)
		VALUES ($1, $2, 1, 0, 0, 100, 100, NOW(), NOW())
		ON CONFLICT (telegram_id) DO NOTHING
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID, nickname))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their internal ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByTelegramID retrieves a user by their Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByTelegramIDForUpdate retrieves a user by Telegram ID and locks the
// row for the duration of the enclosing transaction. Callers must run
// this inside a transaction; the row lock serializes concurrent
// completion attempts for the same user.
func (r *UserRepository) GetByTelegramIDForUpdate(ctx context.Context, telegramID int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1 FOR UPDATE`

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	return user, nil
}

// SaveProgress persists a user's mutable progression state: level,
// experience, coin balance and health.
func (r *UserRepository) SaveProgress(ctx context.Context, user *model.User) error {
	const query = `
		UPDATE users
		SET level = $2, exp = $3, coins = $4, hp = $5, max_hp = $6, updated_at = NOW()
		WHERE user_id = $1
	`

	result, err := r.db.Exec(ctx, query, user.ID, user.Level, user.Exp, user.Coins, user.HP, user.MaxHP)
	if err != nil {
		return fmt.Errorf("failed to save user progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateCoins updates a user's coin balance by adding the specified
// amount. The amount can be negative to subtract from the balance.
func (r *UserRepository) UpdateCoins(ctx context.Context, userID int64, amount int64) (*model.User, error) {
	const query = `
		UPDATE users
		SET coins = coins + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, userID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update coins: %w", err)
	}

	return user, nil
}

// Exists checks if a user with the given Telegram ID exists.
func (r *UserRepository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE telegram_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, telegramID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}
