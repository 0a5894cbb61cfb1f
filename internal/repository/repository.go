// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Common errors for repository operations.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrClanNotFound      = errors.New("clan not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrInventoryNotFound = errors.New("inventory item not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrAlreadyClanMember = errors.New("user already belongs to a clan")
	ErrClanNameTaken     = errors.New("clan name already taken")
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and
// pgx.Tx. Repositories are constructed over a pool and rebound to a
// transaction with WithTx, so every method runs on whichever handle the
// caller scopes it to - there is no ambient session state.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
