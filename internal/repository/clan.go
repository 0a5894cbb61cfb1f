package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"telegram-quest-backend/internal/model"
)

// ClanRepository handles clan and membership persistence. It answers the
// "does user U belong to clan C" question for task authorization.
type ClanRepository struct {
	db Querier
}

// NewClanRepository creates a new ClanRepository instance.
func NewClanRepository(db Querier) *ClanRepository {
	return &ClanRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ClanRepository) WithTx(tx pgx.Tx) *ClanRepository {
	return &ClanRepository{db: tx}
}

// Create creates a new clan and makes the creator its leader. The two
// inserts are separate statements; callers must bind the repository to
// a transaction via WithTx so a membership failure takes the clan row
// down with it.
func (r *ClanRepository) Create(ctx context.Context, name string, creatorID int64) (*model.Clan, error) {
	const clanQuery = `
		INSERT INTO clans (name, creator_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING clan_id, name, creator_id, created_at
	`

	var clan model.Clan
	err := r.db.QueryRow(ctx, clanQuery, name, creatorID).Scan(
		&clan.ID,
		&clan.Name,
		&clan.CreatorID,
		&clan.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrClanNameTaken
		}
		return nil, fmt.Errorf("failed to create clan: %w", err)
	}

	const memberQuery = `
		INSERT INTO clan_members (clan_id, user_id, is_leader, joined_at)
		VALUES ($1, $2, TRUE, NOW())
	`
	if _, err := r.db.Exec(ctx, memberQuery, clan.ID, creatorID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyClanMember
		}
		return nil, fmt.Errorf("failed to add clan leader: %w", err)
	}

	return &clan, nil
}

// GetByID retrieves a clan by its ID.
func (r *ClanRepository) GetByID(ctx context.Context, clanID int64) (*model.Clan, error) {
	const query = `SELECT clan_id, name, creator_id, created_at FROM clans WHERE clan_id = $1`

	var clan model.Clan
	err := r.db.QueryRow(ctx, query, clanID).Scan(
		&clan.ID,
		&clan.Name,
		&clan.CreatorID,
		&clan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClanNotFound
		}
		return nil, fmt.Errorf("failed to get clan: %w", err)
	}

	return &clan, nil
}

// AddMember adds a user to a clan. A user can belong to one clan only.
func (r *ClanRepository) AddMember(ctx context.Context, clanID, userID int64) error {
	const query = `
		INSERT INTO clan_members (clan_id, user_id, is_leader, joined_at)
		VALUES ($1, $2, FALSE, NOW())
	`

	if _, err := r.db.Exec(ctx, query, clanID, userID); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyClanMember
		}
		return fmt.Errorf("failed to add clan member: %w", err)
	}

	return nil
}

// IsMember checks whether a user belongs to the given clan.
func (r *ClanRepository) IsMember(ctx context.Context, clanID, userID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM clan_members WHERE clan_id = $1 AND user_id = $2)`

	var member bool
	if err := r.db.QueryRow(ctx, query, clanID, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("failed to check clan membership: %w", err)
	}

	return member, nil
}

// MembershipOf returns the clan ID a user belongs to, or nil if none.
func (r *ClanRepository) MembershipOf(ctx context.Context, userID int64) (*int64, error) {
	const query = `SELECT clan_id FROM clan_members WHERE user_id = $1`

	var clanID int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&clanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clan membership: %w", err)
	}

	return &clanID, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
