package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/repository"
)

// ClanService handles clan creation and membership. Clan membership is
// what authorizes completion of clan-scoped tasks.
type ClanService struct {
	pool  *pgxpool.Pool
	users *repository.UserRepository
	clans *repository.ClanRepository
}

// NewClanService creates a new ClanService instance.
func NewClanService(pool *pgxpool.Pool, users *repository.UserRepository, clans *repository.ClanRepository) *ClanService {
	return &ClanService{pool: pool, users: users, clans: clans}
}

// Create creates a clan led by the given user. The clan row and the
// leader's membership row commit as one unit: if the creator already
// belongs to a clan, neither survives and the name stays free.
func (s *ClanService) Create(ctx context.Context, telegramID int64, name string) (*model.Clan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: clan name required", ErrValidation)
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("%w: clan name too long (max 50)", ErrValidation)
	}

	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	clan, err := s.clans.WithTx(tx).Create(ctx, name, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClanNameTaken):
			return nil, ErrClanNameTaken
		case errors.Is(err, repository.ErrAlreadyClanMember):
			return nil, ErrAlreadyClanMember
		}
		return nil, fmt.Errorf("failed to create clan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit clan creation: %w", err)
	}

	return clan, nil
}

// Join adds the user to an existing clan.
func (s *ClanService) Join(ctx context.Context, telegramID, clanID int64) error {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	if _, err := s.clans.GetByID(ctx, clanID); err != nil {
		if errors.Is(err, repository.ErrClanNotFound) {
			return ErrClanNotFound
		}
		return fmt.Errorf("failed to resolve clan: %w", err)
	}

	if err := s.clans.AddMember(ctx, clanID, user.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyClanMember) {
			return ErrAlreadyClanMember
		}
		return fmt.Errorf("failed to join clan: %w", err)
	}

	return nil
}
