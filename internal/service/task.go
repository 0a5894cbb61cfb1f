package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/repository"
)

// favoriteSlots is how many quick-access positions each user has.
const favoriteSlots = 4

// CreateTaskRequest is the explicit schema for task creation. Fields are
// validated before any storage work happens.
type CreateTaskRequest struct {
	TelegramID  int64
	Text        string
	Type        string // custom or clan
	RewardExp   int
	RewardCoins int64
	Penalty     int
	Cooldown    time.Duration
	Repeatable  bool
}

// TaskService handles task creation, listing and favorite slots.
type TaskService struct {
	pool      *pgxpool.Pool
	users     *repository.UserRepository
	tasks     *repository.TaskRepository
	clans     *repository.ClanRepository
	favorites *repository.FavoriteRepository
}

// NewTaskService creates a new TaskService instance.
func NewTaskService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	clans *repository.ClanRepository,
	favorites *repository.FavoriteRepository,
) *TaskService {
	return &TaskService{
		pool:      pool,
		users:     users,
		tasks:     tasks,
		clans:     clans,
		favorites: favorites,
	}
}

// Create validates the request and creates a task owned by the caller.
// A clan task is scoped to the creator's clan; creating one requires
// clan membership.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*model.Task, error) {
	if err := validateCreateTask(&req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByTelegramID(ctx, req.TelegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	task := &model.Task{
		CreatorID:   &user.ID,
		Text:        req.Text,
		Type:        req.Type,
		RewardExp:   req.RewardExp,
		RewardCoins: req.RewardCoins,
		Penalty:     req.Penalty,
		Cooldown:    req.Cooldown,
		Repeatable:  req.Repeatable,
	}

	if req.Type == model.TaskTypeClan {
		clanID, err := s.clans.MembershipOf(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve clan membership: %w", err)
		}
		if clanID == nil {
			return nil, fmt.Errorf("%w: clan task requires clan membership", ErrValidation)
		}
		task.ClanID = clanID
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

// ListForUser returns all tasks visible to the given user.
func (s *TaskService) ListForUser(ctx context.Context, telegramID int64) ([]*model.Task, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return s.tasks.ListForUser(ctx, user.ID)
}

// Favorite pins a task to one of the user's quick-access positions
// (1 through 4). Pinning an already-favorited task moves it; pinning
// over an occupied position replaces its occupant. The move runs as one
// unit so a task never holds two positions.
func (s *TaskService) Favorite(ctx context.Context, telegramID, taskID int64, position int) (*model.FavoriteTask, error) {
	if position < 1 || position > favoriteSlots {
		return nil, fmt.Errorf("%w: position must be between 1 and %d", ErrValidation, favoriteSlots)
	}

	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to resolve task: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	favorites := s.favorites.WithTx(tx)
	if err := favorites.Clear(ctx, user.ID, taskID); err != nil {
		return nil, err
	}

	fav, err := favorites.Set(ctx, user.ID, taskID, position)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit favorite: %w", err)
	}

	return fav, nil
}

// Favorites returns the user's favorite slots ordered by position.
func (s *TaskService) Favorites(ctx context.Context, telegramID int64) ([]*model.FavoriteTask, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return s.favorites.List(ctx, user.ID)
}

// Unfavorite vacates one of the user's quick-access positions.
func (s *TaskService) Unfavorite(ctx context.Context, telegramID int64, position int) error {
	if position < 1 || position > favoriteSlots {
		return fmt.Errorf("%w: position must be between 1 and %d", ErrValidation, favoriteSlots)
	}

	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := s.favorites.Remove(ctx, user.ID, position); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

func validateCreateTask(req *CreateTaskRequest) error {
	req.Text = strings.TrimSpace(req.Text)
	switch {
	case req.Text == "":
		return fmt.Errorf("%w: task text required", ErrValidation)
	case len(req.Text) > 500:
		return fmt.Errorf("%w: task text too long (max 500)", ErrValidation)
	case req.Type != model.TaskTypeCustom && req.Type != model.TaskTypeClan:
		return fmt.Errorf("%w: task type must be %q or %q", ErrValidation, model.TaskTypeCustom, model.TaskTypeClan)
	case req.RewardExp < 0:
		return fmt.Errorf("%w: reward exp must not be negative", ErrValidation)
	case req.RewardCoins < 0:
		return fmt.Errorf("%w: reward coins must not be negative", ErrValidation)
	case req.Penalty < 0:
		return fmt.Errorf("%w: penalty must not be negative", ErrValidation)
	case req.Cooldown < 0:
		return fmt.Errorf("%w: cooldown must not be negative", ErrValidation)
	case !req.Repeatable && req.Cooldown > 0:
		return fmt.Errorf("%w: one-shot task cannot have a cooldown", ErrValidation)
	}
	return nil
}
