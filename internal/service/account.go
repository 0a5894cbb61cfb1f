package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"telegram-quest-backend/internal/leveling"
	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/repository"
)

// defaultTasks are seeded for every new user at registration.
var defaultTasks = []model.Task{
	{Text: "Drink a glass of water", RewardExp: 10, RewardCoins: 5, Penalty: 3, Cooldown: time.Hour, Repeatable: true},
	{Text: "Do a 10 minute workout", RewardExp: 25, RewardCoins: 10, Penalty: 5, Cooldown: 8 * time.Hour, Repeatable: true},
	{Text: "Read 10 pages of a book", RewardExp: 20, RewardCoins: 8, Penalty: 5, Cooldown: 12 * time.Hour, Repeatable: true},
	{Text: "Go to bed before midnight", RewardExp: 30, RewardCoins: 12, Penalty: 8, Cooldown: 20 * time.Hour, Repeatable: true},
	{Text: "Take a 20 minute walk outside", RewardExp: 15, RewardCoins: 6, Penalty: 4, Cooldown: 6 * time.Hour, Repeatable: true},
}

// Profile is a user's progression snapshot for display.
type Profile struct {
	User        *model.User
	NextLevelAt int
}

// AccountService handles user registration and profile lookups.
type AccountService struct {
	pool     *pgxpool.Pool
	users    *repository.UserRepository
	tasks    *repository.TaskRepository
	leveling *leveling.Config
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	levelingCfg *leveling.Config,
) *AccountService {
	return &AccountService{
		pool:     pool,
		users:    users,
		tasks:    tasks,
		leveling: levelingCfg,
	}
}

// Register creates a new user together with their seed of default tasks.
// User creation and task seeding commit as one unit.
func (s *AccountService) Register(ctx context.Context, telegramID int64, nickname string) (*model.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname required", ErrValidation)
	}
	if len(nickname) > 50 {
		return nil, fmt.Errorf("%w: nickname too long (max 50)", ErrValidation)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user, err := s.users.WithTx(tx).Create(ctx, telegramID, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	taskRepo := s.tasks.WithTx(tx)
	for _, seed := range defaultTasks {
		task := seed
		task.CreatorID = &user.ID
		task.Type = model.TaskTypeCustom
		task.IsDefault = true
		if _, err := taskRepo.Create(ctx, &task); err != nil {
			return nil, fmt.Errorf("failed to seed default tasks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("telegram_id", telegramID).
		Msg("User registered")

	return user, nil
}

// GetProfile retrieves a user's progression snapshot by Telegram ID.
func (s *AccountService) GetProfile(ctx context.Context, telegramID int64) (*Profile, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &Profile{
		User:        user,
		NextLevelAt: s.leveling.NextLevelAt(user.Level),
	}, nil
}
