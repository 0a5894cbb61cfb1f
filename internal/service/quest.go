package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/pkg/lock"
	"telegram-quest-backend/internal/repository"
)

// LevelUpNotifier delivers a best-effort message to the user when they
// gain a level. Implementations must not fail the completion workflow.
type LevelUpNotifier interface {
	NotifyLevelUp(ctx context.Context, telegramID int64, newLevel int)
}

// CompletionResult is the outcome of a successful task completion.
type CompletionResult struct {
	User       *model.User
	Completion *model.Completion
	Reward     RewardResult
}

// QuestService orchestrates the task completion workflow: resolution,
// authorization, cooldown check, reward application and history
// recording, all committed as one atomic unit.
type QuestService struct {
	pool        *pgxpool.Pool
	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	completions *repository.CompletionRepository
	clans       *repository.ClanRepository
	txs         *repository.TransactionRepository
	ledger      *Ledger
	locks       *lock.UserLock
	notifier    LevelUpNotifier

	now func() time.Time // overridable in tests
}

// NewQuestService creates a new QuestService instance.
func NewQuestService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	completions *repository.CompletionRepository,
	clans *repository.ClanRepository,
	txs *repository.TransactionRepository,
	ledger *Ledger,
	locks *lock.UserLock,
) *QuestService {
	return &QuestService{
		pool:        pool,
		users:       users,
		tasks:       tasks,
		completions: completions,
		clans:       clans,
		txs:         txs,
		ledger:      ledger,
		locks:       locks,
		now:         time.Now,
	}
}

// SetNotifier attaches an optional level-up notifier.
func (s *QuestService) SetNotifier(n LevelUpNotifier) {
	s.notifier = n
}

// Complete runs the task completion workflow for the authenticated user
// identified by telegramID. The whole sequence - user and task
// resolution, authorization, cooldown check, reward application and the
// history insert - executes inside one database transaction with the
// user row locked, so two concurrent attempts for the same (user, task)
// pair cannot both pass the cooldown check. No side effect survives a
// failed precondition.
func (s *QuestService) Complete(ctx context.Context, telegramID, taskID int64) (*CompletionResult, error) {
	s.locks.Lock(telegramID)
	defer s.locks.Unlock(telegramID)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Resolve and lock the user row first; everything after this point
	// is serialized per user.
	user, err := s.users.WithTx(tx).GetByTelegramIDForUpdate(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	task, err := s.tasks.WithTx(tx).GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to resolve task: %w", err)
	}

	if err := s.authorize(ctx, tx, user, task); err != nil {
		return nil, err
	}

	last, err := s.completions.WithTx(tx).Latest(ctx, user.ID, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion history: %w", err)
	}

	now := s.now().UTC()
	decision := EvaluateCooldown(task, last, now)
	if !decision.Allowed {
		return nil, decision.denial()
	}

	reward := s.ledger.Grant(user, task)

	if err := s.users.WithTx(tx).SaveProgress(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist user progress: %w", err)
	}

	if reward.CoinsGained != 0 {
		desc := fmt.Sprintf("reward for task %d", task.ID)
		if _, err := s.txs.WithTx(tx).Create(ctx, user.ID, reward.CoinsGained, model.TxTypeTaskReward, &desc); err != nil {
			return nil, fmt.Errorf("failed to record reward transaction: %w", err)
		}
	}

	completion, err := s.completions.WithTx(tx).Create(ctx, &model.Completion{
		UserID:        user.ID,
		TaskID:        task.ID,
		ExpGranted:    reward.ExpGained,
		CoinsGranted:  reward.CoinsGained,
		CompletedAt:   now,
		NextAvailable: nextAvailable(task, now),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("task_id", task.ID).
		Int("exp_gained", reward.ExpGained).
		Int64("coins_gained", reward.CoinsGained).
		Int("new_level", reward.NewLevel).
		Bool("leveled_up", reward.LeveledUp).
		Msg("Task completed")

	if reward.LeveledUp && s.notifier != nil {
		s.notifier.NotifyLevelUp(ctx, user.TelegramID, reward.NewLevel)
	}

	return &CompletionResult{
		User:       user,
		Completion: completion,
		Reward:     reward,
	}, nil
}

// authorize checks that the user may complete the task: system-issued
// default tasks (no creator) are open to everyone, custom tasks only to
// their creator, and clan tasks to members of the owning clan. A user's
// seeded default tasks carry the user as creator and pass the creator
// check.
func (s *QuestService) authorize(ctx context.Context, tx pgx.Tx, user *model.User, task *model.Task) error {
	if task.IsDefault && task.CreatorID == nil {
		return nil
	}
	if task.CreatorID != nil && *task.CreatorID == user.ID {
		return nil
	}
	if task.ClanID != nil {
		member, err := s.clans.WithTx(tx).IsMember(ctx, *task.ClanID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to check clan membership: %w", err)
		}
		if member {
			return nil
		}
	}
	return ErrForbidden
}

// nextAvailable derives the stored next-eligible timestamp: completion
// time plus cooldown for repeatable cooldown tasks, nil otherwise.
func nextAvailable(task *model.Task, completedAt time.Time) *time.Time {
	if !task.Repeatable || task.Cooldown <= 0 {
		return nil
	}
	next := completedAt.Add(task.Cooldown)
	return &next
}

// History returns the most recent completions of a task.
func (s *QuestService) History(ctx context.Context, taskID int64, limit int) ([]*model.Completion, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.completions.ListByTask(ctx, taskID, limit)
}
