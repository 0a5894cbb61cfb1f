package service

import (
	"telegram-quest-backend/internal/leveling"
	"telegram-quest-backend/internal/model"
)

// RewardResult describes the outcome of applying a task's reward.
type RewardResult struct {
	ExpGained    int
	CoinsGained  int64
	NewLevel     int
	NewBalance   int64
	LeveledUp    bool
	LevelsGained int
}

// Ledger applies experience and coin rewards to a user's mutable
// progression state. It mutates the user struct in place and never
// persists anything; the completion workflow owns persistence, so the
// ledger stays storage-agnostic and unit-testable.
type Ledger struct {
	leveling *leveling.Config
}

// NewLedger creates a new Ledger with the given leveling parameters.
func NewLedger(cfg *leveling.Config) *Ledger {
	return &Ledger{leveling: cfg}
}

// Grant adds the task's reward to the user and resolves any level-ups.
// The caller must hold exclusive ownership of the user record for the
// duration of the operation.
func (l *Ledger) Grant(user *model.User, task *model.Task) RewardResult {
	user.Coins += task.RewardCoins

	progression := l.leveling.Apply(user.Level, user.Exp, user.MaxHP, task.RewardExp)
	user.Level = progression.Level
	user.Exp = progression.Exp
	user.MaxHP = progression.MaxHP

	return RewardResult{
		ExpGained:    task.RewardExp,
		CoinsGained:  task.RewardCoins,
		NewLevel:     user.Level,
		NewBalance:   user.Coins,
		LeveledUp:    progression.LeveledUp,
		LevelsGained: progression.LevelsGained,
	}
}
