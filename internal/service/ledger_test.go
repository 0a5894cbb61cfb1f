package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"telegram-quest-backend/internal/leveling"
	"telegram-quest-backend/internal/model"
)

func newTestLedger() *Ledger {
	return NewLedger(&leveling.Config{ThresholdStep: 100, HealthPerLevel: 10})
}

func TestLedger_GrantBasicReward(t *testing.T) {
	ledger := newTestLedger()
	user := &model.User{Level: 1, Exp: 0, Coins: 20, HP: 100, MaxHP: 100}
	task := &model.Task{RewardExp: 40, RewardCoins: 15}

	result := ledger.Grant(user, task)

	assert.Equal(t, 40, result.ExpGained)
	assert.Equal(t, int64(15), result.CoinsGained)
	assert.Equal(t, 1, result.NewLevel)
	assert.Equal(t, int64(35), result.NewBalance)
	assert.False(t, result.LeveledUp)

	// user mutated in place
	assert.Equal(t, 40, user.Exp)
	assert.Equal(t, int64(35), user.Coins)
	assert.Equal(t, 100, user.MaxHP)
}

func TestLedger_GrantLevelUp(t *testing.T) {
	ledger := newTestLedger()
	user := &model.User{Level: 1, Exp: 90, Coins: 0, HP: 100, MaxHP: 100}
	task := &model.Task{RewardExp: 60, RewardCoins: 5}

	result := ledger.Grant(user, task)

	// 90+60 = 150 crosses the level-1 threshold of 100 but not the
	// level-2 threshold of 200
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 1, result.LevelsGained)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 150, user.Exp)
	assert.Equal(t, 110, user.MaxHP)
}

func TestLedger_GrantCascadingLevelUps(t *testing.T) {
	ledger := newTestLedger()
	user := &model.User{Level: 1, Exp: 0, Coins: 0, HP: 100, MaxHP: 100}
	task := &model.Task{RewardExp: 250}

	result := ledger.Grant(user, task)

	// 250 exp clears level 1 (100) and level 2 (200) in a single grant
	assert.Equal(t, 3, result.NewLevel)
	assert.Equal(t, 2, result.LevelsGained)
	assert.Equal(t, 120, user.MaxHP)
}

func TestLedger_GrantZeroReward(t *testing.T) {
	ledger := newTestLedger()
	user := &model.User{Level: 2, Exp: 150, Coins: 50, HP: 110, MaxHP: 110}
	task := &model.Task{RewardExp: 0, RewardCoins: 0}

	result := ledger.Grant(user, task)

	assert.False(t, result.LeveledUp)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 150, user.Exp)
	assert.Equal(t, int64(50), user.Coins)
}
