// Integration tests for the completion workflow. They use
// testcontainers-go to spin up a PostgreSQL container and are skipped
// when Docker is not available.
package service

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"telegram-quest-backend/internal/leveling"
	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/pkg/lock"
	"telegram-quest-backend/internal/repository"
)

// testEnv bundles the services and repositories wired against one
// database container.
type testEnv struct {
	pool        *pgxpool.Pool
	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	completions *repository.CompletionRepository
	clans       *repository.ClanRepository
	txs         *repository.TransactionRepository
	inventory   *repository.InventoryRepository
	favorites   *repository.FavoriteRepository

	accounts *AccountService
	quests   *QuestService
	shop     *ShopService
	taskSvc  *TaskService
	clansSvc *ClanService
}

func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		CREATE TABLE users (
			user_id BIGSERIAL PRIMARY KEY,
			telegram_id BIGINT NOT NULL UNIQUE,
			nickname VARCHAR(50) NOT NULL,
			level INT NOT NULL DEFAULT 1 CHECK (level >= 1),
			exp INT NOT NULL DEFAULT 0 CHECK (exp >= 0),
			coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
			hp INT NOT NULL DEFAULT 100,
			max_hp INT NOT NULL DEFAULT 100,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE clans (
			clan_id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE,
			creator_id BIGINT NOT NULL REFERENCES users(user_id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE clan_members (
			membership_id BIGSERIAL PRIMARY KEY,
			clan_id BIGINT NOT NULL REFERENCES clans(clan_id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL UNIQUE REFERENCES users(user_id) ON DELETE CASCADE,
			is_leader BOOLEAN NOT NULL DEFAULT FALSE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE tasks (
			task_id BIGSERIAL PRIMARY KEY,
			creator_id BIGINT REFERENCES users(user_id) ON DELETE SET NULL,
			clan_id BIGINT REFERENCES clans(clan_id) ON DELETE CASCADE,
			task_text TEXT NOT NULL,
			task_type VARCHAR(10) NOT NULL,
			reward_exp INT NOT NULL CHECK (reward_exp >= 0),
			reward_coins BIGINT NOT NULL CHECK (reward_coins >= 0),
			penalty INT NOT NULL DEFAULT 0 CHECK (penalty >= 0),
			cooldown_seconds BIGINT NOT NULL DEFAULT 0 CHECK (cooldown_seconds >= 0),
			repeatable BOOLEAN NOT NULL DEFAULT TRUE,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE completed_tasks (
			completion_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			task_id BIGINT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			exp_granted INT NOT NULL DEFAULT 0,
			coins_granted BIGINT NOT NULL DEFAULT 0,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			next_available TIMESTAMPTZ
		);
		CREATE TABLE favorite_tasks (
			favorite_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			task_id BIGINT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			position INT NOT NULL CHECK (position BETWEEN 1 AND 4),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, position),
			UNIQUE (user_id, task_id)
		);
		CREATE TABLE transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE items (
			item_id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			item_type VARCHAR(20) NOT NULL,
			slot VARCHAR(20),
			base_price BIGINT NOT NULL CHECK (base_price >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE user_inventory (
			inventory_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			item_id BIGINT NOT NULL REFERENCES items(item_id),
			is_equipped BOOLEAN NOT NULL DEFAULT FALSE,
			equipped_slot VARCHAR(20),
			purchase_price BIGINT NOT NULL,
			purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	require.NoError(t, err)

	env := &testEnv{
		pool:        pool,
		users:       repository.NewUserRepository(pool),
		tasks:       repository.NewTaskRepository(pool),
		completions: repository.NewCompletionRepository(pool),
		clans:       repository.NewClanRepository(pool),
		txs:         repository.NewTransactionRepository(pool),
		inventory:   repository.NewInventoryRepository(pool),
		favorites:   repository.NewFavoriteRepository(pool),
	}

	levelingCfg := &leveling.Config{ThresholdStep: 100, HealthPerLevel: 10}
	locks := lock.NewUserLock()

	env.accounts = NewAccountService(pool, env.users, env.tasks, levelingCfg)
	env.quests = NewQuestService(pool, env.users, env.tasks, env.completions,
		env.clans, env.txs, NewLedger(levelingCfg), locks)
	env.shop = NewShopService(pool, env.users, env.txs, env.inventory, locks)
	env.taskSvc = NewTaskService(pool, env.users, env.tasks, env.clans, env.favorites)
	env.clansSvc = NewClanService(pool, env.users, env.clans)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return env, cleanup
}

func (env *testEnv) createUser(t *testing.T, telegramID int64) *model.User {
	t.Helper()
	user, err := env.users.Create(context.Background(), telegramID, "user")
	require.NoError(t, err)
	return user
}

func (env *testEnv) createTask(t *testing.T, creatorID int64, rewardExp int, rewardCoins int64, cooldown time.Duration, repeatable bool) *model.Task {
	t.Helper()
	task, err := env.tasks.Create(context.Background(), &model.Task{
		CreatorID:   &creatorID,
		Text:        "test task",
		Type:        model.TaskTypeCustom,
		RewardExp:   rewardExp,
		RewardCoins: rewardCoins,
		Cooldown:    cooldown,
		Repeatable:  repeatable,
	})
	require.NoError(t, err)
	return task
}

func TestQuestService_CompleteSuccess(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.quests.now = func() time.Time { return t0 }

	user := env.createUser(t, 100)
	task := env.createTask(t, user.ID, 40, 15, time.Hour, true)

	result, err := env.quests.Complete(ctx, 100, task.ID)
	require.NoError(t, err)

	assert.Equal(t, 40, result.Reward.ExpGained)
	assert.Equal(t, int64(15), result.Reward.CoinsGained)
	assert.Equal(t, 1, result.Reward.NewLevel)
	assert.False(t, result.Reward.LeveledUp)

	// progress persisted
	saved, err := env.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 40, saved.Exp)
	assert.Equal(t, int64(15), saved.Coins)

	// history row carries what was granted and when it becomes available
	latest, err := env.completions.Latest(ctx, user.ID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 40, latest.ExpGranted)
	assert.True(t, latest.CompletedAt.Equal(t0))
	require.NotNil(t, latest.NextAvailable)
	assert.True(t, latest.NextAvailable.Equal(t0.Add(time.Hour)))

	// coin reward produced a ledger transaction
	txList, err := env.txs.GetByUserID(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, txList, 1)
	assert.Equal(t, int64(15), txList[0].Amount)
	assert.Equal(t, model.TxTypeTaskReward, txList[0].Type)
}

func TestQuestService_CompleteLevelsUp(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)
	task := env.createTask(t, user.ID, 150, 0, 0, true)

	result, err := env.quests.Complete(ctx, 100, task.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Reward.NewLevel)
	assert.True(t, result.Reward.LeveledUp)

	saved, err := env.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Level)
	assert.Equal(t, 150, saved.Exp)
	assert.Equal(t, 110, saved.MaxHP)
}

func TestQuestService_CooldownWindow(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	env.quests.now = func() time.Time { return now }

	user := env.createUser(t, 100)
	task := env.createTask(t, user.ID, 10, 5, time.Hour, true)

	_, err := env.quests.Complete(ctx, 100, task.ID)
	require.NoError(t, err)

	// 30 minutes later: denied, retry anchored to the first completion
	now = t0.Add(30 * time.Minute)
	_, err = env.quests.Complete(ctx, 100, task.ID)
	var cdErr *CooldownError
	require.ErrorAs(t, err, &cdErr)
	assert.Equal(t, ReasonOnCooldown, cdErr.Reason)
	require.NotNil(t, cdErr.RetryAt)
	assert.True(t, cdErr.RetryAt.Equal(t0.Add(time.Hour)))
	assert.True(t, cdErr.Retryable())

	// the denied attempt left no trace
	saved, err := env.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, saved.Exp)
	assert.Equal(t, int64(5), saved.Coins)
	count, err := env.completions.CountForUser(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 61 minutes after the first completion: allowed again
	now = t0.Add(61 * time.Minute)
	result, err := env.quests.Complete(ctx, 100, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, result.User.Exp)
}

func TestQuestService_OneShotCompletedTwice(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)
	task := env.createTask(t, user.ID, 10, 0, 0, false)

	first, err := env.quests.Complete(ctx, 100, task.ID)
	require.NoError(t, err)
	assert.Nil(t, first.Completion.NextAvailable)

	_, err = env.quests.Complete(ctx, 100, task.ID)
	var cdErr *CooldownError
	require.ErrorAs(t, err, &cdErr)
	assert.Equal(t, ReasonAlreadyCompleted, cdErr.Reason)
	assert.False(t, cdErr.Retryable())
}

func TestQuestService_Forbidden(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	alice := env.createUser(t, 1)
	env.createUser(t, 2)
	task := env.createTask(t, alice.ID, 10, 5, 0, true)

	_, err := env.quests.Complete(ctx, 2, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// no history row for either user
	count, err := env.completions.CountForUser(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQuestService_ClanTaskAuthorization(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	alice := env.createUser(t, 1)
	env.createUser(t, 2)

	clan, err := env.clans.Create(ctx, "adventurers", alice.ID)
	require.NoError(t, err)

	task, err := env.tasks.Create(ctx, &model.Task{
		CreatorID:  &alice.ID,
		ClanID:     &clan.ID,
		Text:       "clan raid",
		Type:       model.TaskTypeClan,
		RewardExp:  10,
		Repeatable: true,
	})
	require.NoError(t, err)

	// non-member is rejected
	_, err = env.quests.Complete(ctx, 2, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// member goes through
	bob, err := env.users.GetByTelegramID(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, env.clans.AddMember(ctx, clan.ID, bob.ID))

	_, err = env.quests.Complete(ctx, 2, task.ID)
	assert.NoError(t, err)
}

func TestQuestService_NotFound(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	_, err := env.quests.Complete(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	env.createUser(t, 100)
	_, err = env.quests.Complete(ctx, 100, 999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestQuestService_CompleteIsAtomic(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)
	task := env.createTask(t, user.ID, 40, 15, time.Hour, true)

	// Break the history table so the final insert of the workflow fails
	// after the reward has already been applied inside the transaction.
	_, err := env.pool.Exec(ctx, `ALTER TABLE completed_tasks RENAME TO completed_tasks_broken`)
	require.NoError(t, err)

	_, err = env.quests.Complete(ctx, 100, task.ID)
	require.Error(t, err)

	_, err = env.pool.Exec(ctx, `ALTER TABLE completed_tasks_broken RENAME TO completed_tasks`)
	require.NoError(t, err)

	// nothing from the failed attempt was committed
	saved, err := env.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Exp)
	assert.Equal(t, int64(0), saved.Coins)

	txList, err := env.txs.GetByUserID(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, txList)
}

func TestAccountService_Register(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	user, err := env.accounts.Register(ctx, 100, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, user.Level)

	// registration seeds the default task set
	list, err := env.tasks.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(defaultTasks))
	for _, task := range list {
		assert.True(t, task.IsDefault)
	}

	_, err = env.accounts.Register(ctx, 100, "alice again")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = env.accounts.Register(ctx, 101, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShopService_Purchase(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)

	var itemID int64
	err := env.pool.QueryRow(ctx, `
		INSERT INTO items (name, item_type, slot, base_price)
		VALUES ('Straw Hat', 'headgear', 'head', 50) RETURNING item_id
	`).Scan(&itemID)
	require.NoError(t, err)

	// too poor
	_, err = env.shop.Purchase(ctx, 100, itemID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	inv, err := env.inventory.ListInventory(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, inv)

	// funded
	user.Coins = 120
	require.NoError(t, env.users.SaveProgress(ctx, user))

	owned, err := env.shop.Purchase(ctx, 100, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), owned.PurchasePrice)

	saved, err := env.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(70), saved.Coins)

	txList, err := env.txs.GetByUserID(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, txList, 1)
	assert.Equal(t, int64(-50), txList[0].Amount)
	assert.Equal(t, model.TxTypeShopPurchase, txList[0].Type)
}

func TestQuestService_ConcurrentOneShotCompletion(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)
	task := env.createTask(t, user.ID, 40, 15, 0, false)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.quests.Complete(ctx, 100, task.ID)
		}(i)
	}
	wg.Wait()

	// exactly one attempt wins; the loser sees the completed state
	var successes, denials int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var cdErr *CooldownError
		require.ErrorAs(t, err, &cdErr)
		assert.Equal(t, ReasonAlreadyCompleted, cdErr.Reason)
		denials++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, denials)

	// the reward was granted once and the history holds a single row
	saved, err := env.users.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 40, saved.Exp)
	assert.Equal(t, int64(15), saved.Coins)

	count, err := env.completions.CountForUser(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClanService_CreateAtomicity(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	env.createUser(t, 1)
	env.createUser(t, 2)

	_, err := env.clansSvc.Create(ctx, 1, "first banner")
	require.NoError(t, err)

	// a second attempt by the same leader fails on the membership
	// insert; the clan row from that attempt must not survive
	_, err = env.clansSvc.Create(ctx, 1, "second banner")
	assert.ErrorIs(t, err, ErrAlreadyClanMember)

	var count int
	err = env.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clans WHERE name = 'second banner'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// the name stayed free for someone else
	clan, err := env.clansSvc.Create(ctx, 2, "second banner")
	require.NoError(t, err)
	assert.Equal(t, "second banner", clan.Name)
}

func TestTaskService_Favorites(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)
	first := env.createTask(t, user.ID, 10, 0, 0, true)
	second := env.createTask(t, user.ID, 20, 0, 0, true)

	fav, err := env.taskSvc.Favorite(ctx, 100, first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, fav.Position)

	_, err = env.taskSvc.Favorite(ctx, 100, second.ID, 2)
	require.NoError(t, err)

	// pinning over an occupied position replaces its occupant
	_, err = env.taskSvc.Favorite(ctx, 100, second.ID, 1)
	require.NoError(t, err)

	// the moved task vacated its old position
	list, err := env.taskSvc.Favorites(ctx, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].TaskID)
	assert.Equal(t, 1, list[0].Position)

	// out-of-range position and unknown task are rejected up front
	_, err = env.taskSvc.Favorite(ctx, 100, first.ID, favoriteSlots+1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.taskSvc.Favorite(ctx, 100, 9999, 1)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, env.taskSvc.Unfavorite(ctx, 100, 1))
	assert.ErrorIs(t, env.taskSvc.Unfavorite(ctx, 100, 1), ErrFavoriteNotFound)
}

func TestShopService_Equip(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()
	user := env.createUser(t, 100)

	var hatID, helmetID, potionID int64
	err := env.pool.QueryRow(ctx, `
		INSERT INTO items (name, item_type, slot, base_price)
		VALUES ('Straw Hat', 'headgear', 'head', 10) RETURNING item_id
	`).Scan(&hatID)
	require.NoError(t, err)
	err = env.pool.QueryRow(ctx, `
		INSERT INTO items (name, item_type, slot, base_price)
		VALUES ('Iron Helmet', 'headgear', 'head', 30) RETURNING item_id
	`).Scan(&helmetID)
	require.NoError(t, err)
	err = env.pool.QueryRow(ctx, `
		INSERT INTO items (name, item_type, slot, base_price)
		VALUES ('Small Potion', 'consumable', NULL, 5) RETURNING item_id
	`).Scan(&potionID)
	require.NoError(t, err)

	hat, err := env.inventory.AddToInventory(ctx, user.ID, hatID, 10)
	require.NoError(t, err)
	helmet, err := env.inventory.AddToInventory(ctx, user.ID, helmetID, 30)
	require.NoError(t, err)
	potion, err := env.inventory.AddToInventory(ctx, user.ID, potionID, 5)
	require.NoError(t, err)

	require.NoError(t, env.shop.Equip(ctx, 100, hat.ID))

	// equipping into an occupied slot displaces the previous occupant
	require.NoError(t, env.shop.Equip(ctx, 100, helmet.ID))

	inv, err := env.inventory.ListInventory(ctx, user.ID)
	require.NoError(t, err)
	equipped := make(map[int64]bool)
	for _, owned := range inv {
		if owned.IsEquipped {
			equipped[owned.ID] = true
		}
	}
	assert.Equal(t, map[int64]bool{helmet.ID: true}, equipped)

	// an item without a slot cannot be equipped
	assert.ErrorIs(t, env.shop.Equip(ctx, 100, potion.ID), ErrNotEquippable)
}
