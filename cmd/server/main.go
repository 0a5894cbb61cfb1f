// Package main is the entry point for the quest backend HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-quest-backend/internal/config"
	"telegram-quest-backend/internal/handler"
	"telegram-quest-backend/internal/leveling"
	"telegram-quest-backend/internal/notify"
	"telegram-quest-backend/internal/pkg/db"
	"telegram-quest-backend/internal/pkg/lock"
	"telegram-quest-backend/internal/repository"
	"telegram-quest-backend/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	taskRepo := repository.NewTaskRepository(dbPool.Pool)
	completionRepo := repository.NewCompletionRepository(dbPool.Pool)
	clanRepo := repository.NewClanRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	inventoryRepo := repository.NewInventoryRepository(dbPool.Pool)
	favoriteRepo := repository.NewFavoriteRepository(dbPool.Pool)

	// Leveling parameters
	levelingCfg := &leveling.Config{
		ThresholdStep:  cfg.Leveling.ThresholdStep,
		HealthPerLevel: cfg.Leveling.HealthPerLevel,
	}

	// Initialize per-user lock
	userLock := lock.NewUserLock()

	// Initialize services
	accountService := service.NewAccountService(dbPool.Pool, userRepo, taskRepo, levelingCfg)
	taskService := service.NewTaskService(dbPool.Pool, userRepo, taskRepo, clanRepo, favoriteRepo)
	questService := service.NewQuestService(
		dbPool.Pool,
		userRepo,
		taskRepo,
		completionRepo,
		clanRepo,
		txRepo,
		service.NewLedger(levelingCfg),
		userLock,
	)
	shopService := service.NewShopService(dbPool.Pool, userRepo, txRepo, inventoryRepo, userLock)
	clanService := service.NewClanService(dbPool.Pool, userRepo, clanRepo)

	// Attach the optional Telegram level-up notifier
	if cfg.Bot.Token != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.Bot.Token)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram notifier disabled")
		} else {
			questService.SetNotifier(notifier)
			log.Info().Msg("Telegram level-up notifier enabled")
		}
	}

	// Initialize HTTP handler
	h := handler.NewHandler(accountService, taskService, questService, shopService, clanService)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
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
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create clans and clan_members tables
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clans (
			clan_id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE,
			creator_id BIGINT NOT NULL REFERENCES users(user_id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS clan_members (
			membership_id BIGSERIAL PRIMARY KEY,
			clan_id BIGINT NOT NULL REFERENCES clans(clan_id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL UNIQUE REFERENCES users(user_id) ON DELETE CASCADE,
			is_leader BOOLEAN NOT NULL DEFAULT FALSE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_clan_members_clan ON clan_members(clan_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: clans tables created")

	// Migration 3: Create tasks table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
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
		CREATE INDEX IF NOT EXISTS idx_tasks_creator ON tasks(creator_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_clan ON tasks(clan_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: tasks table created")

	// Migration 4: Create completed_tasks table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS completed_tasks (
			completion_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			task_id BIGINT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			exp_granted INT NOT NULL DEFAULT 0,
			coins_granted BIGINT NOT NULL DEFAULT 0,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			next_available TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_completed_tasks_user_task ON completed_tasks(user_id, task_id, completed_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: completed_tasks table created")

	// Migration 4a: Create favorite_tasks table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS favorite_tasks (
			favorite_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			task_id BIGINT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			position INT NOT NULL CHECK (position BETWEEN 1 AND 4),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, position),
			UNIQUE (user_id, task_id)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4a: favorite_tasks table created")

	// Migration 5: Create transactions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: transactions table created")

	// Migration 6: Create items and user_inventory tables, seed the catalog
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS items (
			item_id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			item_type VARCHAR(20) NOT NULL,
			slot VARCHAR(20),
			base_price BIGINT NOT NULL CHECK (base_price >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS user_inventory (
			inventory_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			item_id BIGINT NOT NULL REFERENCES items(item_id),
			is_equipped BOOLEAN NOT NULL DEFAULT FALSE,
			equipped_slot VARCHAR(20),
			purchase_price BIGINT NOT NULL,
			purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_user_inventory_user ON user_inventory(user_id);
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO items (name, description, item_type, slot, base_price)
		SELECT v.name, v.description, v.item_type, v.slot, v.base_price
		FROM (VALUES
			('Straw Hat', 'A humble start to any adventure.', 'headgear', 'head', 50::bigint),
			('Leather Tunic', 'Sturdy enough for daily quests.', 'clothing', 'body', 120::bigint),
			('Traveler Boots', 'Walk further, earn more.', 'clothing', 'legs', 90::bigint),
			('Pocket Fox', 'A loyal companion.', 'pet', 'pet', 300::bigint),
			('Minor Healing Potion', 'Restores a bit of HP.', 'potion', NULL, 40::bigint)
		) AS v(name, description, item_type, slot, base_price)
		WHERE NOT EXISTS (SELECT 1 FROM items);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: items tables created and catalog seeded")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
