package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/pkg/lock"
	"telegram-quest-backend/internal/repository"
)

// ShopService handles the item catalog, purchases and equipment.
type ShopService struct {
	pool      *pgxpool.Pool
	users     *repository.UserRepository
	txs       *repository.TransactionRepository
	inventory *repository.InventoryRepository
	locks     *lock.UserLock
}

// NewShopService creates a new ShopService instance.
func NewShopService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	txs *repository.TransactionRepository,
	inventory *repository.InventoryRepository,
	locks *lock.UserLock,
) *ShopService {
	return &ShopService{
		pool:      pool,
		users:     users,
		txs:       txs,
		inventory: inventory,
		locks:     locks,
	}
}

// Catalog returns all purchasable items.
func (s *ShopService) Catalog(ctx context.Context) ([]*model.Item, error) {
	return s.inventory.ListItems(ctx)
}

// Purchase buys an item for the user. Balance check, deduction, ledger
// row and inventory insert commit as one unit; an insufficient balance
// leaves no trace.
func (s *ShopService) Purchase(ctx context.Context, telegramID, itemID int64) (*model.InventoryItem, error) {
	s.locks.Lock(telegramID)
	defer s.locks.Unlock(telegramID)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user, err := s.users.WithTx(tx).GetByTelegramIDForUpdate(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	item, err := s.inventory.WithTx(tx).GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to resolve item: %w", err)
	}

	if user.Coins < item.BasePrice {
		return nil, ErrInsufficientBalance
	}

	if _, err := s.users.WithTx(tx).UpdateCoins(ctx, user.ID, -item.BasePrice); err != nil {
		return nil, fmt.Errorf("failed to deduct coins: %w", err)
	}

	desc := "purchase of " + item.Name
	if _, err := s.txs.WithTx(tx).Create(ctx, user.ID, -item.BasePrice, model.TxTypeShopPurchase, &desc); err != nil {
		return nil, fmt.Errorf("failed to record purchase transaction: %w", err)
	}

	inv, err := s.inventory.WithTx(tx).AddToInventory(ctx, user.ID, item.ID, item.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("failed to add inventory item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("item_id", item.ID).
		Int64("price", item.BasePrice).
		Msg("Item purchased")

	return inv, nil
}

// Inventory returns all items owned by the user.
func (s *ShopService) Inventory(ctx context.Context, telegramID int64) ([]*model.InventoryItem, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return s.inventory.ListInventory(ctx, user.ID)
}

// Equip puts an owned item into its slot, unequipping any previous
// occupant of that slot.
func (s *ShopService) Equip(ctx context.Context, telegramID, inventoryID int64) error {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	inv, err := s.inventory.GetInventoryItem(ctx, user.ID, inventoryID)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to resolve inventory item: %w", err)
	}

	item, err := s.inventory.GetItem(ctx, inv.ItemID)
	if err != nil {
		return fmt.Errorf("failed to resolve item: %w", err)
	}
	if item.Slot == nil {
		return ErrNotEquippable
	}

	// Vacating the slot and occupying it are two updates; run them as
	// one unit so the slot is never left empty halfway.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.inventory.WithTx(tx).Equip(ctx, user.ID, inv.ID, *item.Slot); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit equip: %w", err)
	}

	return nil
}
