package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"telegram-quest-backend/internal/model"
)

// InventoryRepository handles the shop catalog and user inventories.
type InventoryRepository struct {
	db Querier
}

// NewInventoryRepository creates a new InventoryRepository instance.
func NewInventoryRepository(db Querier) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *InventoryRepository) WithTx(tx pgx.Tx) *InventoryRepository {
	return &InventoryRepository{db: tx}
}

const itemColumns = `item_id, name, description, item_type, slot, base_price, created_at`

func scanItem(row pgx.Row) (*model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.ItemType,
		&item.Slot,
		&item.BasePrice,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem retrieves a shop item by its ID.
func (r *InventoryRepository) GetItem(ctx context.Context, itemID int64) (*model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListItems retrieves the full shop catalog.
func (r *InventoryRepository) ListItems(ctx context.Context) ([]*model.Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items ORDER BY item_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

const inventoryColumns = `inventory_id, user_id, item_id, is_equipped, equipped_slot, purchase_price, purchased_at`

func scanInventoryItem(row pgx.Row) (*model.InventoryItem, error) {
	var inv model.InventoryItem
	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.ItemID,
		&inv.IsEquipped,
		&inv.EquippedSlot,
		&inv.PurchasePrice,
		&inv.PurchasedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// AddToInventory records a purchased item in the user's inventory at the
// price actually paid.
func (r *InventoryRepository) AddToInventory(ctx context.Context, userID, itemID int64, price int64) (*model.InventoryItem, error) {
	const query = `
		INSERT INTO user_inventory (user_id, item_id, is_equipped, purchase_price, purchased_at)
		VALUES ($1, $2, FALSE, $3, NOW())
		RETURNING ` + inventoryColumns

	inv, err := scanInventoryItem(r.db.QueryRow(ctx, query, userID, itemID, price))
	if err != nil {
		return nil, fmt.Errorf("failed to add inventory item: %w", err)
	}

	return inv, nil
}

// ListInventory retrieves all items owned by a user.
func (r *InventoryRepository) ListInventory(ctx context.Context, userID int64) ([]*model.InventoryItem, error) {
	const query = `
		SELECT ` + inventoryColumns + `
		FROM user_inventory
		WHERE user_id = $1
		ORDER BY purchased_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var inventory []*model.InventoryItem
	for rows.Next() {
		inv, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		inventory = append(inventory, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return inventory, nil
}

// GetInventoryItem retrieves a single inventory row owned by a user.
func (r *InventoryRepository) GetInventoryItem(ctx context.Context, userID, inventoryID int64) (*model.InventoryItem, error) {
	const query = `SELECT ` + inventoryColumns + ` FROM user_inventory WHERE inventory_id = $1 AND user_id = $2`

	inv, err := scanInventoryItem(r.db.QueryRow(ctx, query, inventoryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return inv, nil
}

// Equip marks an inventory item as equipped in the given slot,
// unequipping whatever previously occupied that slot. The two updates
// are separate statements; callers must bind the repository to a
// transaction via WithTx.
func (r *InventoryRepository) Equip(ctx context.Context, userID, inventoryID int64, slot string) error {
	const unequipQuery = `
		UPDATE user_inventory
		SET is_equipped = FALSE, equipped_slot = NULL
		WHERE user_id = $1 AND equipped_slot = $2
	`
	if _, err := r.db.Exec(ctx, unequipQuery, userID, slot); err != nil {
		return fmt.Errorf("failed to clear slot: %w", err)
	}

	const equipQuery = `
		UPDATE user_inventory
		SET is_equipped = TRUE, equipped_slot = $3
		WHERE inventory_id = $1 AND user_id = $2
	`
	result, err := r.db.Exec(ctx, equipQuery, inventoryID, userID, slot)
	if err != nil {
		return fmt.Errorf("failed to equip item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInventoryNotFound
	}

	return nil
}
