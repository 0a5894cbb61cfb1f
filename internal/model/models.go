// Package model defines the data models for the quest backend.
package model

import "time"

// User represents a registered player.
type User struct {
	ID         int64     `db:"user_id"`
	TelegramID int64     `db:"telegram_id"`
	Nickname   string    `db:"nickname"`
	Level      int       `db:"level"`
	Exp        int       `db:"exp"`
	Coins      int64     `db:"coins"`
	HP         int       `db:"hp"`
	MaxHP      int       `db:"max_hp"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Task types.
const (
	TaskTypeCustom = "custom" // created and owned by a single user
	TaskTypeClan   = "clan"   // shared within a clan
)

// Task represents a unit of repeatable or one-shot work.
type Task struct {
	ID          int64         `db:"task_id"`
	CreatorID   *int64        `db:"creator_id"` // nil for system-issued tasks
	ClanID      *int64        `db:"clan_id"`
	Text        string        `db:"task_text"`
	Type        string        `db:"task_type"`
	RewardExp   int           `db:"reward_exp"`
	RewardCoins int64         `db:"reward_coins"`
	Penalty     int           `db:"penalty"`
	Cooldown    time.Duration `db:"cooldown"`
	Repeatable  bool          `db:"repeatable"`
	IsDefault   bool          `db:"is_default"`
	CreatedAt   time.Time     `db:"created_at"`
}

// Completion is an append-only record of one successful task completion.
// NextAvailable is stored for display; eligibility is always recomputed
// from CompletedAt plus the task's current cooldown.
type Completion struct {
	ID            int64      `db:"completion_id"`
	UserID        int64      `db:"user_id"`
	TaskID        int64      `db:"task_id"`
	ExpGranted    int        `db:"exp_granted"`
	CoinsGranted  int64      `db:"coins_granted"`
	CompletedAt   time.Time  `db:"completed_at"`
	NextAvailable *time.Time `db:"next_available"` // nil for one-shot tasks
}

// FavoriteTask pins a task to one of a user's quick-access slots.
// Positions run 1 through 4; each position holds at most one task and
// each task occupies at most one position per user.
type FavoriteTask struct {
	ID        int64     `db:"favorite_id"`
	UserID    int64     `db:"user_id"`
	TaskID    int64     `db:"task_id"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

// Transaction represents a coin balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeTaskReward   = "task_reward"   // reward for completing a task
	TxTypeShopPurchase = "shop_purchase" // shop item purchase
)

// Clan represents a group of users that can share tasks.
type Clan struct {
	ID        int64     `db:"clan_id"`
	Name      string    `db:"name"`
	CreatorID int64     `db:"creator_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ClanMember represents a user's membership in a clan.
// A user belongs to at most one clan.
type ClanMember struct {
	ID       int64     `db:"membership_id"`
	ClanID   int64     `db:"clan_id"`
	UserID   int64     `db:"user_id"`
	IsLeader bool      `db:"is_leader"`
	JoinedAt time.Time `db:"joined_at"`
}

// Item represents a purchasable shop item.
type Item struct {
	ID          int64     `db:"item_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	ItemType    string    `db:"item_type"` // headgear, clothing, pet, potion
	Slot        *string   `db:"slot"`      // head, body, legs, pet
	BasePrice   int64     `db:"base_price"`
	CreatedAt   time.Time `db:"created_at"`
}

// InventoryItem represents an item owned by a user.
type InventoryItem struct {
	ID            int64     `db:"inventory_id"`
	UserID        int64     `db:"user_id"`
	ItemID        int64     `db:"item_id"`
	IsEquipped    bool      `db:"is_equipped"`
	EquippedSlot  *string   `db:"equipped_slot"`
	PurchasePrice int64     `db:"purchase_price"`
	PurchasedAt   time.Time `db:"purchased_at"`
}
