package handler

import (
	"net/http"
	"strconv"
	"time"

	"telegram-quest-backend/internal/model"
)

type itemResponse struct {
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ItemType    string  `json:"item_type"`
	Slot        *string `json:"slot,omitempty"`
	Price       int64   `json:"price"`
}

func toItemResponse(item *model.Item) itemResponse {
	return itemResponse{
		ItemID:      item.ID,
		Name:        item.Name,
		Description: item.Description,
		ItemType:    item.ItemType,
		Slot:        item.Slot,
		Price:       item.BasePrice,
	}
}

// ShopCatalog handles GET /api/shop.
func (h *Handler) ShopCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.shop.Catalog(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

type buyItemRequest struct {
	TelegramID int64 `json:"telegram_id"`
	ItemID     int64 `json:"item_id"`
}

type inventoryItemResponse struct {
	InventoryID   int64     `json:"inventory_id"`
	ItemID        int64     `json:"item_id"`
	IsEquipped    bool      `json:"is_equipped"`
	EquippedSlot  *string   `json:"equipped_slot,omitempty"`
	PurchasePrice int64     `json:"purchase_price"`
	PurchasedAt   time.Time `json:"purchased_at"`
}

func toInventoryItemResponse(inv *model.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		InventoryID:   inv.ID,
		ItemID:        inv.ItemID,
		IsEquipped:    inv.IsEquipped,
		EquippedSlot:  inv.EquippedSlot,
		PurchasePrice: inv.PurchasePrice,
		PurchasedAt:   inv.PurchasedAt,
	}
}

// BuyItem handles POST /api/shop/buy.
func (h *Handler) BuyItem(w http.ResponseWriter, r *http.Request) {
	var req buyItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 || req.ItemID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id and item_id are required")
		return
	}

	inv, err := h.shop.Purchase(r.Context(), req.TelegramID, req.ItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInventoryItemResponse(inv))
}

// ListInventory handles GET /api/inventory?telegram_id=.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "telegram_id query parameter is required")
		return
	}

	inventory, err := h.shop.Inventory(r.Context(), telegramID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]inventoryItemResponse, 0, len(inventory))
	for _, inv := range inventory {
		resp = append(resp, toInventoryItemResponse(inv))
	}
	writeJSON(w, http.StatusOK, resp)
}

type equipItemRequest struct {
	TelegramID  int64 `json:"telegram_id"`
	InventoryID int64 `json:"inventory_id"`
}

// EquipItem handles POST /api/inventory/equip.
func (h *Handler) EquipItem(w http.ResponseWriter, r *http.Request) {
	var req equipItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 || req.InventoryID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id and inventory_id are required")
		return
	}

	if err := h.shop.Equip(r.Context(), req.TelegramID, req.InventoryID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
