package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Nickname   string `json:"nickname"`
}

type registerResponse struct {
	UserID int64 `json:"user_id"`
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.TelegramID, req.Nickname)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{UserID: user.ID})
}

type userResponse struct {
	UserID      int64  `json:"user_id"`
	TelegramID  int64  `json:"telegram_id"`
	Nickname    string `json:"nickname"`
	Level       int    `json:"level"`
	Exp         int    `json:"exp"`
	Coins       int64  `json:"coins"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	NextLevelAt int    `json:"next_level_at"`
}

// GetUser handles GET /api/user/{telegramID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(chi.URLParam(r, "telegramID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid telegram id")
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), telegramID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	u := profile.User
	writeJSON(w, http.StatusOK, userResponse{
		UserID:      u.ID,
		TelegramID:  u.TelegramID,
		Nickname:    u.Nickname,
		Level:       u.Level,
		Exp:         u.Exp,
		Coins:       u.Coins,
		HP:          u.HP,
		MaxHP:       u.MaxHP,
		NextLevelAt: profile.NextLevelAt,
	})
}
