package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type createClanRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Name       string `json:"name"`
}

type clanResponse struct {
	ClanID int64  `json:"clan_id"`
	Name   string `json:"name"`
}

// CreateClan handles POST /api/clans.
func (h *Handler) CreateClan(w http.ResponseWriter, r *http.Request) {
	var req createClanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	clan, err := h.clans.Create(r.Context(), req.TelegramID, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, clanResponse{ClanID: clan.ID, Name: clan.Name})
}

type joinClanRequest struct {
	TelegramID int64 `json:"telegram_id"`
}

// JoinClan handles POST /api/clans/{clanID}/join.
func (h *Handler) JoinClan(w http.ResponseWriter, r *http.Request) {
	clanID, err := strconv.ParseInt(chi.URLParam(r, "clanID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clan id")
		return
	}

	var req joinClanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	if err := h.clans.Join(r.Context(), req.TelegramID, clanID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
