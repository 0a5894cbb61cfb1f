package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-quest-backend/internal/model"
)

type setFavoriteRequest struct {
	TelegramID int64 `json:"telegram_id"`
	TaskID     int64 `json:"task_id"`
	Position   int   `json:"position"`
}

type favoriteResponse struct {
	Position  int       `json:"position"`
	TaskID    int64     `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toFavoriteResponse(fav *model.FavoriteTask) favoriteResponse {
	return favoriteResponse{
		Position:  fav.Position,
		TaskID:    fav.TaskID,
		CreatedAt: fav.CreatedAt,
	}
}

// SetFavorite handles POST /api/favorites.
func (h *Handler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	var req setFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 || req.TaskID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id and task_id are required")
		return
	}

	fav, err := h.tasks.Favorite(r.Context(), req.TelegramID, req.TaskID, req.Position)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFavoriteResponse(fav))
}

// ListFavorites handles GET /api/favorites?telegram_id=.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "telegram_id query parameter is required")
		return
	}

	favorites, err := h.tasks.Favorites(r.Context(), telegramID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]favoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		resp = append(resp, toFavoriteResponse(fav))
	}
	writeJSON(w, http.StatusOK, resp)
}

// RemoveFavorite handles DELETE /api/favorites/{position}?telegram_id=.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid position")
		return
	}

	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "telegram_id query parameter is required")
		return
	}

	if err := h.tasks.Unfavorite(r.Context(), telegramID, position); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
