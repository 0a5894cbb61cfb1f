// Package handler provides the HTTP API for the quest backend.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"telegram-quest-backend/internal/service"
)

// Handler wires HTTP routes to the domain services.
type Handler struct {
	accounts *service.AccountService
	tasks    *service.TaskService
	quests   *service.QuestService
	shop     *service.ShopService
	clans    *service.ClanService
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	accounts *service.AccountService,
	tasks *service.TaskService,
	quests *service.QuestService,
	shop *service.ShopService,
	clans *service.ClanService,
) *Handler {
	return &Handler{
		accounts: accounts,
		tasks:    tasks,
		quests:   quests,
		shop:     shop,
		clans:    clans,
	}
}

// Router creates and configures the HTTP router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/user/{telegramID}", h.GetUser)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Post("/complete", h.CompleteTask)
			r.Get("/{taskID}/completions", h.ListCompletions)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.ListFavorites)
			r.Post("/", h.SetFavorite)
			r.Delete("/{position}", h.RemoveFavorite)
		})

		r.Get("/shop", h.ShopCatalog)
		r.Post("/shop/buy", h.BuyItem)
		r.Get("/inventory", h.ListInventory)
		r.Post("/inventory/equip", h.EquipItem)

		r.Route("/clans", func(r chi.Router) {
			r.Post("/", h.CreateClan)
			r.Post("/{clanID}/join", h.JoinClan)
		})
	})

	return r
}

// HealthCheck returns service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error      string `json:"error"`
	Reason     string `json:"reason,omitempty"`
	RetryAfter string `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps service errors onto the HTTP error taxonomy:
// missing entities are 404, authorization failures 403, cooldown and
// duplicate-state conflicts 409, bad input 400 and everything else a
// generic 500 that hides storage details.
func writeDomainError(w http.ResponseWriter, err error) {
	var cooldownErr *service.CooldownError
	switch {
	case errors.As(err, &cooldownErr):
		resp := errorResponse{Error: cooldownErr.Error(), Reason: cooldownErr.Reason}
		if cooldownErr.RetryAt != nil {
			resp.RetryAfter = cooldownErr.RetryAt.Format(time.RFC3339)
		}
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrClanNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrAlreadyClanMember),
		errors.Is(err, service.ErrClanNameTaken),
		errors.Is(err, service.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotEquippable):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
