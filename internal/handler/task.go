package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-quest-backend/internal/model"
	"telegram-quest-backend/internal/service"
)

type taskResponse struct {
	TaskID        int64   `json:"task_id"`
	Text          string  `json:"text"`
	Type          string  `json:"type"`
	RewardExp     int     `json:"reward_exp"`
	RewardCoins   int64   `json:"reward_coins"`
	Penalty       int     `json:"penalty"`
	CooldownHours float64 `json:"cooldown_hours"`
	Repeatable    bool    `json:"repeatable"`
	IsDefault     bool    `json:"is_default"`
	ClanID        *int64  `json:"clan_id,omitempty"`
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		TaskID:        t.ID,
		Text:          t.Text,
		Type:          t.Type,
		RewardExp:     t.RewardExp,
		RewardCoins:   t.RewardCoins,
		Penalty:       t.Penalty,
		CooldownHours: t.Cooldown.Hours(),
		Repeatable:    t.Repeatable,
		IsDefault:     t.IsDefault,
		ClanID:        t.ClanID,
	}
}

// ListTasks handles GET /api/tasks?telegram_id=.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "telegram_id query parameter is required")
		return
	}

	tasks, err := h.tasks.ListForUser(r.Context(), telegramID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createTaskRequest struct {
	TelegramID    int64   `json:"telegram_id"`
	Text          string  `json:"task_text"`
	Type          string  `json:"task_type"`
	RewardExp     int     `json:"reward_exp"`
	RewardCoins   int64   `json:"reward_coins"`
	Penalty       int     `json:"penalty"`
	CooldownHours float64 `json:"cooldown_hours"`
	Repeatable    *bool   `json:"repeatable,omitempty"`
}

type createTaskResponse struct {
	TaskID int64 `json:"task_id"`
}

// CreateTask handles POST /api/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	// Tasks are repeatable unless explicitly created as one-shot.
	repeatable := true
	if req.Repeatable != nil {
		repeatable = *req.Repeatable
	}

	task, err := h.tasks.Create(r.Context(), service.CreateTaskRequest{
		TelegramID:  req.TelegramID,
		Text:        req.Text,
		Type:        req.Type,
		RewardExp:   req.RewardExp,
		RewardCoins: req.RewardCoins,
		Penalty:     req.Penalty,
		Cooldown:    time.Duration(req.CooldownHours * float64(time.Hour)),
		Repeatable:  repeatable,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createTaskResponse{TaskID: task.ID})
}

type completeTaskRequest struct {
	TelegramID int64 `json:"telegram_id"`
	TaskID     int64 `json:"task_id"`
}

type completeTaskResponse struct {
	Success       bool       `json:"success"`
	NewLevel      int        `json:"new_level"`
	Coins         int64      `json:"coins"`
	Exp           int        `json:"exp"`
	LeveledUp     bool       `json:"leveled_up"`
	NextAvailable *time.Time `json:"next_available,omitempty"`
}

// CompleteTask handles POST /api/tasks/complete.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == 0 || req.TaskID == 0 {
		writeError(w, http.StatusBadRequest, "telegram_id and task_id are required")
		return
	}

	result, err := h.quests.Complete(r.Context(), req.TelegramID, req.TaskID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completeTaskResponse{
		Success:       true,
		NewLevel:      result.Reward.NewLevel,
		Coins:         result.Reward.CoinsGained,
		Exp:           result.Reward.ExpGained,
		LeveledUp:     result.Reward.LeveledUp,
		NextAvailable: result.Completion.NextAvailable,
	})
}

type completionResponse struct {
	CompletionID  int64      `json:"completion_id"`
	UserID        int64      `json:"user_id"`
	ExpGranted    int        `json:"exp_granted"`
	CoinsGranted  int64      `json:"coins_granted"`
	CompletedAt   time.Time  `json:"completed_at"`
	NextAvailable *time.Time `json:"next_available,omitempty"`
}

// ListCompletions handles GET /api/tasks/{taskID}/completions.
func (h *Handler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	completions, err := h.quests.History(r.Context(), taskID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]completionResponse, 0, len(completions))
	for _, c := range completions {
		resp = append(resp, completionResponse{
			CompletionID:  c.ID,
			UserID:        c.UserID,
			ExpGranted:    c.ExpGranted,
			CoinsGranted:  c.CoinsGranted,
			CompletedAt:   c.CompletedAt,
			NextAvailable: c.NextAvailable,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
