package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-quest-backend/internal/service"
)

func TestWriteDomainError(t *testing.T) {
	retryAt := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"user not found", service.ErrUserNotFound, 404},
		{"task not found", service.ErrTaskNotFound, 404},
		{"wrapped not found", fmt.Errorf("resolving: %w", service.ErrTaskNotFound), 404},
		{"favorite not found", service.ErrFavoriteNotFound, 404},
		{"forbidden", service.ErrForbidden, 403},
		{"duplicate registration", service.ErrUserExists, 409},
		{"insufficient balance", service.ErrInsufficientBalance, 409},
		{"validation", service.ErrValidation, 400},
		{"on cooldown", &service.CooldownError{Reason: service.ReasonOnCooldown, RetryAt: &retryAt}, 409},
		{"already completed", &service.CooldownError{Reason: service.ReasonAlreadyCompleted}, 409},
		{"unknown error hides details", errors.New("connection refused"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteDomainError_CooldownBody(t *testing.T) {
	retryAt := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	rec := httptest.NewRecorder()
	writeDomainError(rec, &service.CooldownError{
		Reason:  service.ReasonOnCooldown,
		RetryAt: &retryAt,
	})

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.ReasonOnCooldown, body.Reason)
	assert.Equal(t, "2025-06-01T13:00:00Z", body.RetryAfter)
}

func TestWriteDomainError_TerminalCooldownHasNoRetry(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, &service.CooldownError{Reason: service.ReasonAlreadyCompleted})

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.ReasonAlreadyCompleted, body.Reason)
	assert.Empty(t, body.RetryAfter)
}

func TestWriteDomainError_InternalHidesStorageDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("pq: relation completed_tasks does not exist"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}
