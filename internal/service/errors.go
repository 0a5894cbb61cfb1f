// Package service provides business logic implementations.
package service

import (
	"errors"
	"fmt"
	"time"
)

// Common errors for quest backend operations.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already registered")
	ErrTaskNotFound        = errors.New("task not found")
	ErrForbidden           = errors.New("task not available to this user")
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrItemNotFound        = errors.New("item not found")
	ErrNotEquippable       = errors.New("item cannot be equipped")
	ErrClanNotFound        = errors.New("clan not found")
	ErrFavoriteNotFound    = errors.New("favorite not found")
	ErrAlreadyClanMember   = errors.New("user already belongs to a clan")
	ErrClanNameTaken       = errors.New("clan name already taken")
)

// Cooldown denial reasons.
const (
	ReasonAlreadyCompleted = "already completed"
	ReasonOnCooldown       = "on cooldown"
)

// CooldownError reports that a task cannot be completed right now.
// RetryAt is set when the denial is retryable (the task is on cooldown)
// and nil when it is terminal (one-shot task already completed).
type CooldownError struct {
	Reason  string
	RetryAt *time.Time
}

func (e *CooldownError) Error() string {
	if e.RetryAt != nil {
		return fmt.Sprintf("task %s, retry after %s", e.Reason, e.RetryAt.Format(time.RFC3339))
	}
	return "task " + e.Reason
}

// Retryable reports whether the caller can retry the completion later.
func (e *CooldownError) Retryable() bool {
	return e.RetryAt != nil
}
