package service

import (
	"time"

	"telegram-quest-backend/internal/model"
)

// Decision is the outcome of a cooldown check.
type Decision struct {
	Allowed bool
	Reason  string
	RetryAt *time.Time
}

// EvaluateCooldown decides whether a task is completable given its most
// recent completion record. It is pure: eligibility is recomputed from
// the latest completion's timestamp plus the task's configured cooldown,
// so cooldown configuration changes take effect immediately (the stored
// next_available column is display-only).
//
// A one-shot task with any prior completion is denied permanently. A
// negative elapsed time (server clock moved backward) counts as still
// on cooldown rather than allowing a duplicate completion.
func EvaluateCooldown(task *model.Task, last *model.Completion, now time.Time) Decision {
	if last == nil {
		return Decision{Allowed: true}
	}

	if !task.Repeatable {
		return Decision{Allowed: false, Reason: ReasonAlreadyCompleted}
	}

	if task.Cooldown <= 0 {
		return Decision{Allowed: true}
	}

	elapsed := now.Sub(last.CompletedAt)
	if elapsed < task.Cooldown {
		retryAt := last.CompletedAt.Add(task.Cooldown)
		return Decision{Allowed: false, Reason: ReasonOnCooldown, RetryAt: &retryAt}
	}

	return Decision{Allowed: true}
}

// denial converts a denying Decision into a CooldownError.
func (d Decision) denial() *CooldownError {
	return &CooldownError{Reason: d.Reason, RetryAt: d.RetryAt}
}
