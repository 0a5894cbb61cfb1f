package service

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"telegram-quest-backend/internal/model"
)

// TestCooldownDecisionProperty checks the cooldown policy over arbitrary
// cooldowns and elapsed times: a denial always carries a retry timestamp
// equal to the last completion plus the cooldown, and the decision flips
// to allowed exactly when the elapsed time reaches the cooldown.
func TestCooldownDecisionProperty(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rapid.Check(t, func(t *rapid.T) {
		cooldownSecs := rapid.Int64Range(1, 7*24*3600).Draw(t, "cooldownSecs")
		elapsedSecs := rapid.Int64Range(-3600, 14*24*3600).Draw(t, "elapsedSecs")

		task := &model.Task{
			Repeatable: true,
			Cooldown:   time.Duration(cooldownSecs) * time.Second,
		}
		last := &model.Completion{CompletedAt: base}
		now := base.Add(time.Duration(elapsedSecs) * time.Second)

		decision := EvaluateCooldown(task, last, now)

		if elapsedSecs >= cooldownSecs {
			if !decision.Allowed {
				t.Fatalf("elapsed %ds >= cooldown %ds but denied", elapsedSecs, cooldownSecs)
			}
			return
		}

		if decision.Allowed {
			t.Fatalf("elapsed %ds < cooldown %ds but allowed", elapsedSecs, cooldownSecs)
		}
		if decision.Reason != ReasonOnCooldown {
			t.Fatalf("unexpected denial reason %q", decision.Reason)
		}
		if decision.RetryAt == nil {
			t.Fatal("cooldown denial must carry a retry timestamp")
		}
		want := last.CompletedAt.Add(task.Cooldown)
		if !decision.RetryAt.Equal(want) {
			t.Fatalf("retry at %v, want %v", decision.RetryAt, want)
		}
		if decision.RetryAt.Before(last.CompletedAt) {
			t.Fatal("retry timestamp precedes the completion it derives from")
		}
	})
}

// TestOneShotDenialProperty checks that a one-shot task with any prior
// completion is denied regardless of how much time has passed, and that
// the denial never carries a retry timestamp.
func TestOneShotDenialProperty(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rapid.Check(t, func(t *rapid.T) {
		elapsedSecs := rapid.Int64Range(0, 365*24*3600).Draw(t, "elapsedSecs")
		cooldownSecs := rapid.Int64Range(0, 24*3600).Draw(t, "cooldownSecs")

		task := &model.Task{
			Repeatable: false,
			Cooldown:   time.Duration(cooldownSecs) * time.Second,
		}
		last := &model.Completion{CompletedAt: base}
		now := base.Add(time.Duration(elapsedSecs) * time.Second)

		decision := EvaluateCooldown(task, last, now)

		if decision.Allowed {
			t.Fatalf("one-shot task allowed again after %ds", elapsedSecs)
		}
		if decision.Reason != ReasonAlreadyCompleted {
			t.Fatalf("unexpected denial reason %q", decision.Reason)
		}
		if decision.RetryAt != nil {
			t.Fatal("terminal denial must not carry a retry timestamp")
		}
	})
}
