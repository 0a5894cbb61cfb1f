// Property-based tests for the leveling formula.
package leveling

import (
	"testing"

	"pgregory.net/rapid"
)

// TestApplyMonotonicityProperty verifies that for any sequence of rewards,
// level, experience and max HP never decrease.
func TestApplyMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := &Config{
			ThresholdStep:  rapid.IntRange(1, 1000).Draw(rt, "thresholdStep"),
			HealthPerLevel: rapid.IntRange(0, 100).Draw(rt, "healthPerLevel"),
		}

		level := 1
		exp := 0
		maxHP := 100

		gains := rapid.SliceOfN(rapid.IntRange(-100, 5000), 1, 50).Draw(rt, "gains")
		for i, gain := range gains {
			r := cfg.Apply(level, exp, maxHP, gain)

			if r.Level < level {
				rt.Fatalf("level decreased at step %d: %d -> %d", i, level, r.Level)
			}
			if r.Exp < exp {
				rt.Fatalf("exp decreased at step %d: %d -> %d", i, exp, r.Exp)
			}
			if r.MaxHP < maxHP {
				rt.Fatalf("max HP decreased at step %d: %d -> %d", i, maxHP, r.MaxHP)
			}

			level, exp, maxHP = r.Level, r.Exp, r.MaxHP
		}
	})
}

// TestApplyThresholdProperty verifies that after Apply returns, the
// resulting experience is always strictly below the next level's
// threshold: no pending level-up is ever left unresolved.
func TestApplyThresholdProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := &Config{
			ThresholdStep:  rapid.IntRange(1, 1000).Draw(rt, "thresholdStep"),
			HealthPerLevel: rapid.IntRange(0, 100).Draw(rt, "healthPerLevel"),
		}

		level := rapid.IntRange(1, 50).Draw(rt, "level")
		exp := rapid.IntRange(0, cfg.NextLevelAt(level)-1).Draw(rt, "exp")
		gained := rapid.IntRange(0, 100000).Draw(rt, "gained")

		r := cfg.Apply(level, exp, 100, gained)

		if r.Exp >= cfg.NextLevelAt(r.Level) {
			rt.Fatalf("unresolved level-up: exp %d >= threshold %d at level %d",
				r.Exp, cfg.NextLevelAt(r.Level), r.Level)
		}
		if r.Exp != exp+gained {
			rt.Fatalf("experience not conserved: want %d, got %d", exp+gained, r.Exp)
		}
		if r.LeveledUp != (r.LevelsGained > 0) {
			rt.Fatalf("LeveledUp flag inconsistent with LevelsGained=%d", r.LevelsGained)
		}
	})
}
