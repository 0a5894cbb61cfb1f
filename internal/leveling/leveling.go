// Package leveling implements the experience-to-level progression formula.
// All functions are pure: no I/O, no clock, no shared state.
package leveling

// Config holds the progression parameters. The linear threshold
// (level * ThresholdStep) is the chosen policy here, not a universal
// constant; both knobs are configurable.
type Config struct {
	// ThresholdStep is multiplied by the current level to get the
	// experience required to reach the next level.
	ThresholdStep int
	// HealthPerLevel is added to max HP on every level-up.
	HealthPerLevel int
}

// DefaultConfig returns the standard progression parameters.
func DefaultConfig() *Config {
	return &Config{
		ThresholdStep:  100,
		HealthPerLevel: 10,
	}
}

// NextLevelAt returns the cumulative experience required to advance
// past the given level.
func (c *Config) NextLevelAt(level int) int {
	return level * c.ThresholdStep
}

// Result describes the user progression state after applying a reward.
type Result struct {
	Level        int
	Exp          int
	MaxHP        int
	LeveledUp    bool
	LevelsGained int
}

// Apply adds gained experience to the current progression state and
// resolves level-ups. The threshold is re-checked against each new level,
// so a single large reward can cascade through multiple level-ups.
// Level, experience and max HP never decrease; a negative gain is
// treated as zero.
func (c *Config) Apply(level, exp, maxHP, gained int) Result {
	if gained < 0 {
		gained = 0
	}

	r := Result{
		Level: level,
		Exp:   exp + gained,
		MaxHP: maxHP,
	}

	if c.ThresholdStep <= 0 {
		return r
	}

	for r.Exp >= c.NextLevelAt(r.Level) {
		r.Level++
		r.MaxHP += c.HealthPerLevel
		r.LevelsGained++
	}
	r.LeveledUp = r.LevelsGained > 0

	return r
}
