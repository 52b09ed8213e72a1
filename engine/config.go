package engine

import (
	"time"

	"github.com/ayoisaiah/daybook/internal/apperr"
)

var (
	errNoPrecedence = &apperr.Error{
		Message: "category precedence order must be configured before aggregation",
	}

	errNoEligibleCategories = &apperr.Error{
		Message: "deep work eligible categories must be configured before aggregation",
	}

	errNoLocation = &apperr.Error{
		Message: "a report timezone must be configured before aggregation",
	}
)

// HourWindow is a half-open range of wall clock hours [Start, End).
type HourWindow struct {
	Start int
	End   int
}

// Contains reports whether the given hour falls inside the window.
func (w HourWindow) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// Config holds every knob the aggregation pipeline depends on. It is passed
// explicitly so that aggregation stays a pure function of (events, config).
type Config struct {
	Location            *time.Location
	Rules               RuleSet
	Precedence          []string
	DeepWorkCategories  []string
	MergeGapTolerance   time.Duration
	DeepWorkThreshold   time.Duration
	MaxDeepWorkGap      time.Duration
	IdleThreshold       time.Duration
	Heartbeat           time.Duration
	ContextSwitchCost   time.Duration
	InterruptionPenalty float64
	MorningBonus        HourWindow
	PostLunchDip        HourWindow
}

// Validate reports a fatal configuration error if a required setting is
// missing. Optional settings fall back to their documented defaults and are
// never an error.
func (c *Config) Validate() error {
	if len(c.Precedence) == 0 {
		return errNoPrecedence
	}

	if len(c.DeepWorkCategories) == 0 {
		return errNoEligibleCategories
	}

	if c.Location == nil {
		return errNoLocation
	}

	return nil
}

// withDefaults returns a copy of the config with zero-valued optional
// settings replaced by their defaults.
func (c Config) withDefaults() Config {
	if c.MergeGapTolerance == 0 {
		c.MergeGapTolerance = 30 * time.Second
	}

	if c.DeepWorkThreshold == 0 {
		c.DeepWorkThreshold = 25 * time.Minute
	}

	if c.MaxDeepWorkGap == 0 {
		c.MaxDeepWorkGap = 5 * time.Minute
	}

	if c.IdleThreshold == 0 {
		c.IdleThreshold = 5 * time.Minute
	}

	if c.Heartbeat == 0 {
		c.Heartbeat = 10 * time.Minute
	}

	if c.ContextSwitchCost == 0 {
		c.ContextSwitchCost = time.Minute
	}

	if c.InterruptionPenalty == 0 {
		c.InterruptionPenalty = 1
	}

	if c.MorningBonus == (HourWindow{}) {
		c.MorningBonus = HourWindow{Start: 8, End: 12}
	}

	if c.PostLunchDip == (HourWindow{}) {
		c.PostLunchDip = HourWindow{Start: 13, End: 15}
	}

	return c
}

// eligible reports whether a category counts towards deep work.
func (c Config) eligible(category string) bool {
	for _, v := range c.DeepWorkCategories {
		if v == category {
			return true
		}
	}

	return false
}

// priority returns the precedence rank of a category. Lower is stronger.
// Categories absent from the configured order rank below every listed one.
func (c Config) priority(category string) int {
	for i, v := range c.Precedence {
		if v == category {
			return i
		}
	}

	return len(c.Precedence)
}
