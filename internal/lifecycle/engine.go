// Package lifecycle derives the temporal state of memberships from their
// stored dates. Nothing here performs I/O; the stored membership status is
// read but never changed.
package lifecycle

import (
	"errors"
	"time"

	"bunker/gym-admin/internal/domain"
)

// DefaultThresholdDays is the width of the "expiring soon" window.
const DefaultThresholdDays = 7

// MaxDurationDays bounds plan durations so end dates stay storable.
const MaxDurationDays = 3650

const day = 24 * time.Hour

var (
	ErrNegativeDuration = errors.New("duration days must not be negative")
	ErrDurationTooLong  = errors.New("duration days must not exceed 3650")
)

// Clock returns the current instant.
type Clock func() time.Time

// Engine answers date questions relative to "today" in a fixed location.
type Engine struct {
	now       Clock
	loc       *time.Location
	threshold int
}

type Option func(*Engine)

// WithClock overrides time.Now, mostly for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithLocation sets the location whose calendar day counts as "today".
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithThreshold sets the default expiring-soon window in days.
func WithThreshold(days int) Option {
	return func(e *Engine) {
		if days >= 0 {
			e.threshold = days
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:       time.Now,
		loc:       time.Local,
		threshold: DefaultThresholdDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the engine's default expiring-soon window.
func (e *Engine) Threshold() int {
	return e.threshold
}

// ComputeEndDate adds durationDays calendar days to the date part of start.
func ComputeEndDate(start time.Time, durationDays int) (time.Time, error) {
	if durationDays < 0 {
		return time.Time{}, ErrNegativeDuration
	}
	if durationDays > MaxDurationDays {
		return time.Time{}, ErrDurationTooLong
	}
	return domain.DateOf(start).AddDate(0, 0, durationDays), nil
}

// Now returns the engine clock's current instant.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Today returns the current calendar date in the engine location.
func (e *Engine) Today() time.Time {
	return domain.DateOf(e.Now())
}

// DaysUntilExpiration returns endDate - today in whole days; negative once past.
func (e *Engine) DaysUntilExpiration(endDate time.Time) int {
	return daysBetween(e.Today(), domain.DateOf(endDate))
}

// IsExpired reports whether endDate lies strictly before today.
func (e *Engine) IsExpired(endDate time.Time) bool {
	return domain.DateOf(endDate).Before(e.Today())
}

func (e *Engine) resolveThreshold(threshold int) int {
	if threshold < 0 {
		return e.threshold
	}
	return threshold
}

// both arguments must be UTC-midnight dates
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / day)
}
