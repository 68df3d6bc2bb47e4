package lending

import (
	"math"
	"time"
)

const (
	// DefaultLoanDurationDays is the loan duration applied when the caller
	// leaves the duration absent.
	DefaultLoanDurationDays = 14

	// DefaultFinePerDay is the fine rate applied when the caller leaves the
	// rate absent.
	DefaultFinePerDay = 1.0
)

// LoanPolicy carries the configurable lending defaults.
type LoanPolicy struct {
	DurationDays int
	FinePerDay   float64
}

// DefaultLoanPolicy returns the standard policy: 14 days, 1.0 per overdue day.
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		DurationDays: DefaultLoanDurationDays,
		FinePerDay:   DefaultFinePerDay,
	}
}

// Validate reports whether the policy values are usable.
func (p LoanPolicy) Validate() error {
	if p.DurationDays <= 0 {
		return ErrInvalidLoanPolicy
	}

	if p.FinePerDay < 0 || math.IsNaN(p.FinePerDay) || math.IsInf(p.FinePerDay, 0) {
		return ErrInvalidLoanPolicy
	}

	return nil
}

// Logger interface for operational logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the Engine.
//
// Debug level: per-operation outcomes (development use)
// Warn level: consistency repairs and members borrowing with open fines
// Error level: storage failures surfaced to the caller.
func WithLogger(logger Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithClock sets the time source for the Engine. Tests use this to simulate
// overdue returns; production code keeps the default time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		if clock == nil {
			return ErrNilClock
		}

		e.clock = clock

		return nil
	}
}

// WithLoanPolicy sets the defaults applied when a caller leaves the loan
// duration or fine rate absent.
func WithLoanPolicy(policy LoanPolicy) Option {
	return func(e *Engine) error {
		if err := policy.Validate(); err != nil {
			return err
		}

		e.policy = policy

		return nil
	}
}
