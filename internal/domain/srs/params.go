package srs

import (
	"fmt"
	"time"
)

// Params defines all configurable parameters for the scheduling algorithm.
// The defaults reproduce the product's existing schedules; treat the weight
// vector as an opaque tuned parameter set.
type Params struct {
	// Weights are the 19 model weights: w[0..3] initial stability per
	// rating, w[4..7] difficulty, w[8..10] recall stability growth,
	// w[11..14] post-lapse stability, w[15] hard penalty, w[16] easy
	// bonus, w[17..18] short-term (same-day) stability.
	Weights [19]float64

	// DesiredRetention is the target recall probability at review time,
	// in (0, 1].
	DesiredRetention float64

	// MaximumInterval caps scheduled intervals, in days.
	MaximumInterval int

	// LearningSteps are the sub-day delays a new card walks through
	// before graduating to the review cycle.
	LearningSteps []time.Duration

	// RelearningSteps are the sub-day delays a lapsed card walks through
	// before returning to the review cycle.
	RelearningSteps []time.Duration
}

// Memory-decay curve constants. The retrievability curve is
// R(t, S) = (1 + factor*t/S)^decay, chosen so that R(S, S) = 0.9:
// stability is the number of days until recall probability decays to 90%.
const (
	decay  = -0.5
	factor = 19.0 / 81.0
)

// minStability keeps stability strictly positive so the interval and
// retrievability formulas stay defined.
const minStability = 0.01

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		Weights: [19]float64{
			0.4872, 1.4003, 3.7145, 13.8206, // initial stability S0(rating)
			5.1618, 1.2298, 0.8975, 0.031, // difficulty
			1.6474, 0.1367, 1.0461, // recall stability
			2.1072, 0.0793, 0.3246, 1.587, // post-lapse stability
			0.2272, // hard penalty
			2.8755, // easy bonus
			1.25, 0.235, // short-term stability
		},
		DesiredRetention: 0.9,
		MaximumInterval:  365,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
	}
}

// Validate checks that the parameters are usable.
func (p *Params) Validate() error {
	if p.DesiredRetention <= 0 || p.DesiredRetention > 1 {
		return fmt.Errorf("desired retention %f out of range (0, 1]", p.DesiredRetention)
	}

	if p.MaximumInterval < 1 {
		return fmt.Errorf("maximum interval %d must be at least 1 day", p.MaximumInterval)
	}

	for i, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("weight w[%d] = %f must not be negative", i, w)
		}
	}

	return nil
}

// learningStepsOrDefault returns the configured learning steps, falling back
// to a single one-minute step if none are configured.
func (p *Params) learningStepsOrDefault() []time.Duration {
	if len(p.LearningSteps) == 0 {
		return []time.Duration{time.Minute}
	}
	return p.LearningSteps
}

// relearningStepsOrDefault returns the configured relearning steps, falling
// back to a single ten-minute step if none are configured.
func (p *Params) relearningStepsOrDefault() []time.Duration {
	if len(p.RelearningSteps) == 0 {
		return []time.Duration{10 * time.Minute}
	}
	return p.RelearningSteps
}
