package srs

import (
	"math"

	"github.com/phrazzld/tango-api/internal/domain"
)

// retrievability computes the current recall probability of a card given
// the days elapsed since its last review and its stability estimate.
func retrievability(elapsedDays, stability float64, _ *Params) float64 {
	return math.Pow(1+factor*elapsedDays/clampStability(stability), decay)
}

// initialStability returns the stability assigned on a card's first rating.
func initialStability(rating domain.Rating, params *Params) float64 {
	return clampStability(params.Weights[rating.Grade()-1])
}

// initialDifficulty returns the difficulty assigned on a card's first
// rating. When clamp is true the result is bounded to [1, 10]; the
// unclamped value is used as the mean-reversion target in nextDifficulty.
func initialDifficulty(rating domain.Rating, params *Params, clamp bool) float64 {
	d := params.Weights[4] - math.Exp(params.Weights[5]*float64(rating.Grade()-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextDifficulty updates the difficulty after a review: a linear step away
// from the rating (harder ratings push difficulty up) damped near the
// bounds, then mean-reverted toward the initial-Easy difficulty so items
// do not get stuck at the extremes.
func nextDifficulty(difficulty float64, rating domain.Rating, params *Params) float64 {
	deltaD := -params.Weights[6] * float64(rating.Grade()-3)
	damped := difficulty + deltaD*(10-difficulty)/9
	target := initialDifficulty(domain.RatingEasy, params, false)
	reverted := params.Weights[7]*target + (1-params.Weights[7])*damped
	return clampDifficulty(reverted)
}

// nextRecallStability computes the stability after a successful recall
// (Hard, Good, or Easy). Growth is multiplicative, larger for easier items
// (low difficulty), lower current stability, and lower retrievability at
// review time.
func nextRecallStability(difficulty, stability, retr float64, rating domain.Rating, params *Params) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = params.Weights[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = params.Weights[16]
	}

	growth := math.Exp(params.Weights[8]) *
		(11 - difficulty) *
		math.Pow(stability, -params.Weights[9]) *
		(math.Exp((1-retr)*params.Weights[10]) - 1) *
		hardPenalty * easyBonus

	return clampStability(stability * (1 + growth))
}

// nextForgetStability computes the stability after a lapse. The result is
// capped at the pre-lapse stability: forgetting never strengthens memory.
func nextForgetStability(difficulty, stability, retr float64, params *Params) float64 {
	s := params.Weights[11] *
		math.Pow(difficulty, -params.Weights[12]) *
		(math.Pow(stability+1, params.Weights[13]) - 1) *
		math.Exp((1-retr)*params.Weights[14])

	return clampStability(math.Min(s, stability))
}

// shortTermStability applies the same-day stability update used while a
// card is inside learning or relearning steps, where the long-term decay
// curve does not apply.
func shortTermStability(stability float64, rating domain.Rating, params *Params) float64 {
	inc := math.Exp(params.Weights[17] * (float64(rating.Grade()) - 3 + params.Weights[18]))
	if rating == domain.RatingGood || rating == domain.RatingEasy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextIntervalDays converts a stability estimate into a scheduled interval:
// the number of days until recall probability decays to the desired
// retention, rounded and clamped to [1, MaximumInterval].
func nextIntervalDays(stability float64, params *Params) int {
	ivl := clampStability(stability) / factor *
		(math.Pow(params.DesiredRetention, 1.0/decay) - 1)
	return clampInterval(int(math.Round(ivl)), params.MaximumInterval)
}

// clampInterval constrains an interval to [1, maxDays].
func clampInterval(days, maxDays int) int {
	if days < 1 {
		return 1
	}
	if days > maxDays {
		return maxDays
	}
	return days
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
