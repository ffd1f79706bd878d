package srs

import (
	"time"

	"github.com/phrazzld/tango-api/internal/domain"
)

// calculateNextState computes the full post-review card state for the given
// rating at the given time. The input state is not mutated; a new instance
// is returned. The function is deterministic: identical inputs always
// produce the identical output.
func calculateNextState(
	state *domain.CardState,
	rating domain.Rating,
	now time.Time,
	params *Params,
) *domain.CardState {
	next := state.Clone()

	// Days since the last review, clamped to zero for clock skew.
	var elapsed float64
	if !state.LastReviewedAt.IsZero() {
		elapsed = now.Sub(state.LastReviewedAt).Hours() / 24.0
		if elapsed < 0 {
			elapsed = 0
		}
	}

	next.ElapsedDays = elapsed
	next.ScheduledDays = state.IntervalDays // the interval that just elapsed
	next.ReviewCount = state.ReviewCount + 1
	next.LastReviewedAt = now
	next.UpdatedAt = now

	var interval time.Duration
	switch state.State {
	case domain.StateNew:
		interval = reviewNew(next, rating, params)
	case domain.StateLearning:
		interval = reviewSteps(next, rating, params.learningStepsOrDefault(), params)
	case domain.StateRelearning:
		interval = reviewSteps(next, rating, params.relearningStepsOrDefault(), params)
	default: // domain.StateReview
		interval = reviewGraduated(next, rating, elapsed, params)
	}

	next.IntervalDays = interval.Hours() / 24.0
	next.NextReview = now.Add(interval)

	return next
}

// reviewNew handles the first rating of a card in the New state. The card
// either enters the sub-day learning steps or, on Good with a single-step
// configuration or on Easy, graduates straight to the review cycle.
func reviewNew(next *domain.CardState, rating domain.Rating, params *Params) time.Duration {
	next.Stability = initialStability(rating, params)
	next.Difficulty = initialDifficulty(rating, params, true)

	steps := params.learningStepsOrDefault()

	switch rating {
	case domain.RatingAgain:
		next.State = domain.StateLearning
		next.LearningStep = 0
		return steps[0]

	case domain.RatingHard:
		next.State = domain.StateLearning
		next.LearningStep = 0
		if len(steps) > 1 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[0]

	case domain.RatingGood:
		if len(steps) > 1 {
			next.State = domain.StateLearning
			next.LearningStep = 1
			return steps[1]
		}
		return graduate(next, params)

	default: // domain.RatingEasy
		interval := graduate(next, params)
		// Easy must schedule past what Good would have produced.
		goodDays := nextIntervalDays(initialStability(domain.RatingGood, params), params)
		if days := int(interval.Hours() / 24); days <= goodDays {
			bumped := clampInterval(goodDays+1, params.MaximumInterval)
			return daysToDuration(bumped)
		}
		return interval
	}
}

// reviewSteps handles cards inside the learning or relearning steps. Again
// resets the step counter, Hard and Good advance it, Easy graduates
// immediately. Exhausting the steps graduates the card.
func reviewSteps(
	next *domain.CardState,
	rating domain.Rating,
	steps []time.Duration,
	params *Params,
) time.Duration {
	// Pre-update stability is needed to compare the Easy branch against
	// what Good would have produced from the same starting point.
	preStability := next.Stability

	next.Stability = shortTermStability(next.Stability, rating, params)
	next.Difficulty = nextDifficulty(next.Difficulty, rating, params)

	switch rating {
	case domain.RatingAgain:
		next.LearningStep = 0
		return steps[0]

	case domain.RatingHard, domain.RatingGood:
		nextStep := next.LearningStep + 1
		if nextStep >= len(steps) {
			return graduate(next, params)
		}
		next.LearningStep = nextStep
		return steps[nextStep]

	default: // domain.RatingEasy
		interval := graduate(next, params)
		goodDays := nextIntervalDays(shortTermStability(preStability, domain.RatingGood, params), params)
		if days := int(interval.Hours() / 24); days <= goodDays {
			bumped := clampInterval(goodDays+1, params.MaximumInterval)
			return daysToDuration(bumped)
		}
		return interval
	}
}

// reviewGraduated handles cards in the Review state. An Again rating is a
// lapse: the lapse counter increments, stability drops sharply, and the
// card enters relearning. Successful recalls grow stability and stay in
// Review. Intervals for Hard/Good/Easy are computed together so their
// ordering can be enforced before the rated branch is chosen.
func reviewGraduated(
	next *domain.CardState,
	rating domain.Rating,
	elapsed float64,
	params *Params,
) time.Duration {
	retr := retrievability(elapsed, next.Stability, params)
	preDifficulty := next.Difficulty
	newDifficulty := nextDifficulty(preDifficulty, rating, params)

	if rating == domain.RatingAgain {
		next.Lapses++
		next.State = domain.StateRelearning
		next.LearningStep = 0
		next.Stability = nextForgetStability(preDifficulty, next.Stability, retr, params)
		next.Difficulty = newDifficulty
		return params.relearningStepsOrDefault()[0]
	}

	// Stability updates use the pre-update difficulty for every branch.
	hardS := nextRecallStability(preDifficulty, next.Stability, retr, domain.RatingHard, params)
	goodS := nextRecallStability(preDifficulty, next.Stability, retr, domain.RatingGood, params)
	easyS := nextRecallStability(preDifficulty, next.Stability, retr, domain.RatingEasy, params)

	hardDays := nextIntervalDays(hardS, params)
	goodDays := nextIntervalDays(goodS, params)
	easyDays := nextIntervalDays(easyS, params)

	// Enforce interval ordering: Hard <= Good < Easy.
	if hardDays > goodDays {
		hardDays = goodDays
	}
	if easyDays <= goodDays {
		easyDays = goodDays + 1
	}
	hardDays = clampInterval(hardDays, params.MaximumInterval)
	goodDays = clampInterval(goodDays, params.MaximumInterval)
	easyDays = clampInterval(easyDays, params.MaximumInterval)

	next.State = domain.StateReview
	next.Difficulty = newDifficulty

	var days int
	switch rating {
	case domain.RatingHard:
		next.Stability = hardS
		days = hardDays
	case domain.RatingGood:
		next.Stability = goodS
		days = goodDays
	default: // domain.RatingEasy
		next.Stability = easyS
		days = easyDays
	}

	return daysToDuration(days)
}

// graduate transitions a card out of the learning steps into the Review
// cycle and returns its first full-day interval.
func graduate(next *domain.CardState, params *Params) time.Duration {
	next.State = domain.StateReview
	next.LearningStep = 0
	return daysToDuration(nextIntervalDays(next.Stability, params))
}

func daysToDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
