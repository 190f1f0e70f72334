package srs

import (
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MinIntervalDays   = 1.0
	// MaxIntervalDays caps the interval at 100 years so long streaks cannot overflow the next review time.
	MaxIntervalDays   = 36500.0

	easeBonus   = 0.1
	easePenalty = 0.2
)

// ReviewState is the schedule state an outcome is computed from.
type ReviewState struct {
	IntervalDays float64
	EaseFactor   float64
}

// ReviewOutcome is the schedule state after a review.
type ReviewOutcome struct {
	IntervalDays float64
	EaseFactor   float64
	NextReviewAt time.Time
}

// NextReview computes the schedule after one review, a simplified SM-2.
//
// On a correct answer the interval grows by the ease factor the item had before this
// review, and only then is the ease raised. A wrong answer resets the interval to one
// day and lowers the ease. The ease never drops below MinEaseFactor and the interval
// never exceeds MaxIntervalDays.
func NextReview(state ReviewState, isCorrect bool, now time.Time) ReviewOutcome {
	var interval, ease float64
	if isCorrect {
		interval = math.Min(MaxIntervalDays, math.Max(MinIntervalDays, math.Round(state.IntervalDays*state.EaseFactor)))
		ease = math.Max(MinEaseFactor, state.EaseFactor+easeBonus)
	} else {
		interval = MinIntervalDays
		ease = math.Max(MinEaseFactor, state.EaseFactor-easePenalty)
	}

	return ReviewOutcome{
		IntervalDays: interval,
		EaseFactor:   ease,
		NextReviewAt: now.AddDate(0, 0, int(interval)),
	}
}
