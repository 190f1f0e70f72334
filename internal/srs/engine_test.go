package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextReview(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		state        ReviewState
		isCorrect    bool
		wantInterval float64
		wantEase     float64
	}{
		{
			name:         "first correct review multiplies by the previous ease",
			state:        ReviewState{IntervalDays: 1, EaseFactor: 2.5},
			isCorrect:    true,
			wantInterval: 3, // round(2.5)
			wantEase:     2.6,
		},
		{
			name:         "correct review keeps growing",
			state:        ReviewState{IntervalDays: 3, EaseFactor: 2.6},
			isCorrect:    true,
			wantInterval: 8, // round(7.8)
			wantEase:     2.7,
		},
		{
			name:         "correct review at the floor",
			state:        ReviewState{IntervalDays: 1, EaseFactor: 1.3},
			isCorrect:    true,
			wantInterval: 1, // round(1.3)
			wantEase:     1.4,
		},
		{
			name:         "long interval",
			state:        ReviewState{IntervalDays: 30, EaseFactor: 2.0},
			isCorrect:    true,
			wantInterval: 60,
			wantEase:     2.1,
		},
		{
			name:         "correct review is capped at the maximum interval",
			state:        ReviewState{IntervalDays: 20000, EaseFactor: 2.5},
			isCorrect:    true,
			wantInterval: MaxIntervalDays,
			wantEase:     2.6,
		},
		{
			name:         "correct review at the maximum interval stays there",
			state:        ReviewState{IntervalDays: MaxIntervalDays, EaseFactor: 3.0},
			isCorrect:    true,
			wantInterval: MaxIntervalDays,
			wantEase:     3.1,
		},
		{
			name:         "incorrect review resets the interval",
			state:        ReviewState{IntervalDays: 3, EaseFactor: 2.6},
			isCorrect:    false,
			wantInterval: 1,
			wantEase:     2.4,
		},
		{
			name:         "incorrect review does not go below the minimum ease",
			state:        ReviewState{IntervalDays: 15, EaseFactor: 1.4},
			isCorrect:    false,
			wantInterval: 1,
			wantEase:     1.3,
		},
		{
			name:         "incorrect review at the minimum ease",
			state:        ReviewState{IntervalDays: 1, EaseFactor: 1.3},
			isCorrect:    false,
			wantInterval: 1,
			wantEase:     1.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReview(tt.state, tt.isCorrect, now)

			assert.Equal(t, tt.wantInterval, got.IntervalDays)
			assert.InDelta(t, tt.wantEase, got.EaseFactor, 1e-9)
			assert.Equal(t, now.AddDate(0, 0, int(tt.wantInterval)), got.NextReviewAt)
		})
	}
}

func TestNextReview_Sequence(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	state := ReviewState{IntervalDays: 1, EaseFactor: DefaultEaseFactor}

	answers := []bool{true, true, false, true}
	wantIntervals := []float64{3, 8, 1, 3}
	wantEases := []float64{2.6, 2.7, 2.5, 2.6}

	for i, correct := range answers {
		got := NextReview(state, correct, now)
		assert.Equal(t, wantIntervals[i], got.IntervalDays, "review %d", i+1)
		assert.InDelta(t, wantEases[i], got.EaseFactor, 1e-9, "review %d", i+1)
		assert.GreaterOrEqual(t, got.EaseFactor, MinEaseFactor)
		assert.GreaterOrEqual(t, got.IntervalDays, MinIntervalDays)

		state = ReviewState{IntervalDays: got.IntervalDays, EaseFactor: got.EaseFactor}
		now = got.NextReviewAt
	}
}

func TestNextReview_RepeatedFailuresStayAtFloor(t *testing.T) {
	state := ReviewState{IntervalDays: 20, EaseFactor: 2.5}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		got := NextReview(state, false, now)
		assert.Equal(t, MinIntervalDays, got.IntervalDays)
		assert.GreaterOrEqual(t, got.EaseFactor, MinEaseFactor)
		state = ReviewState{IntervalDays: got.IntervalDays, EaseFactor: got.EaseFactor}
	}
	assert.InDelta(t, MinEaseFactor, state.EaseFactor, 1e-9)
}

func TestNextReview_LongCorrectStreakIsCapped(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	state := ReviewState{IntervalDays: 1, EaseFactor: DefaultEaseFactor}

	var got ReviewOutcome
	for i := 0; i < 40; i++ {
		got = NextReview(state, true, start)
		assert.LessOrEqual(t, got.IntervalDays, MaxIntervalDays, "review %d", i+1)
		assert.True(t, got.NextReviewAt.After(start), "review %d", i+1)
		state = ReviewState{IntervalDays: got.IntervalDays, EaseFactor: got.EaseFactor}
	}

	assert.Equal(t, MaxIntervalDays, got.IntervalDays)
	assert.Equal(t, start.AddDate(0, 0, 36500), got.NextReviewAt)
	assert.Equal(t, 2124, got.NextReviewAt.Year())
}
