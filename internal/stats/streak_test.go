package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coachpulse/internal/stats"
)

func day(offset int) time.Time {
	base := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestCurrentStreak(t *testing.T) {
	assert.Equal(t, 0, stats.CurrentStreak(nil))
	assert.Equal(t, 1, stats.CurrentStreak([]time.Time{day(0)}))

	// gap after three consecutive days ends the run
	dates := []time.Time{day(0), day(-1), day(-2), day(-5)}
	assert.Equal(t, 3, stats.CurrentStreak(dates))

	// input order must not matter
	shuffled := []time.Time{day(-5), day(-1), day(0), day(-2)}
	assert.Equal(t, 3, stats.CurrentStreak(shuffled))
}

func TestCurrentStreakDuplicateDaysDoNotInflate(t *testing.T) {
	dates := []time.Time{
		day(0), day(0).Add(4 * time.Hour),
		day(-1), day(-1).Add(-2 * time.Hour),
	}
	assert.Equal(t, 2, stats.CurrentStreak(dates))
}

func TestLongestStreak(t *testing.T) {
	assert.Equal(t, 0, stats.LongestStreak(nil))

	// current run of 2, earlier run of 4
	dates := []time.Time{
		day(0), day(-1),
		day(-4), day(-5), day(-6), day(-7),
	}
	assert.Equal(t, 4, stats.LongestStreak(dates))
	assert.Equal(t, 2, stats.CurrentStreak(dates))
}

func TestCompletionStreakFrom(t *testing.T) {
	today := day(0)
	completed := []time.Time{day(0), day(-1), day(-2)}

	assert.True(t, stats.CompletionStreakFrom(today, completed, 3))
	assert.False(t, stats.CompletionStreakFrom(today, completed, 4))
	assert.False(t, stats.CompletionStreakFrom(today, nil, 1))
	assert.False(t, stats.CompletionStreakFrom(today, completed, 0))

	// a missing day in the middle breaks it even if the total count matches
	gappy := []time.Time{day(0), day(-2), day(-3)}
	assert.False(t, stats.CompletionStreakFrom(today, gappy, 3))
}
