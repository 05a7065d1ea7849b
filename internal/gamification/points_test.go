package gamification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachpulse/internal/gamification"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{600, 4},
		{999, 4},
		{1000, 5},
		{1499, 5},
		{1500, 6},
		{1999, 6},
		{2000, 7},
		{3000, 9},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, gamification.Level(c.points), "points=%d", c.points)
	}
}

func TestLevelMonotonic(t *testing.T) {
	prev := gamification.Level(0)
	for p := 1; p <= 5000; p += 7 {
		l := gamification.Level(p)
		assert.GreaterOrEqual(t, l, prev, "points=%d", p)
		prev = l
	}
}

func TestCategoryForAction(t *testing.T) {
	assert.Equal(t, gamification.CategoryDiet, gamification.CategoryForAction(gamification.ActionMealConsumed))
	assert.Equal(t, gamification.CategoryDiet, gamification.CategoryForAction(gamification.ActionDayCompleted))
	assert.Equal(t, gamification.CategoryConsistency, gamification.CategoryForAction(gamification.ActionStreakBonus))
	assert.Equal(t, gamification.CategoryConsistency, gamification.CategoryForAction("streak_milestone_7"))
	assert.Equal(t, gamification.CategoryAchievements, gamification.CategoryForAction(gamification.ActionAchievementUnlocked))
}

// memoryLedgerStore backs the ledger with plain maps for tests.
type memoryLedgerStore struct {
	totals  map[int]int
	buckets map[int]map[gamification.Category]int
	history []gamification.HistoryEntry
	current map[int]int
	longest map[int]int
}

func newMemoryLedgerStore() *memoryLedgerStore {
	return &memoryLedgerStore{
		totals:  map[int]int{},
		buckets: map[int]map[gamification.Category]int{},
		current: map[int]int{},
		longest: map[int]int{},
	}
}

func (m *memoryLedgerStore) ApplyPoints(_ context.Context, clientID, amount int, category gamification.Category, entry gamification.HistoryEntry) (gamification.PointsLedgerEntry, error) {
	m.totals[clientID] += amount
	if m.buckets[clientID] == nil {
		m.buckets[clientID] = map[gamification.Category]int{}
	}
	m.buckets[clientID][category] += amount
	m.history = append(m.history, entry)
	return gamification.PointsLedgerEntry{
		ClientID:         clientID,
		TotalPoints:      m.totals[clientID],
		PointsByCategory: m.buckets[clientID],
		CurrentStreak:    m.current[clientID],
		LongestStreak:    m.longest[clientID],
	}, nil
}

func (m *memoryLedgerStore) SaveStreaks(_ context.Context, clientID, current, longest int) error {
	m.current[clientID] = current
	if longest > m.longest[clientID] {
		m.longest[clientID] = longest
	}
	return nil
}

func (m *memoryLedgerStore) Ledger(_ context.Context, clientID int) (gamification.PointsLedgerEntry, error) {
	return gamification.PointsLedgerEntry{
		ClientID:         clientID,
		TotalPoints:      m.totals[clientID],
		PointsByCategory: m.buckets[clientID],
		CurrentStreak:    m.current[clientID],
		LongestStreak:    m.longest[clientID],
	}, nil
}

func (m *memoryLedgerStore) History(_ context.Context, clientID, limit int) ([]gamification.HistoryEntry, error) {
	var out []gamification.HistoryEntry
	for _, e := range m.history {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestLedgerAddPointsFreshClient(t *testing.T) {
	store := newMemoryLedgerStore()
	ledger := gamification.NewLedger(store)

	entry, err := ledger.AddPoints(context.Background(), 1, 150, gamification.ActionMealConsumed, "tracked lunch")
	require.NoError(t, err)

	assert.Equal(t, 150, entry.TotalPoints)
	assert.Equal(t, 150, entry.PointsByCategory[gamification.CategoryDiet])
	assert.Equal(t, 2, entry.Level)

	require.Len(t, store.history, 1)
	assert.NotEmpty(t, store.history[0].ID)
	assert.Equal(t, "tracked lunch", store.history[0].Description)
}

func TestLedgerAddPointsRejectsNegative(t *testing.T) {
	ledger := gamification.NewLedger(newMemoryLedgerStore())
	_, err := ledger.AddPoints(context.Background(), 1, -10, gamification.ActionMealConsumed, "")
	assert.Error(t, err)
}

func TestLedgerUpdateStreaks(t *testing.T) {
	store := newMemoryLedgerStore()
	ledger := gamification.NewLedger(store)

	base := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	dates := []time.Time{base, base.AddDate(0, 0, -1), base.AddDate(0, 0, -2), base.AddDate(0, 0, -6)}

	current, longest, err := ledger.UpdateStreaks(context.Background(), 1, dates)
	require.NoError(t, err)
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
	assert.Equal(t, 3, store.current[1])
}

func TestLedgerSummaryDerivesLevel(t *testing.T) {
	store := newMemoryLedgerStore()
	store.totals[7] = 1500
	ledger := gamification.NewLedger(store)

	entry, err := ledger.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 6, entry.Level)
}
