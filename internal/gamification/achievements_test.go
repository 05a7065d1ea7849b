package gamification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachpulse/internal/gamification"
	"coachpulse/internal/models"
)

var testTemplates = []gamification.AchievementTemplate{
	{Type: "first_meal", Name: "First Bite", Points: 50},
	{Type: "day_complete", Name: "Clean Sheet", Points: 100},
	{Type: "week_complete", Name: "Perfect Week", Points: 500},
	{Type: "streak_3", Name: "Warming Up", Points: 150},
	{Type: "streak_7", Name: "On Fire", Points: 400},
	{Type: "perfect_day", Name: "Bullseye", Points: 250},
	{Type: "made_up_rule", Name: "Unknown", Points: 999},
}

func today() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func completeDay(offset int, percent float64) models.DailyCompletion {
	return models.DailyCompletion{
		Date:              today().AddDate(0, 0, offset),
		CompletionPercent: percent,
		ItemsTracked:      3,
		ProteinConsumed:   150, ProteinTarget: 150,
		CarbsConsumed: 200, CarbsTarget: 200,
		FatConsumed: 60, FatTarget: 60,
	}
}

func unlockedTypes(list []gamification.UnlockedAchievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range list {
		out[a.Type] = true
	}
	return out
}

func TestEvaluateEmptyWindow(t *testing.T) {
	got := gamification.Evaluate(gamification.ActivityWindow{Today: today()}, testTemplates, nil)
	assert.Empty(t, got)
}

func TestEvaluateFirstMealAndDayComplete(t *testing.T) {
	w := gamification.ActivityWindow{
		Today: today(),
		Days:  []models.DailyCompletion{completeDay(0, 100)},
	}
	got := unlockedTypes(gamification.Evaluate(w, testTemplates, nil))
	assert.True(t, got["first_meal"])
	assert.True(t, got["day_complete"])
	assert.True(t, got["perfect_day"])
	assert.False(t, got["streak_3"])
	// unknown template types are skipped, never unlocked
	assert.False(t, got["made_up_rule"])
}

func TestEvaluateStreaks(t *testing.T) {
	var days []models.DailyCompletion
	for i := 0; i > -7; i-- {
		days = append(days, completeDay(i, 100))
	}
	w := gamification.ActivityWindow{Today: today(), Days: days}
	got := unlockedTypes(gamification.Evaluate(w, testTemplates, nil))
	assert.True(t, got["streak_3"])
	assert.True(t, got["streak_7"])
	assert.True(t, got["week_complete"])
}

func TestEvaluateIncompleteDaysBreakCompletionStreak(t *testing.T) {
	days := []models.DailyCompletion{
		completeDay(0, 100),
		completeDay(-1, 80), // attended but not complete
		completeDay(-2, 100),
	}
	w := gamification.ActivityWindow{Today: today(), Days: days}
	got := unlockedTypes(gamification.Evaluate(w, testTemplates, nil))
	assert.False(t, got["streak_3"])
	assert.True(t, got["day_complete"])
}

func TestEvaluatePerfectDayNeedsMacros(t *testing.T) {
	d := completeDay(0, 100)
	d.ProteinConsumed = 100 // under 95% of the 150g target
	w := gamification.ActivityWindow{Today: today(), Days: []models.DailyCompletion{d}}
	got := unlockedTypes(gamification.Evaluate(w, testTemplates, nil))
	assert.False(t, got["perfect_day"])
	assert.True(t, got["day_complete"])
}

func TestEvaluateNeverRechecksUnlockedTypes(t *testing.T) {
	w := gamification.ActivityWindow{
		Today: today(),
		Days:  []models.DailyCompletion{completeDay(0, 100)},
	}
	already := map[string]bool{"first_meal": true, "day_complete": true, "perfect_day": true}
	got := gamification.Evaluate(w, testTemplates, already)
	assert.Empty(t, got)
}

// memoryAchievementStore keeps unlocks in a map, mimicking the (client, type)
// uniqueness constraint.
type memoryAchievementStore struct {
	unlocked map[int]map[string]gamification.UnlockedAchievement
	failNext bool
}

func newMemoryAchievementStore() *memoryAchievementStore {
	return &memoryAchievementStore{unlocked: map[int]map[string]gamification.UnlockedAchievement{}}
}

func (m *memoryAchievementStore) UnlockedTypes(_ context.Context, clientID int) (map[string]bool, error) {
	out := map[string]bool{}
	for typ := range m.unlocked[clientID] {
		out[typ] = true
	}
	return out, nil
}

func (m *memoryAchievementStore) SaveUnlock(_ context.Context, clientID int, a gamification.UnlockedAchievement) (bool, error) {
	if m.unlocked[clientID] == nil {
		m.unlocked[clientID] = map[string]gamification.UnlockedAchievement{}
	}
	if _, exists := m.unlocked[clientID][a.Type]; exists {
		return false, nil
	}
	m.unlocked[clientID][a.Type] = a
	return true, nil
}

func (m *memoryAchievementStore) ListUnlocked(_ context.Context, clientID int) ([]gamification.UnlockedAchievement, error) {
	var out []gamification.UnlockedAchievement
	for _, a := range m.unlocked[clientID] {
		out = append(out, a)
	}
	return out, nil
}

func TestEngineCheckAndUnlockAwardsPoints(t *testing.T) {
	achStore := newMemoryAchievementStore()
	ledgerStore := newMemoryLedgerStore()
	ledger := gamification.NewLedger(ledgerStore)
	engine := gamification.NewEngine(testTemplates, achStore, ledger)

	w := gamification.ActivityWindow{
		Today: today(),
		Days:  []models.DailyCompletion{completeDay(0, 100)},
	}
	unlocked, err := engine.CheckAndUnlock(context.Background(), 1, w)
	require.NoError(t, err)
	require.Len(t, unlocked, 3) // first_meal, day_complete, perfect_day

	entry, err := ledger.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 400, entry.TotalPoints)
	assert.Equal(t, 400, entry.PointsByCategory[gamification.CategoryAchievements])
}

func TestEngineCheckAndUnlockIdempotent(t *testing.T) {
	achStore := newMemoryAchievementStore()
	ledgerStore := newMemoryLedgerStore()
	ledger := gamification.NewLedger(ledgerStore)
	engine := gamification.NewEngine(testTemplates, achStore, ledger)

	w := gamification.ActivityWindow{
		Today: today(),
		Days:  []models.DailyCompletion{completeDay(0, 100)},
	}
	first, err := engine.CheckAndUnlock(context.Background(), 1, w)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := engine.CheckAndUnlock(context.Background(), 1, w)
	require.NoError(t, err)
	assert.Empty(t, second)

	// points awarded exactly once
	entry, err := ledger.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 400, entry.TotalPoints)
}

func TestEngineClientsAreIndependent(t *testing.T) {
	achStore := newMemoryAchievementStore()
	ledger := gamification.NewLedger(newMemoryLedgerStore())
	engine := gamification.NewEngine(testTemplates, achStore, ledger)

	w := gamification.ActivityWindow{
		Today: today(),
		Days:  []models.DailyCompletion{completeDay(0, 100)},
	}
	_, err := engine.CheckAndUnlock(context.Background(), 1, w)
	require.NoError(t, err)

	unlocked, err := engine.CheckAndUnlock(context.Background(), 2, w)
	require.NoError(t, err)
	assert.NotEmpty(t, unlocked)
}
