package stats

import (
	"sort"
	"time"
)

func dayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// distinctDaysDesc normalizes dates to day granularity, dedupes them and
// returns them newest first. Same-day duplicates collapse to one entry so
// multiple records on a day neither break nor inflate a streak.
func distinctDaysDesc(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		k := dayKey(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		days = append(days, k)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// CurrentStreak counts the run of consecutive days ending at the most recent
// day present in dates. A gap of more than one calendar day terminates the
// run. Returns 0 for no dates.
func CurrentStreak(dates []time.Time) int {
	days := distinctDaysDesc(dates)
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in dates.
func LongestStreak(dates []time.Time) int {
	days := distinctDaysDesc(dates)
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionStreakFrom reports whether each of the n days ending at today
// (inclusive, counted backward) is present in completedDays. This is the
// perfect-completion streak used for streak achievements; it is deliberately
// distinct from CurrentStreak, which measures plain attendance from whatever
// the latest record happens to be.
func CompletionStreakFrom(today time.Time, completedDays []time.Time, n int) bool {
	if n <= 0 {
		return false
	}
	set := make(map[time.Time]struct{}, len(completedDays))
	for _, d := range completedDays {
		set[dayKey(d)] = struct{}{}
	}
	day := dayKey(today)
	for i := 0; i < n; i++ {
		if _, ok := set[day.AddDate(0, 0, -i)]; !ok {
			return false
		}
	}
	return true
}
