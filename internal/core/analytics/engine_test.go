package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideorlandi/habitpulse/internal/core/analytics"
	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

func completionsFor(habitID string, days ...time.Time) []*domain.Completion {
	out := make([]*domain.Completion, 0, len(days))
	for _, d := range days {
		out = append(out, completionOn(habitID, d))
	}
	return out
}

func TestEngine_ProgressSummary(t *testing.T) {
	engine := analytics.NewEngine(analytics.NewCalculator())
	asOf := date(2025, 1, 14)

	t.Run("Aggregates across habits", func(t *testing.T) {
		h1 := testHabit(t, "Health", date(2025, 1, 1))
		h2 := testHabit(t, "Health", date(2025, 1, 1))

		habits := []*domain.Habit{h1, h2}
		completions := map[string][]*domain.Completion{
			// h1: completed every day of the window, longest 14.
			h1.ID: completionsFor(h1.ID, daysBetween(date(2025, 1, 1), asOf)...),
			// h2: completed today only.
			h2.ID: completionsFor(h2.ID, asOf),
		}

		summary, warnings := engine.ProgressSummary(habits, completions, asOf)
		require.NotNil(t, summary)
		assert.Empty(t, warnings)

		assert.Equal(t, "2025-01-14", summary.Date)
		assert.Equal(t, 2, summary.TotalHabits)
		assert.Equal(t, 2, summary.CompletedToday)
		assert.Equal(t, 100.0, summary.TodayRate)
		assert.Equal(t, 2, summary.ActiveHabits)
		assert.Equal(t, 14, summary.LongestStreak)
		assert.Equal(t, 7.5, summary.AvgCurrentStreak)

		// This week: h1 all 7 days, h2 one day -> 8/14. Last week: h1 only -> 7/14.
		assert.InDelta(t, 57.14, summary.WeekRate, 0.01)
		assert.Equal(t, 50.0, summary.PrevWeekRate)
		assert.InDelta(t, 7.14, summary.WeekDelta, 0.01)
	})

	t.Run("Zero habits degrade to zero values", func(t *testing.T) {
		summary, warnings := engine.ProgressSummary(nil, nil, asOf)
		require.NotNil(t, summary)
		assert.Empty(t, warnings)

		assert.Equal(t, 0, summary.TotalHabits)
		assert.Equal(t, 0.0, summary.TodayRate)
		assert.Equal(t, 0.0, summary.WeekRate)
		assert.Equal(t, 0, summary.LongestStreak)
	})

	t.Run("Bad records surface as warnings without aborting", func(t *testing.T) {
		h := testHabit(t, "", date(2025, 1, 10))
		completions := map[string][]*domain.Completion{
			h.ID: {
				completionOn(h.ID, date(2025, 1, 2)), // before creation
				completionOn(h.ID, asOf),
			},
		}

		summary, warnings := engine.ProgressSummary([]*domain.Habit{h}, completions, asOf)
		require.NotNil(t, summary)
		require.Len(t, warnings, 1)
		assert.Equal(t, h.ID, warnings[0].HabitID)
		assert.Equal(t, 1, summary.CompletedToday)
	})

	t.Run("Idempotent over identical input", func(t *testing.T) {
		h := testHabit(t, "Health", date(2025, 1, 1))
		habits := []*domain.Habit{h}
		completions := map[string][]*domain.Completion{
			h.ID: completionsFor(h.ID, date(2025, 1, 13), asOf),
		}

		first, _ := engine.ProgressSummary(habits, completions, asOf)
		second, _ := engine.ProgressSummary(habits, completions, asOf)
		assert.Equal(t, first, second)
	})
}

func daysBetween(from, to time.Time) []time.Time {
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func TestEngine_Series(t *testing.T) {
	engine := analytics.NewEngine(analytics.NewCalculator())
	asOf := date(2025, 1, 7)

	t.Run("Daily progress marks completed days", func(t *testing.T) {
		h := testHabit(t, "", date(2025, 1, 1))
		habits := []*domain.Habit{h}
		completions := map[string][]*domain.Completion{
			h.ID: completionsFor(h.ID, date(2025, 1, 1), date(2025, 1, 7)),
		}

		series, warnings, err := engine.Series(habits, completions, asOf, 7)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, series, 1)

		assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 1}, series[0].DailyProgress)
		assert.Equal(t, 1, series[0].CurrentStreak)
		assert.Equal(t, 1, series[0].LongestStreak)
		assert.Equal(t, h.Name, series[0].Name)
	})

	t.Run("Caps the series at five habits", func(t *testing.T) {
		var habits []*domain.Habit
		completions := map[string][]*domain.Completion{}
		for i := 0; i < 8; i++ {
			h := testHabit(t, "", date(2025, 1, 1))
			habits = append(habits, h)
			completions[h.ID] = nil
		}

		series, _, err := engine.Series(habits, completions, asOf, 7)
		require.NoError(t, err)
		assert.Len(t, series, analytics.MaxSeriesHabits)
	})

	t.Run("Rejects non-positive window", func(t *testing.T) {
		_, _, err := engine.Series(nil, nil, asOf, 0)
		assert.ErrorIs(t, err, analytics.ErrInvalidWindow)
	})
}

func TestEngine_TrendAndCategories(t *testing.T) {
	engine := analytics.NewEngine(analytics.NewCalculator())
	asOf := date(2025, 1, 7)

	h1 := testHabit(t, "Health", date(2025, 1, 1))
	h2 := testHabit(t, "", date(2025, 1, 1))
	habits := []*domain.Habit{h1, h2}
	completions := map[string][]*domain.Completion{
		h1.ID: completionsFor(h1.ID, date(2025, 1, 6), date(2025, 1, 7)),
		h2.ID: completionsFor(h2.ID, date(2025, 1, 7)),
	}

	t.Run("Trend delegates with shared indexes", func(t *testing.T) {
		buckets, warnings, err := engine.Trend(habits, completions, asOf, 7, analytics.GranularityDaily)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, buckets, 7)
		assert.Equal(t, 2, buckets[6].Completed)
		assert.Equal(t, 100.0, buckets[6].Rate)
	})

	t.Run("Trend propagates granularity errors", func(t *testing.T) {
		_, _, err := engine.Trend(habits, completions, asOf, 7, "monthly")
		assert.ErrorIs(t, err, analytics.ErrInvalidGranularity)
	})

	t.Run("Category stats include Uncategorized", func(t *testing.T) {
		stats, warnings := engine.CategoryStats(habits, completions, asOf, analytics.SortByCount)
		assert.Empty(t, warnings)
		require.Len(t, stats, 2)

		categories := []string{stats[0].Category, stats[1].Category}
		assert.Contains(t, categories, "Health")
		assert.Contains(t, categories, analytics.UncategorizedLabel)
	})
}

func TestEngine_ComputeStreaks(t *testing.T) {
	engine := analytics.NewEngine(analytics.NewCalculator())
	h := testHabit(t, "", date(2025, 1, 1))
	asOf := date(2025, 1, 6)

	completions := completionsFor(h.ID,
		date(2025, 1, 1), date(2025, 1, 2), date(2025, 1, 3),
		date(2025, 1, 5), date(2025, 1, 6),
	)

	streaks, last, warnings := engine.ComputeStreaks(h, completions, asOf)

	assert.Empty(t, warnings)
	assert.Equal(t, 2, streaks.Current)
	assert.Equal(t, 3, streaks.Longest)
	require.NotNil(t, last)
	assert.Equal(t, date(2025, 1, 6), *last)
}

func TestEngine_ValidateStreaks(t *testing.T) {
	engine := analytics.NewEngine(analytics.NewCalculator())
	asOf := date(2025, 1, 6)

	h := testHabit(t, "", date(2025, 1, 1))
	habits := []*domain.Habit{h}
	completions := map[string][]*domain.Completion{
		h.ID: completionsFor(h.ID, date(2025, 1, 5), date(2025, 1, 6)),
	}

	t.Run("Matching cache reports no drift", func(t *testing.T) {
		cached := map[string]*domain.Streak{
			h.ID: {HabitID: h.ID, CurrentStreak: 2, LongestStreak: 2},
		}

		drifts := engine.ValidateStreaks(habits, completions, cached, asOf)
		assert.Empty(t, drifts)
	})

	t.Run("Stale cache is reported, fresh value wins", func(t *testing.T) {
		cached := map[string]*domain.Streak{
			h.ID: {HabitID: h.ID, CurrentStreak: 7, LongestStreak: 9},
		}

		drifts := engine.ValidateStreaks(habits, completions, cached, asOf)
		require.Len(t, drifts, 1)
		assert.Equal(t, 7, drifts[0].CachedCurrent)
		assert.Equal(t, 2, drifts[0].FreshCurrent)
		assert.Equal(t, 9, drifts[0].CachedLongest)
		assert.Equal(t, 2, drifts[0].FreshLongest)
	})

	t.Run("Missing cache rows are not drift", func(t *testing.T) {
		drifts := engine.ValidateStreaks(habits, completions, map[string]*domain.Streak{}, asOf)
		assert.Empty(t, drifts)
	})
}
