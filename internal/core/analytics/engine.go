package analytics

import (
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

// MaxSeriesHabits caps per-habit chart series to keep line charts readable.
const MaxSeriesHabits = 5

// Engine is the analytics facade. It composes the completion index, streak
// calculator, trend bucketer and category aggregator into the three
// caller-facing products, building each habit's index exactly once per call.
// Engines are stateless and safe for concurrent use.
type Engine struct {
	calc Calculator
}

func NewEngine(calc Calculator) *Engine {
	return &Engine{calc: calc}
}

// Calculator exposes the engine's streak policy so collaborating components
// (worker, streak service) share one set of streak semantics.
func (e *Engine) Calculator() Calculator {
	return e.calc
}

// Summary is the progress overview shown on the dashboard. Rates are
// percentages in [0, 100]; WeekDelta is this week's rate minus last week's,
// so it may be negative.
type Summary struct {
	Date             string  `json:"date"`
	TotalHabits      int     `json:"total_habits"`
	ActiveHabits     int     `json:"active_habits"`
	CompletedToday   int     `json:"completed_today"`
	TodayRate        float64 `json:"today_rate"`
	LongestStreak    int     `json:"longest_streak"`
	AvgCurrentStreak float64 `json:"avg_current_streak"`
	WeekRate         float64 `json:"week_rate"`
	PrevWeekRate     float64 `json:"prev_week_rate"`
	WeekDelta        float64 `json:"week_delta"`
}

// HabitSeries is one habit's chart line: daily progress over a window plus
// its streak figures.
type HabitSeries struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	DailyProgress []int  `json:"daily_progress"`
}

// StreakDrift reports a cached streak row that disagrees with a fresh
// computation. The fresh figures are authoritative.
type StreakDrift struct {
	HabitID       string `json:"habit_id"`
	CachedCurrent int    `json:"cached_current"`
	CachedLongest int    `json:"cached_longest"`
	FreshCurrent  int    `json:"fresh_current"`
	FreshLongest  int    `json:"fresh_longest"`
}

// buildIndexes materializes one CompletionIndex per habit. Every facade
// product goes through this so no index is built twice within a request.
func (e *Engine) buildIndexes(habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion) (map[string]*CompletionIndex, []Warning) {
	indexes := make(map[string]*CompletionIndex, len(habits))
	var warnings []Warning

	for _, h := range habits {
		idx, warns := BuildIndex(h, completionsByHabit[h.ID])
		indexes[h.ID] = idx
		warnings = append(warnings, warns...)
	}

	return indexes, warnings
}

// ProgressSummary derives today's completion rate, active habit count, streak
// aggregates and the week-over-week rate delta.
func (e *Engine) ProgressSummary(habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion, asOf time.Time) (*Summary, []Warning) {
	indexes, warnings := e.buildIndexes(habits, completionsByHabit)

	today := domain.DateOnly(asOf)
	summary := &Summary{
		Date:        domain.DateKey(today),
		TotalHabits: len(habits),
	}

	streakSum := 0
	for _, h := range habits {
		idx := indexes[h.ID]

		if idx.Contains(today) {
			summary.CompletedToday++
		}

		streaks := e.calc.Compute(idx, h.CreatedAt, asOf)
		streakSum += streaks.Current
		if streaks.Current > 0 {
			summary.ActiveHabits++
		}
		if streaks.Longest > summary.LongestStreak {
			summary.LongestStreak = streaks.Longest
		}
	}

	if len(habits) > 0 {
		summary.TodayRate = float64(summary.CompletedToday) / float64(len(habits)) * 100
		summary.AvgCurrentStreak = float64(streakSum) / float64(len(habits))
	}

	summary.WeekRate = weekRate(habits, indexes, today.AddDate(0, 0, -6), today)
	summary.PrevWeekRate = weekRate(habits, indexes, today.AddDate(0, 0, -13), today.AddDate(0, 0, -7))
	summary.WeekDelta = summary.WeekRate - summary.PrevWeekRate

	return summary, warnings
}

// weekRate is the share of habit-days completed within [from, to].
func weekRate(habits []*domain.Habit, indexes map[string]*CompletionIndex, from, to time.Time) float64 {
	days := int(domain.DateOnly(to).Sub(domain.DateOnly(from)).Hours()/24) + 1
	possible := days * len(habits)
	if possible == 0 {
		return 0
	}

	completed := 0
	for _, h := range habits {
		completed += indexes[h.ID].CountInRange(from, to)
	}

	return float64(completed) / float64(possible) * 100
}

// Series produces per-habit chart lines across a daily window ending at asOf,
// capped at MaxSeriesHabits habits in caller order.
func (e *Engine) Series(habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion, asOf time.Time, windowDays int) ([]HabitSeries, []Warning, error) {
	if windowDays < 1 {
		return nil, nil, ErrInvalidWindow
	}

	indexes, warnings := e.buildIndexes(habits, completionsByHabit)

	selected := habits
	if len(selected) > MaxSeriesHabits {
		selected = selected[:MaxSeriesHabits]
	}

	end := domain.DateOnly(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))

	series := make([]HabitSeries, 0, len(selected))
	for _, h := range selected {
		idx := indexes[h.ID]
		streaks := e.calc.Compute(idx, h.CreatedAt, asOf)

		progress := make([]int, 0, windowDays)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if idx.Contains(d) {
				progress = append(progress, 1)
			} else {
				progress = append(progress, 0)
			}
		}

		series = append(series, HabitSeries{
			HabitID:       h.ID,
			Name:          h.Name,
			Category:      h.Category,
			CurrentStreak: streaks.Current,
			LongestStreak: streaks.Longest,
			DailyProgress: progress,
		})
	}

	return series, warnings, nil
}

// Trend buckets completion rates across the window. See ComputeTrend.
func (e *Engine) Trend(habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion, asOf time.Time, windowDays int, granularity string) ([]Bucket, []Warning, error) {
	indexes, warnings := e.buildIndexes(habits, completionsByHabit)

	buckets, err := ComputeTrend(indexes, asOf, windowDays, granularity)
	if err != nil {
		return nil, warnings, err
	}

	return buckets, warnings, nil
}

// CategoryStats groups habits by category. See ComputeCategoryStats.
func (e *Engine) CategoryStats(habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion, asOf time.Time, sortMetric string) ([]CategoryStat, []Warning) {
	indexes, warnings := e.buildIndexes(habits, completionsByHabit)
	return ComputeCategoryStats(habits, indexes, asOf, e.calc, sortMetric), warnings
}

// ComputeStreaks derives the streak figures for a single habit along with the
// date of its most recent completion.
func (e *Engine) ComputeStreaks(habit *domain.Habit, completions []*domain.Completion, asOf time.Time) (Streaks, *time.Time, []Warning) {
	idx, warnings := BuildIndex(habit, completions)

	streaks := e.calc.Compute(idx, habit.CreatedAt, asOf)

	var last *time.Time
	if latest, ok := idx.Latest(); ok {
		last = &latest
	}

	return streaks, last, warnings
}

// ValidateStreaks compares cached streak rows against fresh computations and
// reports every drift. Habits without a cached row are skipped; missing rows
// are an expected cold-cache state, not an inconsistency.
func (e *Engine) ValidateStreaks(habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion, cached map[string]*domain.Streak, asOf time.Time) []StreakDrift {
	indexes, _ := e.buildIndexes(habits, completionsByHabit)

	var drifts []StreakDrift
	for _, h := range habits {
		row, ok := cached[h.ID]
		if !ok || row == nil {
			continue
		}

		fresh := e.calc.Compute(indexes[h.ID], h.CreatedAt, asOf)
		if !row.Matches(fresh.Current, fresh.Longest) {
			drifts = append(drifts, StreakDrift{
				HabitID:       h.ID,
				CachedCurrent: row.CurrentStreak,
				CachedLongest: row.LongestStreak,
				FreshCurrent:  fresh.Current,
				FreshLongest:  fresh.Longest,
			})
		}
	}

	return drifts
}
