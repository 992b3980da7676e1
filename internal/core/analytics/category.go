package analytics

import (
	"sort"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

const (
	// UncategorizedLabel groups habits whose category is empty.
	UncategorizedLabel = "Uncategorized"

	SortByCount  = "count"
	SortByRate   = "rate"
	SortByStreak = "streak"
)

// CategoryStat aggregates the habits sharing one category.
type CategoryStat struct {
	Category         string  `json:"category"`
	HabitCount       int     `json:"habit_count"`
	CompletionRate   float64 `json:"completion_rate"`
	AvgCurrentStreak float64 `json:"avg_current_streak"`
}

// ComputeCategoryStats groups habits by category and derives per-category
// habit count, completion rate and average current streak. The completion
// rate divides total distinct completed days by the total days each habit has
// existed (creation through asOf, inclusive, floored at one day). Categories
// with zero habits are never emitted. Output order follows sortMetric
// descending, ties broken by category name ascending.
func ComputeCategoryStats(habits []*domain.Habit, indexes map[string]*CompletionIndex, asOf time.Time, calc Calculator, sortMetric string) []CategoryStat {
	type accumulator struct {
		count       int
		completions int
		daysElapsed int
		streakSum   int
	}

	end := domain.DateOnly(asOf)
	acc := make(map[string]*accumulator)

	for _, h := range habits {
		idx, ok := indexes[h.ID]
		if !ok {
			continue
		}

		category := h.Category
		if category == "" {
			category = UncategorizedLabel
		}

		a, ok := acc[category]
		if !ok {
			a = &accumulator{}
			acc[category] = a
		}

		elapsed := int(end.Sub(h.CreationDate()).Hours()/24) + 1
		if elapsed < 1 {
			elapsed = 1
		}

		a.count++
		a.completions += idx.Len()
		a.daysElapsed += elapsed
		a.streakSum += calc.Compute(idx, h.CreatedAt, asOf).Current
	}

	stats := make([]CategoryStat, 0, len(acc))
	for category, a := range acc {
		rate := 0.0
		if a.daysElapsed > 0 {
			rate = float64(a.completions) / float64(a.daysElapsed) * 100
		}
		if rate > 100 {
			rate = 100
		}

		stats = append(stats, CategoryStat{
			Category:         category,
			HabitCount:       a.count,
			CompletionRate:   rate,
			AvgCurrentStreak: float64(a.streakSum) / float64(a.count),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		var less bool
		var equal bool
		switch sortMetric {
		case SortByRate:
			less = stats[i].CompletionRate > stats[j].CompletionRate
			equal = stats[i].CompletionRate == stats[j].CompletionRate
		case SortByStreak:
			less = stats[i].AvgCurrentStreak > stats[j].AvgCurrentStreak
			equal = stats[i].AvgCurrentStreak == stats[j].AvgCurrentStreak
		default: // SortByCount
			less = stats[i].HabitCount > stats[j].HabitCount
			equal = stats[i].HabitCount == stats[j].HabitCount
		}
		if equal {
			return stats[i].Category < stats[j].Category
		}
		return less
	})

	return stats
}
