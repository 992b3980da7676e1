package analytics

import (
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

// Streaks holds the derived streak figures for one habit, in whole days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Calculator derives current and longest streaks from a CompletionIndex.
//
// GraceDay controls the single policy decision in streak math: when the as-of
// date itself has no completion, a completion on the previous day still keeps
// the current streak alive ("today isn't over yet"). With GraceDay false, a
// missing as-of day zeroes the current streak. Any gap larger than one day
// resets to zero under either policy.
type Calculator struct {
	GraceDay bool
}

// NewCalculator returns a Calculator with the default grace-day policy.
func NewCalculator() Calculator {
	return Calculator{GraceDay: true}
}

// Compute derives the streak figures for one habit. The as-of date is an
// already-resolved calendar "today"; the walk never crosses before the
// habit's creation date.
func (c Calculator) Compute(idx *CompletionIndex, createdAt, asOf time.Time) Streaks {
	return Streaks{
		Current: c.currentStreak(idx, createdAt, asOf),
		Longest: longestStreak(idx),
	}
}

func (c Calculator) currentStreak(idx *CompletionIndex, createdAt, asOf time.Time) int {
	start := domain.DateOnly(asOf)

	if !idx.Contains(start) {
		if !c.GraceDay {
			return 0
		}
		start = start.AddDate(0, 0, -1)
		if !idx.Contains(start) {
			return 0
		}
	}

	created := domain.DateOnly(createdAt)

	count := 0
	for d := start; !d.Before(created) && idx.Contains(d); d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}

func longestStreak(idx *CompletionIndex) int {
	dates := idx.Dates()
	if len(dates) == 0 {
		return 0
	}

	longest := 1
	run := 1

	for i := 1; i < len(dates); i++ {
		if dates[i-1].AddDate(0, 0, 1).Equal(dates[i]) {
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
