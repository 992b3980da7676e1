package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

// Warning flags a completion record that was excluded from analytics. One bad
// record must not abort computation for the rest of the habit set, so index
// building reports exclusions instead of failing.
type Warning struct {
	HabitID      string `json:"habit_id"`
	CompletionID string `json:"completion_id,omitempty"`
	Reason       string `json:"reason"`
}

// CompletionIndex is a deduplicated set of calendar dates on which one habit
// was completed. It is a pure function of its input completions and is the
// single lookup structure shared by the streak, trend and category math.
type CompletionIndex struct {
	days  map[string]struct{}
	dates []time.Time // ascending, normalized to UTC midnight
}

// BuildIndex normalizes a habit's raw completions into a date set.
// Duplicate dates collapse to one. Completions with a zero date or a date
// before the habit's creation date are excluded and reported as warnings.
func BuildIndex(habit *domain.Habit, completions []*domain.Completion) (*CompletionIndex, []Warning) {
	idx := &CompletionIndex{
		days: make(map[string]struct{}, len(completions)),
	}

	var warnings []Warning
	created := habit.CreationDate()

	for _, c := range completions {
		if c.CompletionDate.IsZero() {
			warnings = append(warnings, Warning{
				HabitID:      habit.ID,
				CompletionID: c.ID,
				Reason:       "completion has no date",
			})
			continue
		}

		day := domain.DateOnly(c.CompletionDate)
		if day.Before(created) {
			warnings = append(warnings, Warning{
				HabitID:      habit.ID,
				CompletionID: c.ID,
				Reason: fmt.Sprintf("completion date %s precedes habit creation %s",
					domain.DateKey(day), domain.DateKey(created)),
			})
			continue
		}

		key := domain.DateKey(day)
		if _, seen := idx.days[key]; seen {
			continue
		}
		idx.days[key] = struct{}{}
		idx.dates = append(idx.dates, day)
	}

	sort.Slice(idx.dates, func(i, j int) bool {
		return idx.dates[i].Before(idx.dates[j])
	})

	return idx, warnings
}

// Contains reports whether the habit was completed on the given calendar date.
func (idx *CompletionIndex) Contains(date time.Time) bool {
	_, ok := idx.days[domain.DateKey(domain.DateOnly(date))]
	return ok
}

// Len is the number of distinct completed days.
func (idx *CompletionIndex) Len() int {
	return len(idx.dates)
}

// Dates returns the distinct completed days in ascending order.
func (idx *CompletionIndex) Dates() []time.Time {
	return idx.dates
}

// Earliest returns the oldest completed day, or false if the index is empty.
func (idx *CompletionIndex) Earliest() (time.Time, bool) {
	if len(idx.dates) == 0 {
		return time.Time{}, false
	}
	return idx.dates[0], true
}

// Latest returns the most recent completed day, or false if the index is empty.
func (idx *CompletionIndex) Latest() (time.Time, bool) {
	if len(idx.dates) == 0 {
		return time.Time{}, false
	}
	return idx.dates[len(idx.dates)-1], true
}

// CompletedInRange reports whether the habit has at least one completion
// within the inclusive [from, to] date span.
func (idx *CompletionIndex) CompletedInRange(from, to time.Time) bool {
	for d := domain.DateOnly(from); !d.After(domain.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		if idx.Contains(d) {
			return true
		}
	}
	return false
}

// CountInRange counts the distinct completed days within [from, to].
func (idx *CompletionIndex) CountInRange(from, to time.Time) int {
	count := 0
	for d := domain.DateOnly(from); !d.After(domain.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		if idx.Contains(d) {
			count++
		}
	}
	return count
}
