package domain

import "time"

// Streak is a derived, rebuildable projection of a habit's completion history.
// It is a read-through cache: when it disagrees with a fresh computation the
// fresh value is authoritative and the row is rewritten.
type Streak struct {
	HabitID        string     `json:"habit_id" db:"habit_id"`
	CurrentStreak  int        `json:"current_streak" db:"current_streak"`
	LongestStreak  int        `json:"longest_streak" db:"longest_streak"`
	LastCompletion *time.Time `json:"last_completion,omitempty" db:"last_completion"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Matches reports whether the cached figures agree with a fresh computation.
func (s *Streak) Matches(current, longest int) bool {
	return s.CurrentStreak == current && s.LongestStreak == longest
}
