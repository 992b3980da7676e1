package domain

import (
	"context"
	"errors"
)

var (
	ErrStreakNotFound = errors.New("streak not found")
)

type StreakRepository interface {
	// GetByHabitID retrieves the cached streak row for a habit.
	GetByHabitID(ctx context.Context, habitID string) (*Streak, error)

	// Upsert writes the streak row for a habit, creating it if missing.
	Upsert(ctx context.Context, streak *Streak) error

	// DeleteByHabitID removes the streak row when its habit is deleted.
	DeleteByHabitID(ctx context.Context, habitID string) error
}
