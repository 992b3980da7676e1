package domain

import (
	"context"
	"time"
)

type CompletionRepository interface {
	// Create persists a new completion. Implementations must surface
	// ErrDuplicateCompletion when a completion already exists for the
	// same (habit, date) pair.
	Create(ctx context.Context, completion *Completion) error

	// GetByID retrieves a single completion by its ID.
	GetByID(ctx context.Context, id string) (*Completion, error)

	// ListByHabitID retrieves the full completion history for a habit,
	// most recent first. Streak computation needs the whole history.
	ListByHabitID(ctx context.Context, habitID string) ([]*Completion, error)

	// ListByHabitIDRange retrieves completions for a habit within an
	// inclusive date range, most recent first.
	ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*Completion, error)

	// Update modifies an existing completion.
	Update(ctx context.Context, completion *Completion) error

	// Delete removes a completion.
	Delete(ctx context.Context, id string) error

	// DeleteByHabitID removes every completion for a habit. Used when the
	// habit itself is deleted.
	DeleteByHabitID(ctx context.Context, habitID string) error
}
