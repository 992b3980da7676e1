package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCompletionNotFound  = errors.New("completion not found")
	ErrDuplicateCompletion = errors.New("completion already exists for this habit and date")
	ErrCompletionDateZero  = errors.New("completion date is required")
	ErrInvalidValue        = errors.New("completion value must be at least 1")
)

// Completion records that a habit was accomplished on a calendar date.
// At most one completion may exist per (habit, date) pair.
type Completion struct {
	ID             string    `json:"id" db:"id"`
	HabitID        string    `json:"habit_id" db:"habit_id"`
	CompletionDate time.Time `json:"completion_date" db:"completion_date"`
	Value          int       `json:"value" db:"value"`
	Notes          string    `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func NewCompletion(habitID string, date time.Time, value int, notes string) (*Completion, error) {
	if strings.TrimSpace(habitID) == "" {
		return nil, ErrHabitNotFound
	}
	if date.IsZero() {
		return nil, ErrCompletionDateZero
	}
	if value == 0 {
		value = 1
	}
	if value < 1 {
		return nil, ErrInvalidValue
	}

	return &Completion{
		ID:             uuid.NewString(),
		HabitID:        habitID,
		CompletionDate: DateOnly(date),
		Value:          value,
		Notes:          notes,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if c.CompletionDate.IsZero() {
		return ErrCompletionDateZero
	}
	if c.Value < 1 {
		return ErrInvalidValue
	}
	return nil
}
