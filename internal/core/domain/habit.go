package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty       = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong     = errors.New("habit name is too long (max 255 chars)")
	ErrHabitCategoryTooLong = errors.New("habit category is too long (max 100 chars)")
	ErrInvalidCadence       = errors.New("invalid cadence (must be daily, weekly, or custom)")
	ErrInvalidTargetValue   = errors.New("target value must be at least 1")
)

const (
	CadenceDaily  = "daily"
	CadenceWeekly = "weekly"
	CadenceCustom = "custom"

	MaxNameLen     = 255
	MaxCategoryLen = 100
)

type Habit struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	Cadence     string    `json:"cadence" db:"cadence"`
	TargetValue int       `json:"target_value" db:"target_value"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func validateHabit(name, category, cadence string, target int) error {
	if strings.TrimSpace(name) == "" {
		return ErrHabitNameEmpty
	}
	if len(strings.TrimSpace(name)) > MaxNameLen {
		return ErrHabitNameTooLong
	}
	if len(strings.TrimSpace(category)) > MaxCategoryLen {
		return ErrHabitCategoryTooLong
	}

	switch cadence {
	case CadenceDaily, CadenceWeekly, CadenceCustom:
	default:
		return ErrInvalidCadence
	}

	if target < 1 {
		return ErrInvalidTargetValue
	}

	return nil
}

func NewHabit(name, description, category, cadence string, target int) (*Habit, error) {
	if cadence == "" {
		cadence = CadenceDaily
	}
	if target == 0 {
		target = 1
	}

	if err := validateHabit(name, category, cadence, target); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Cadence:     cadence,
		TargetValue: target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(name, description, category, cadence string, target int) error {
	if err := validateHabit(name, category, cadence, target); err != nil {
		return err
	}

	h.Name = strings.TrimSpace(name)
	h.Description = strings.TrimSpace(description)
	h.Category = strings.TrimSpace(category)
	h.Cadence = cadence
	h.TargetValue = target
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// CreationDate is the habit's creation timestamp floored to a calendar date.
// Streak and completion-rate math never looks earlier than this.
func (h *Habit) CreationDate() time.Time {
	return DateOnly(h.CreatedAt)
}
