package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

func TestNewHabit(t *testing.T) {
	t.Run("Success: minimal habit gets defaults", func(t *testing.T) {
		habit, err := domain.NewHabit("Morning Run", "", "", "", 0)

		require.NoError(t, err)
		assert.NotEmpty(t, habit.ID)
		assert.Equal(t, "Morning Run", habit.Name)
		assert.Equal(t, domain.CadenceDaily, habit.Cadence)
		assert.Equal(t, 1, habit.TargetValue)
		assert.False(t, habit.CreatedAt.IsZero())
		assert.Equal(t, habit.CreatedAt, habit.UpdatedAt)
	})

	t.Run("Success: fields are trimmed", func(t *testing.T) {
		habit, err := domain.NewHabit("  Read  ", "  20 pages  ", "  Learning  ", domain.CadenceDaily, 1)

		require.NoError(t, err)
		assert.Equal(t, "Read", habit.Name)
		assert.Equal(t, "20 pages", habit.Description)
		assert.Equal(t, "Learning", habit.Category)
	})

	t.Run("Success: weekly and custom cadences accepted", func(t *testing.T) {
		for _, cadence := range []string{domain.CadenceWeekly, domain.CadenceCustom} {
			_, err := domain.NewHabit("Review", "", "", cadence, 1)
			assert.NoError(t, err)
		}
	})

	t.Run("Fail: empty name", func(t *testing.T) {
		_, err := domain.NewHabit("   ", "", "", "", 0)
		assert.ErrorIs(t, err, domain.ErrHabitNameEmpty)
	})

	t.Run("Fail: name over limit", func(t *testing.T) {
		_, err := domain.NewHabit(strings.Repeat("a", domain.MaxNameLen+1), "", "", "", 0)
		assert.ErrorIs(t, err, domain.ErrHabitNameTooLong)
	})

	t.Run("Fail: category over limit", func(t *testing.T) {
		_, err := domain.NewHabit("Run", "", strings.Repeat("c", domain.MaxCategoryLen+1), "", 0)
		assert.ErrorIs(t, err, domain.ErrHabitCategoryTooLong)
	})

	t.Run("Fail: unknown cadence", func(t *testing.T) {
		_, err := domain.NewHabit("Run", "", "", "fortnightly", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidCadence)
	})

	t.Run("Fail: negative target", func(t *testing.T) {
		_, err := domain.NewHabit("Run", "", "", "", -3)
		assert.ErrorIs(t, err, domain.ErrInvalidTargetValue)
	})
}

func TestHabit_Update(t *testing.T) {
	t.Run("Success: bumps UpdatedAt", func(t *testing.T) {
		habit, err := domain.NewHabit("Run", "", "", "", 0)
		require.NoError(t, err)

		before := habit.UpdatedAt
		time.Sleep(time.Millisecond)

		require.NoError(t, habit.Update("Run Farther", "5k", "Health", domain.CadenceDaily, 2))

		assert.Equal(t, "Run Farther", habit.Name)
		assert.Equal(t, 2, habit.TargetValue)
		assert.True(t, habit.UpdatedAt.After(before))
	})

	t.Run("Fail: invalid update leaves habit unchanged", func(t *testing.T) {
		habit, err := domain.NewHabit("Run", "", "", "", 0)
		require.NoError(t, err)

		err = habit.Update("", "", "", domain.CadenceDaily, 1)

		assert.ErrorIs(t, err, domain.ErrHabitNameEmpty)
		assert.Equal(t, "Run", habit.Name)
	})
}

func TestHabit_CreationDate(t *testing.T) {
	habit, err := domain.NewHabit("Run", "", "", "", 0)
	require.NoError(t, err)
	habit.CreatedAt = time.Date(2025, 4, 3, 18, 45, 12, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), habit.CreationDate())
}
