package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideorlandi/habitpulse/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "habitpulse_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "habitpulse_db"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE streaks, completions, habits CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func seedHabitRow(t *testing.T, repo *PostgresHabitRepository) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit("Integration Habit", "row fixture", "Health", domain.CadenceDaily, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), habit))
	return habit
}

func TestPostgresHabitRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresHabitRepository(db)
	ctx := context.Background()

	habit := seedHabitRow(t, repo)

	t.Run("Get By ID", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, habit.ID, fetched.ID)
		assert.Equal(t, "Integration Habit", fetched.Name)
		assert.Equal(t, domain.CadenceDaily, fetched.Cadence)
	})

	t.Run("Update Habit", func(t *testing.T) {
		require.NoError(t, habit.Update("Renamed Habit", "changed", "Health", domain.CadenceWeekly, 2))
		require.NoError(t, repo.Update(ctx, habit))

		updated, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Habit", updated.Name)
		assert.Equal(t, domain.CadenceWeekly, updated.Cadence)
		assert.Equal(t, 2, updated.TargetValue)
	})

	t.Run("List orders by creation", func(t *testing.T) {
		second, err := domain.NewHabit("Second Habit", "", "", domain.CadenceDaily, 1)
		require.NoError(t, err)
		second.CreatedAt = habit.CreatedAt.Add(time.Hour)
		second.UpdatedAt = second.CreatedAt
		require.NoError(t, repo.Create(ctx, second))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, habit.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	})

	t.Run("Update/Delete Non-Existent ID", func(t *testing.T) {
		ghost, err := domain.NewHabit("Ghost", "", "", domain.CadenceDaily, 1)
		require.NoError(t, err)
		ghost.ID = uuid.NewString()

		assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrHabitNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), domain.ErrHabitNotFound)
	})

	t.Run("Delete Habit", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, habit.ID))

		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestPostgresCompletionRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	habitRepo := NewPostgresHabitRepository(db)
	repo := NewPostgresCompletionRepository(db)
	ctx := context.Background()

	habit := seedHabitRow(t, habitRepo)
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	completion, err := domain.NewCompletion(habit.ID, day, 1, "first")
	require.NoError(t, err)

	t.Run("Create Completion", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, completion))
	})

	t.Run("Duplicate date is a conflict", func(t *testing.T) {
		dup, err := domain.NewCompletion(habit.ID, day, 1, "")
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateCompletion)
	})

	t.Run("Unknown habit violates FK", func(t *testing.T) {
		orphan, err := domain.NewCompletion(uuid.NewString(), day, 1, "")
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Create(ctx, orphan), domain.ErrHabitNotFound)
	})

	t.Run("List By Habit", func(t *testing.T) {
		later, err := domain.NewCompletion(habit.ID, day.AddDate(0, 0, 1), 1, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, later))

		list, err := repo.ListByHabitID(ctx, habit.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].CompletionDate.After(list[1].CompletionDate))
	})

	t.Run("List Range excludes outside dates", func(t *testing.T) {
		list, err := repo.ListByHabitIDRange(ctx, habit.ID, day, day)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, completion.ID, list[0].ID)
	})

	t.Run("Update value and notes", func(t *testing.T) {
		completion.Value = 3
		completion.Notes = "updated"
		require.NoError(t, repo.Update(ctx, completion))

		fetched, err := repo.GetByID(ctx, completion.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, fetched.Value)
		assert.Equal(t, "updated", fetched.Notes)
	})

	t.Run("Cascade delete by habit", func(t *testing.T) {
		require.NoError(t, repo.DeleteByHabitID(ctx, habit.ID))

		list, err := repo.ListByHabitID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestPostgresStreakRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	habitRepo := NewPostgresHabitRepository(db)
	repo := NewPostgresStreakRepository(db)
	ctx := context.Background()

	habit := seedHabitRow(t, habitRepo)

	t.Run("Missing row reports not-found", func(t *testing.T) {
		_, err := repo.GetByHabitID(ctx, habit.ID)
		assert.ErrorIs(t, err, domain.ErrStreakNotFound)
	})

	t.Run("Upsert inserts then updates", func(t *testing.T) {
		last := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)

		require.NoError(t, repo.Upsert(ctx, &domain.Streak{
			HabitID:       habit.ID,
			CurrentStreak: 2,
			LongestStreak: 4,
			UpdatedAt:     time.Now().UTC(),
		}))

		require.NoError(t, repo.Upsert(ctx, &domain.Streak{
			HabitID:        habit.ID,
			CurrentStreak:  3,
			LongestStreak:  4,
			LastCompletion: &last,
			UpdatedAt:      time.Now().UTC(),
		}))

		row, err := repo.GetByHabitID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, row.CurrentStreak)
		assert.Equal(t, 4, row.LongestStreak)
		require.NotNil(t, row.LastCompletion)
		assert.True(t, last.Equal(row.LastCompletion.UTC()))
	})

	t.Run("Delete by habit", func(t *testing.T) {
		require.NoError(t, repo.DeleteByHabitID(ctx, habit.ID))

		_, err := repo.GetByHabitID(ctx, habit.ID)
		assert.ErrorIs(t, err, domain.ErrStreakNotFound)
	})
}
