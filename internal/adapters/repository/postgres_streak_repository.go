package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) GetByHabitID(ctx context.Context, habitID string) (*domain.Streak, error) {
	var streak domain.Streak
	query := `SELECT * FROM streaks WHERE habit_id = $1`

	err := r.db.GetContext(ctx, &streak, query, habitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreakNotFound
		}
		return nil, err
	}
	return &streak, nil
}

func (r *PostgresStreakRepository) Upsert(ctx context.Context, streak *domain.Streak) error {
	query := `
		INSERT INTO streaks (
			habit_id, current_streak, longest_streak, last_completion, updated_at
		) VALUES (
			:habit_id, :current_streak, :longest_streak, :last_completion, :updated_at
		)
		ON CONFLICT (habit_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_completion = EXCLUDED.last_completion,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, streak)
	return err
}

func (r *PostgresStreakRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM streaks WHERE habit_id = $1`, habitID)
	return err
}
