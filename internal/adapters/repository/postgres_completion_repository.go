package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, completion *domain.Completion) error {
	query := `
		INSERT INTO completions (
			id, habit_id, completion_date, value, notes, created_at
		) VALUES (
			:id, :habit_id, :completion_date, :value, :notes, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// unique (habit_id, completion_date)
			if pqErr.Code == "23505" {
				return domain.ErrDuplicateCompletion
			}
			if pqErr.Code == "23503" {
				return domain.ErrHabitNotFound
			}
		}
		return err
	}
	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	var completion domain.Completion
	query := `SELECT * FROM completions WHERE id = $1`

	err := r.db.GetContext(ctx, &completion, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *PostgresCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		ORDER BY completion_date DESC`

	if err := r.db.SelectContext(ctx, &completions, query, habitID); err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		  AND completion_date >= $2
		  AND completion_date <= $3
		ORDER BY completion_date DESC`

	if err := r.db.SelectContext(ctx, &completions, query, habitID, from, to); err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) Update(ctx context.Context, completion *domain.Completion) error {
	query := `
		UPDATE completions
		SET value = :value,
		    notes = :notes
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE habit_id = $1`, habitID)
	if err != nil {
		return fmt.Errorf("cascade delete failed: %w", err)
	}
	return nil
}
