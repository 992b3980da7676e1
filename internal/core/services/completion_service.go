package services

import (
	"context"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
	"github.com/davideorlandi/habitpulse/internal/core/workers"
)

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker) *CompletionService {
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
	}
}

type CreateCompletionInput struct {
	HabitID        string
	CompletionDate time.Time
	Value          int
	Notes          string
}

type UpdateCompletionInput struct {
	ID    string
	Value int
	Notes string
}

func (s *CompletionService) Create(ctx context.Context, input CreateCompletionInput) (*domain.Completion, error) {
	if _, err := s.habitRepo.GetByID(ctx, input.HabitID); err != nil {
		return nil, err
	}

	completion, err := domain.NewCompletion(input.HabitID, input.CompletionDate, input.Value, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		return nil, err
	}

	s.worker.Enqueue(completion.HabitID)

	return completion, nil
}

func (s *CompletionService) Get(ctx context.Context, id string) (*domain.Completion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CompletionService) ListByHabit(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Completion, error) {
	if _, err := s.habitRepo.GetByID(ctx, habitID); err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		return s.repo.ListByHabitID(ctx, habitID)
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	return s.repo.ListByHabitIDRange(ctx, habitID, domain.DateOnly(from), domain.DateOnly(to))
}

func (s *CompletionService) Update(ctx context.Context, input UpdateCompletionInput) (*domain.Completion, error) {
	completion, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Value > 0 {
		completion.Value = input.Value
	}
	completion.Notes = input.Notes

	if err := completion.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, completion); err != nil {
		return nil, err
	}

	s.worker.Enqueue(completion.HabitID)

	return completion, nil
}

func (s *CompletionService) Delete(ctx context.Context, id string) error {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.worker.Enqueue(completion.HabitID)

	return nil
}
