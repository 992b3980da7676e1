package services

import (
	"context"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

type HabitService struct {
	repo           domain.HabitRepository
	completionRepo domain.CompletionRepository
	streakRepo     domain.StreakRepository
}

func NewHabitService(repo domain.HabitRepository, completionRepo domain.CompletionRepository, streakRepo domain.StreakRepository) *HabitService {
	return &HabitService{
		repo:           repo,
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
	}
}

type CreateHabitInput struct {
	Name        string
	Description string
	Category    string
	Cadence     string
	TargetValue int
}

type UpdateHabitInput struct {
	ID          string
	Name        string
	Description string
	Category    string
	Cadence     string
	TargetValue int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.Name, input.Description, input.Category, input.Cadence, input.TargetValue)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	// Every habit gets a streak row up front so reads never miss.
	zero := &domain.Streak{
		HabitID:   habit.ID,
		UpdatedAt: habit.CreatedAt,
	}
	if err := s.streakRepo.Upsert(ctx, zero); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Get(ctx context.Context, id string) (*domain.Habit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *HabitService) List(ctx context.Context) ([]*domain.Habit, error) {
	return s.repo.List(ctx)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := mergeString(input.Name, habit.Name)
	description := mergeString(input.Description, habit.Description)
	category := mergeString(input.Category, habit.Category)
	cadence := mergeString(input.Cadence, habit.Cadence)

	target := habit.TargetValue
	if input.TargetValue > 0 {
		target = input.TargetValue
	}

	if err := habit.Update(name, description, category, cadence, target); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.completionRepo.DeleteByHabitID(ctx, id); err != nil {
		return err
	}
	if err := s.streakRepo.DeleteByHabitID(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
