package services

import (
	"context"
	"log"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/analytics"
	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

// StreakService serves streak figures with read-through semantics: every read
// recomputes from the completion history, and the cached row is rewritten
// whenever it has drifted. The cache is never trusted over a fresh value.
type StreakService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	streakRepo     domain.StreakRepository
	engine         *analytics.Engine
}

func NewStreakService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, streakRepo domain.StreakRepository, engine *analytics.Engine) *StreakService {
	return &StreakService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		engine:         engine,
	}
}

func (s *StreakService) GetByHabitID(ctx context.Context, habitID string, asOf time.Time) (*domain.Streak, error) {
	return s.recompute(ctx, habitID, asOf)
}

// Recalculate forces a fresh computation and write-back, mirroring the manual
// recalculate endpoint.
func (s *StreakService) Recalculate(ctx context.Context, habitID string, asOf time.Time) (*domain.Streak, error) {
	return s.recompute(ctx, habitID, asOf)
}

func (s *StreakService) recompute(ctx context.Context, habitID string, asOf time.Time) (*domain.Streak, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	fresh, last, warnings := s.engine.ComputeStreaks(habit, completions, asOf)
	for _, warn := range warnings {
		log.Printf("[STREAK] Skipped completion %s for habit %s: %s", warn.CompletionID, warn.HabitID, warn.Reason)
	}

	row := &domain.Streak{
		HabitID:        habitID,
		CurrentStreak:  fresh.Current,
		LongestStreak:  fresh.Longest,
		LastCompletion: last,
		UpdatedAt:      time.Now().UTC(),
	}

	cached, err := s.streakRepo.GetByHabitID(ctx, habitID)
	switch {
	case err == nil:
		if cached.Matches(fresh.Current, fresh.Longest) {
			return cached, nil
		}
		log.Printf("[STREAK] Stale cache for habit %s: cached %d/%d, fresh %d/%d",
			habitID, cached.CurrentStreak, cached.LongestStreak, fresh.Current, fresh.Longest)
	case err != domain.ErrStreakNotFound:
		return nil, err
	}

	if err := s.streakRepo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	return row, nil
}
