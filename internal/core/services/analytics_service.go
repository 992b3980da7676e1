package services

import (
	"context"
	"log"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/analytics"
	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

// AnalyticsService loads the immutable snapshot the engine operates on
// (habits plus their completion histories) and orchestrates the facade. All
// computation lives in the analytics package; this service only fetches,
// logs warnings and hands results to the HTTP layer.
type AnalyticsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	streakRepo     domain.StreakRepository
	engine         *analytics.Engine
}

func NewAnalyticsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, streakRepo domain.StreakRepository, engine *analytics.Engine) *AnalyticsService {
	return &AnalyticsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		engine:         engine,
	}
}

func (s *AnalyticsService) snapshot(ctx context.Context) ([]*domain.Habit, map[string][]*domain.Completion, error) {
	habits, err := s.habitRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	completionsByHabit := make(map[string][]*domain.Completion, len(habits))
	for _, h := range habits {
		completions, err := s.completionRepo.ListByHabitID(ctx, h.ID)
		if err != nil {
			return nil, nil, err
		}
		completionsByHabit[h.ID] = completions
	}

	return habits, completionsByHabit, nil
}

func logWarnings(warnings []analytics.Warning) {
	for _, warn := range warnings {
		log.Printf("[ANALYTICS] Skipped completion %s for habit %s: %s", warn.CompletionID, warn.HabitID, warn.Reason)
	}
}

func (s *AnalyticsService) GetSummary(ctx context.Context, asOf time.Time) (*analytics.Summary, error) {
	habits, completionsByHabit, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary, warnings := s.engine.ProgressSummary(habits, completionsByHabit, asOf)
	logWarnings(warnings)

	s.reportStreakDrift(ctx, habits, completionsByHabit, asOf)

	return summary, nil
}

// reportStreakDrift cross-checks the cached streak rows against fresh
// figures. Drift is logged as a recoverable inconsistency; the summary itself
// is always built from fresh values.
func (s *AnalyticsService) reportStreakDrift(ctx context.Context, habits []*domain.Habit, completionsByHabit map[string][]*domain.Completion, asOf time.Time) {
	cached := make(map[string]*domain.Streak, len(habits))
	for _, h := range habits {
		row, err := s.streakRepo.GetByHabitID(ctx, h.ID)
		if err != nil {
			continue
		}
		cached[h.ID] = row
	}

	for _, drift := range s.engine.ValidateStreaks(habits, completionsByHabit, cached, asOf) {
		log.Printf("[ANALYTICS] Stale streak cache for habit %s: cached %d/%d, fresh %d/%d",
			drift.HabitID, drift.CachedCurrent, drift.CachedLongest, drift.FreshCurrent, drift.FreshLongest)
	}
}

func (s *AnalyticsService) GetTrend(ctx context.Context, asOf time.Time, windowDays int, granularity string) ([]analytics.Bucket, error) {
	habits, completionsByHabit, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	buckets, warnings, err := s.engine.Trend(habits, completionsByHabit, asOf, windowDays, granularity)
	logWarnings(warnings)
	if err != nil {
		return nil, err
	}

	return buckets, nil
}

func (s *AnalyticsService) GetCategoryStats(ctx context.Context, asOf time.Time, sortMetric string) ([]analytics.CategoryStat, error) {
	habits, completionsByHabit, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats, warnings := s.engine.CategoryStats(habits, completionsByHabit, asOf, sortMetric)
	logWarnings(warnings)

	return stats, nil
}

func (s *AnalyticsService) GetHabitSeries(ctx context.Context, asOf time.Time, windowDays int) ([]analytics.HabitSeries, error) {
	habits, completionsByHabit, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	series, warnings, err := s.engine.Series(habits, completionsByHabit, asOf, windowDays)
	logWarnings(warnings)
	if err != nil {
		return nil, err
	}

	return series, nil
}
