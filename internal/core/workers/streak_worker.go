package workers

import (
	"context"
	"log"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/analytics"
	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes a habit's streak row in the background whenever its
// completions change. The streaks table is a rebuildable projection: the
// worker always derives it from the completion history, never patches it.
type StreakWorker struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	streakRepo     domain.StreakRepository
	calc           analytics.Calculator
	jobs           chan StreakJob
}

func NewStreakWorker(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, streakRepo domain.StreakRepository, calc analytics.Calculator) *StreakWorker {
	return &StreakWorker{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		calc:           calc,
		jobs:           make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	if err := w.Recompute(ctx, job.HabitID, time.Now().UTC()); err != nil {
		log.Printf("Worker failed to recompute streaks for %s: %v", job.HabitID, err)
	}
}

// Recompute derives fresh streak figures for a habit and writes them back
// when they differ from the cached row.
func (w *StreakWorker) Recompute(ctx context.Context, habitID string, asOf time.Time) error {
	habit, err := w.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}

	completions, err := w.completionRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return err
	}

	idx, warnings := analytics.BuildIndex(habit, completions)
	for _, warn := range warnings {
		log.Printf("Worker skipped completion %s for habit %s: %s", warn.CompletionID, warn.HabitID, warn.Reason)
	}

	fresh := w.calc.Compute(idx, habit.CreatedAt, asOf)

	cached, err := w.streakRepo.GetByHabitID(ctx, habitID)
	if err == nil && cached.Matches(fresh.Current, fresh.Longest) {
		return nil
	}
	if err != nil && err != domain.ErrStreakNotFound {
		return err
	}

	row := &domain.Streak{
		HabitID:       habitID,
		CurrentStreak: fresh.Current,
		LongestStreak: fresh.Longest,
		UpdatedAt:     time.Now().UTC(),
	}
	if latest, ok := idx.Latest(); ok {
		row.LastCompletion = &latest
	}

	if err := w.streakRepo.Upsert(ctx, row); err != nil {
		return err
	}

	log.Printf("Streaks updated for %s: Current=%d, Longest=%d", habit.Name, fresh.Current, fresh.Longest)
	return nil
}
