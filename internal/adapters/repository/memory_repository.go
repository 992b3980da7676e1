package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

// In-memory implementations backing tests and local development without a
// database.

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := make([]*domain.Habit, 0, len(r.store))
	for _, h := range r.store {
		habits = append(habits, h)
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryCompletionRepository struct {
	store  map[string]*domain.Completion
	byDate map[string]string // habitID + date -> completion id

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store:  make(map[string]*domain.Completion),
		byDate: make(map[string]string),
	}
}

func dateIndexKey(habitID string, c *domain.Completion) string {
	return habitID + "|" + domain.DateKey(c.CompletionDate)
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, completion *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dateIndexKey(completion.HabitID, completion)
	if _, exists := r.byDate[key]; exists {
		return domain.ErrDuplicateCompletion
	}

	r.store[completion.ID] = completion
	r.byDate[key] = completion.ID
	return nil
}

func (r *InMemoryCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	completion, ok := r.store[id]
	if !ok {
		return nil, domain.ErrCompletionNotFound
	}
	return completion, nil
}

func (r *InMemoryCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.HabitID == habitID {
			completions = append(completions, c)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].CompletionDate.After(completions[j].CompletionDate)
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) ListByHabitIDRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Completion, error) {
	all, err := r.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	var completions []*domain.Completion
	for _, c := range all {
		if c.CompletionDate.Before(from) || c.CompletionDate.After(to) {
			continue
		}
		completions = append(completions, c)
	}

	return completions, nil
}

func (r *InMemoryCompletionRepository) Update(ctx context.Context, completion *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[completion.ID]; !ok {
		return domain.ErrCompletionNotFound
	}

	r.store[completion.ID] = completion
	return nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	completion, ok := r.store[id]
	if !ok {
		return domain.ErrCompletionNotFound
	}

	delete(r.byDate, dateIndexKey(completion.HabitID, completion))
	delete(r.store, id)
	return nil
}

func (r *InMemoryCompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.store {
		if c.HabitID == habitID {
			delete(r.byDate, dateIndexKey(habitID, c))
			delete(r.store, id)
		}
	}
	return nil
}

type InMemoryStreakRepository struct {
	store map[string]*domain.Streak

	mu sync.RWMutex
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{
		store: make(map[string]*domain.Streak),
	}
}

func (r *InMemoryStreakRepository) GetByHabitID(ctx context.Context, habitID string) (*domain.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	streak, ok := r.store[habitID]
	if !ok {
		return nil, domain.ErrStreakNotFound
	}
	return streak, nil
}

func (r *InMemoryStreakRepository) Upsert(ctx context.Context, streak *domain.Streak) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[streak.HabitID] = streak
	return nil
}

func (r *InMemoryStreakRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, habitID)
	return nil
}
