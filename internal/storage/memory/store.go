// Package memory provides an in-process storage.Store used when no
// database is configured and as the substrate for deterministic tests.
// It mirrors the ordering rules of the Postgres store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps steps and users in maps guarded by a single mutex.
type Store struct {
	mu         sync.Mutex
	steps      map[int64]models.Step
	users      map[int64]models.User
	nextStepID int64
	nextUserID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		steps:      make(map[int64]models.Step),
		users:      make(map[int64]models.User),
		nextStepID: 1,
		nextUserID: 1,
	}
}

// Close is a no-op; present to satisfy storage.Store.
func (s *Store) Close() {}

// CreateStep inserts a step and assigns the next id.
func (s *Store) CreateStep(_ context.Context, step models.Step) (models.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step.ID = s.nextStepID
	s.nextStepID++
	s.steps[step.ID] = step
	return step, nil
}

// StepByID fetches a step by id.
func (s *Store) StepByID(_ context.Context, id int64) (models.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, ok := s.steps[id]
	if !ok {
		return models.Step{}, storage.ErrNotFound
	}
	return step, nil
}

// StepByRank fetches the step at the given rank (lowest id wins a tie).
func (s *Store) StepByRank(_ context.Context, rank int32) (models.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	var best models.Step
	for _, step := range s.steps {
		if step.Rank != rank {
			continue
		}
		if !found || step.ID < best.ID {
			best = step
			found = true
		}
	}
	if !found {
		return models.Step{}, storage.ErrNotFound
	}
	return best, nil
}

// ListSteps returns all steps ordered by rank, ties by id.
func (s *Store) ListSteps(_ context.Context) ([]models.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := make([]models.Step, 0, len(s.steps))
	for _, step := range s.steps {
		steps = append(steps, step)
	}
	sort.Slice(steps, func(i, j int) bool {
		if steps[i].Rank != steps[j].Rank {
			return steps[i].Rank < steps[j].Rank
		}
		return steps[i].ID < steps[j].ID
	})
	return steps, nil
}

// UpdateStep rewrites a stored step.
func (s *Store) UpdateStep(_ context.Context, step models.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.steps[step.ID]; !ok {
		return storage.ErrNotFound
	}
	s.steps[step.ID] = step
	return nil
}

// UpdateStepRank rewrites only a step's rank.
func (s *Store) UpdateStepRank(_ context.Context, id int64, rank int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, ok := s.steps[id]
	if !ok {
		return storage.ErrNotFound
	}
	step.Rank = rank
	s.steps[id] = step
	return nil
}

// DeleteStep removes a step.
func (s *Store) DeleteStep(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.steps[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.steps, id)
	return nil
}

// DeleteAllSteps empties the step map.
func (s *Store) DeleteAllSteps(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = make(map[int64]models.Step)
	return nil
}

// CreateUser inserts a user and assigns the next id.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user
	return user, nil
}

// UserByID fetches a user by id.
func (s *Store) UserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateUser rewrites a stored user.
func (s *Store) UpdateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

// UpdateUserStep moves a user to the given step rank.
func (s *Store) UpdateUserStep(_ context.Context, id int64, rank int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.CurrentStep = rank
	s.users[id] = user
	return nil
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// DeleteAllUsers empties the user map.
func (s *Store) DeleteAllUsers(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[int64]models.User)
	return nil
}
