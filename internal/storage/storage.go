package storage

import (
	"context"
	"errors"

	"github.com/ecollinet/chasse-backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// StepStore captures the persistence operations the step catalog and the
// rank maintainer need. ListSteps must return steps ordered ascending by
// rank (ties broken by id, matching insertion order).
type StepStore interface {
	CreateStep(ctx context.Context, step models.Step) (models.Step, error)
	StepByID(ctx context.Context, id int64) (models.Step, error)
	StepByRank(ctx context.Context, rank int32) (models.Step, error)
	ListSteps(ctx context.Context) ([]models.Step, error)
	UpdateStep(ctx context.Context, step models.Step) error
	UpdateStepRank(ctx context.Context, id int64, rank int32) error
	DeleteStep(ctx context.Context, id int64) error
	DeleteAllSteps(ctx context.Context) error
}

// UserStore captures the persistence operations needed for hunt participants.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	UpdateUserStep(ctx context.Context, id int64, rank int32) error
	DeleteUser(ctx context.Context, id int64) error
	DeleteAllUsers(ctx context.Context) error
}

// Store is the full persistence surface the server wires against.
type Store interface {
	StepStore
	UserStore
	Close()
}
