package memory

import (
	"context"
	"testing"

	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()

	created, err := store.CreateStep(ctx, models.Step{Rank: 1, Answer: "blue"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := store.StepByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	created.Answer = "green"
	require.NoError(t, store.UpdateStep(ctx, created))
	got, err = store.StepByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "green", got.Answer)

	require.NoError(t, store.UpdateStepRank(ctx, created.ID, 5))
	got, err = store.StepByRank(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, store.DeleteStep(ctx, created.ID))
	_, err = store.StepByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStepNotFound(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.StepByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.StepByRank(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateStep(ctx, models.Step{ID: 1}), storage.ErrNotFound)
	assert.ErrorIs(t, store.UpdateStepRank(ctx, 1, 1), storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteStep(ctx, 1), storage.ErrNotFound)
}

func TestListStepsOrdering(t *testing.T) {
	ctx := context.Background()
	store := New()

	// Same rank twice: id order breaks the tie, matching the SQL store.
	for _, rank := range []int32{2, 1, 1} {
		_, err := store.CreateStep(ctx, models.Step{Rank: rank})
		require.NoError(t, err)
	}

	steps, err := store.ListSteps(ctx)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, int64(2), steps[0].ID)
	assert.Equal(t, int64(3), steps[1].ID)
	assert.Equal(t, int64(1), steps[2].ID)

	// StepByRank also prefers the lowest id.
	got, err := store.StepByRank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()

	created, err := store.CreateUser(ctx, models.User{Name: "Ada", PasswordHash: "x", CurrentStep: 1})
	require.NoError(t, err)

	require.NoError(t, store.UpdateUserStep(ctx, created.ID, 2))
	got, err := store.UserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.CurrentStep)

	got.Name = "Grace"
	require.NoError(t, store.UpdateUser(ctx, got))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Grace", users[0].Name)

	require.NoError(t, store.DeleteUser(ctx, created.ID))
	_, err = store.UserByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.CreateStep(ctx, models.Step{Rank: 1})
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, models.User{Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteAllSteps(ctx))
	require.NoError(t, store.DeleteAllUsers(ctx))

	steps, err := store.ListSteps(ctx)
	require.NoError(t, err)
	assert.Empty(t, steps)
	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// Ids keep counting up after a wipe.
	step, err := store.CreateStep(ctx, models.Step{Rank: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), step.ID)
}
