package hunt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/storage"
)

// MediaStore is the narrow contract the catalog needs for cleanup when a
// step disappears. Deletion is best-effort only.
type MediaStore interface {
	Delete(stepID int64) error
}

// Catalog is the admin CRUD surface over steps. Every structural mutation
// is followed by a full rerank pass so the rank set stays a dense 1..N run.
type Catalog struct {
	steps  storage.StepStore
	ranker *Ranker
	media  MediaStore
	log    *slog.Logger
}

// NewCatalog wires a catalog over the step store. media may be nil when no
// media cleanup is wanted.
func NewCatalog(steps storage.StepStore, media MediaStore, log *slog.Logger) *Catalog {
	return &Catalog{
		steps:  steps,
		ranker: NewRanker(steps),
		media:  media,
		log:    log,
	}
}

// Get returns the step with the given id.
func (c *Catalog) Get(ctx context.Context, id int64) (models.Step, error) {
	return c.steps.StepByID(ctx, id)
}

// List returns every step in rank order.
func (c *Catalog) List(ctx context.Context) ([]models.Step, error) {
	return c.steps.ListSteps(ctx)
}

// Create inserts a step at the caller-given rank and reranks. A new step
// claiming an occupied rank is ordered ahead of the incumbent.
func (c *Catalog) Create(ctx context.Context, step models.Step) (models.Step, error) {
	step.Trim()
	created, err := c.steps.CreateStep(ctx, step)
	if err != nil {
		return models.Step{}, fmt.Errorf("create step: %w", err)
	}
	if err := c.ranker.Rerank(ctx, &RankPriority{StepID: created.ID, TieBreak: TieBefore}); err != nil {
		return models.Step{}, err
	}
	return c.steps.StepByID(ctx, created.ID)
}

// Update rewrites a step and reranks. "Set my rank to X" behaves like "move
// to the position currently occupied by X": a step moving to a later rank
// settles after the incumbent, a step moving earlier settles before it.
func (c *Catalog) Update(ctx context.Context, step models.Step) (models.Step, error) {
	step.Trim()
	prev, err := c.steps.StepByID(ctx, step.ID)
	if err != nil {
		return models.Step{}, err
	}
	if err := c.steps.UpdateStep(ctx, step); err != nil {
		return models.Step{}, err
	}
	tie := TieBefore
	if step.Rank > prev.Rank {
		tie = TieAfter
	}
	if err := c.ranker.Rerank(ctx, &RankPriority{StepID: step.ID, TieBreak: tie}); err != nil {
		return models.Step{}, err
	}
	return c.steps.StepByID(ctx, step.ID)
}

// Delete removes a step, closes the rank gap, and fires off media cleanup.
// The rerank runs even when nothing was deleted, and media-store failures
// are logged but never surfaced.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	delErr := c.steps.DeleteStep(ctx, id)
	if delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		return delErr
	}
	if err := c.ranker.Rerank(ctx, nil); err != nil {
		return err
	}
	if delErr != nil {
		return delErr
	}
	if c.media != nil {
		go func() {
			if err := c.media.Delete(id); err != nil {
				c.log.Warn("delete step media", "step_id", id, "error", err)
			}
		}()
	}
	return nil
}

// DeleteAll empties the step table.
func (c *Catalog) DeleteAll(ctx context.Context) error {
	return c.steps.DeleteAllSteps(ctx)
}
