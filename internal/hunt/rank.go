package hunt

import (
	"context"
	"fmt"
	"sort"

	"github.com/ecollinet/chasse-backend/internal/storage"
)

// TieBreak decides which of two same-rank steps is ordered first during a
// rerank pass.
type TieBreak int

const (
	// TieBefore places the priority step ahead of the incumbent.
	TieBefore TieBreak = iota
	// TieAfter places the priority step behind the incumbent.
	TieAfter
)

// RankPriority names the step that wins a rank tie and on which side.
type RankPriority struct {
	StepID   int64
	TieBreak TieBreak
}

// Ranker re-derives the dense 1..N rank ordering of the step table. It holds
// no state between invocations: every pass reloads the full table, so a
// rerank after any single mutation converges the whole ordering.
type Ranker struct {
	steps storage.StepStore
}

// NewRanker returns a ranker over the given step store.
func NewRanker(steps storage.StepStore) *Ranker {
	return &Ranker{steps: steps}
}

// Rerank loads all steps ordered by rank, resolves rank ties per the
// priority directive, and rewrites ranks sequentially to 1..N. Any store
// failure aborts the pass; partial rank state is never reported as success.
func (r *Ranker) Rerank(ctx context.Context, priority *RankPriority) error {
	steps, err := r.steps.ListSteps(ctx)
	if err != nil {
		return fmt.Errorf("rerank: load steps: %w", err)
	}

	if priority != nil {
		sort.SliceStable(steps, func(i, j int) bool {
			a, b := steps[i], steps[j]
			if a.Rank != b.Rank {
				return a.Rank < b.Rank
			}
			switch priority.StepID {
			case a.ID:
				return priority.TieBreak == TieBefore
			case b.ID:
				return priority.TieBreak == TieAfter
			}
			return false
		})
	}

	for i, step := range steps {
		want := int32(i + 1)
		if step.Rank == want {
			continue
		}
		if err := r.steps.UpdateStepRank(ctx, step.ID, want); err != nil {
			return fmt.Errorf("rerank: move step %d to rank %d: %w", step.ID, want, err)
		}
	}
	return nil
}
