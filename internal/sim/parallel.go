package sim

import (
	"context"
	"sync"

	"github.com/san-kum/bounce/internal/collide"
)

// WorldFactory builds a fresh world for one seed.
type WorldFactory func(seed int64) (*World, error)

// Ensemble runs the same scene over consecutive seeds concurrently. Each
// run gets its own World and Resolver; nothing is shared between runs.
type Ensemble struct {
	factory   WorldFactory
	opts      collide.Options
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory WorldFactory, opts collide.Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, opts: opts, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			r, err := collide.NewResolver(e.opts)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = New(r, nil).Run(ctx, w, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
