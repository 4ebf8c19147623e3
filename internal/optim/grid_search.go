// Package optim searches collision settings for the values that
// minimise a run metric, such as the penetration left after the
// stabilization passes.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNoTrials = errors.New("optim: no trial succeeded")

// Evaluate runs one trial and returns the value to minimise.
type Evaluate func(ctx context.Context, params map[string]float64) (float64, error)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch searches the cartesian product of ranges; ranges[i]
// holds the candidate values of params[i].
func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: no values for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of trials Search will run.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every grid point in order and returns all trials with
// the best one first. Failed trials are kept with their error and sort
// last. It stops early when ctx is done.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate) ([]Trial, error) {
	trials := make([]Trial, 0, g.Size())
	err := g.walk(ctx, 0, make(map[string]float64, len(g.paramNames)), func(p map[string]float64) {
		v, err := eval(ctx, p)
		if err == nil && math.IsNaN(v) {
			err = fmt.Errorf("optim: metric is NaN")
		}
		trials = append(trials, Trial{Params: p, Value: v, Err: err})
	})

	sort.SliceStable(trials, func(i, j int) bool {
		if (trials[i].Err == nil) != (trials[j].Err == nil) {
			return trials[i].Err == nil
		}
		return trials[i].Value < trials[j].Value
	})
	if err != nil {
		return trials, err
	}
	if len(trials) == 0 || trials[0].Err != nil {
		return trials, ErrNoTrials
	}
	return trials, nil
}

func (g *GridSearch) walk(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		visit(p)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.walk(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	return nil
}
