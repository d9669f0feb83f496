package minikanren

import (
	"context"

	"github.com/gitrdm/gokanterm/internal/parallel"
)

// RunBatch solves independent queries concurrently on a pool of workers
// (workers <= 0 means one per CPU). Each query runs as its own single
// threaded search; results are returned in query order. Queries that could
// not be started because ctx ended carry ctx's error.
func (sv *Solver) RunBatch(ctx context.Context, workers int, queries ...Query) []Result {
	results := make([]Result, len(queries))
	for i, q := range queries {
		results[i].Name = q.Name
	}

	pool := parallel.NewWorkerPool(workers)
	defer pool.Shutdown()

	started := make([]bool, len(queries))
	err := pool.Do(ctx, len(queries), func(i int) {
		q := queries[i]
		answers, err := sv.Run(ctx, q.Limit, q.Term, q.Goals...)
		results[i].Answers = answers
		results[i].Err = err
		started[i] = true
	})
	if err != nil {
		for i := range results {
			if !started[i] {
				results[i].Err = err
			}
		}
	}
	return results
}
