package kdann

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchSearch runs one search per query concurrently and returns the
// result sets in query order. Concurrency is bounded by GOMAXPROCS and,
// when configured, by the index's resource limits. The first error cancels
// the remaining queries.
func (ix *Index) BatchSearch(ctx context.Context, queries [][]float32, k int, optFns ...SearchOption) ([][]SearchResult, error) {
	start := time.Now()
	results := make([][]SearchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			r, err := ix.Search(gctx, q, k, optFns...)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	err := g.Wait()

	if ix.metrics != nil {
		failed := 0
		if err != nil {
			for _, r := range results {
				if r == nil {
					failed++
				}
			}
		}
		ix.metrics.RecordBatchSearch(len(queries), failed, time.Since(start))
	}

	if err != nil {
		return nil, err
	}
	return results, nil
}
