// Package resource bounds the concurrency and rate of search execution.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for query execution.
type Config struct {
	// MaxConcurrentSearches is the maximum number of searches running at
	// once. If 0, defaults to 0 meaning unlimited.
	MaxConcurrentSearches int64

	// SearchesPerSec is the maximum sustained query rate.
	// If 0, unlimited.
	SearchesPerSec float64

	// SearchBurst is the rate limiter burst size. Defaults to 1 when a
	// rate limit is set.
	SearchBurst int
}

// Controller gates search execution against the configured limits.
// A nil *Controller is valid and enforces nothing.
type Controller struct {
	searchSem *semaphore.Weighted // nil if unlimited
	limiter   *rate.Limiter       // nil if unlimited
	inFlight  atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{}

	if cfg.MaxConcurrentSearches > 0 {
		c.searchSem = semaphore.NewWeighted(cfg.MaxConcurrentSearches)
	}
	if cfg.SearchesPerSec > 0 {
		burst := cfg.SearchBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.SearchesPerSec), burst)
	}

	return c
}

// AcquireSearch blocks until a search slot is available and the rate
// limiter admits the query, or ctx is done. Every successful acquire must
// be paired with a ReleaseSearch.
func (c *Controller) AcquireSearch(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.searchSem != nil {
		if err := c.searchSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	c.inFlight.Add(1)
	return nil
}

// ReleaseSearch returns a search slot.
func (c *Controller) ReleaseSearch() {
	if c == nil {
		return
	}

	c.inFlight.Add(-1)
	if c.searchSem != nil {
		c.searchSem.Release(1)
	}
}

// InFlight returns the number of searches currently executing.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}
