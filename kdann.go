package kdann

import (
	"context"
	"time"

	"github.com/hupe1980/kdann/blobstore"
	"github.com/hupe1980/kdann/kdtree"
	"github.com/hupe1980/kdann/pointset"
	"github.com/hupe1980/kdann/snapshot"
)

// SearchResult is a single search hit: a point identifier and its squared
// Euclidean distance to the query, ascending within a result set.
type SearchResult = kdtree.Result

// SearchOption configures a single search call.
type SearchOption = func(o *kdtree.SearchOptions)

// WithEpsilon sets the relative error tolerance. 0 means exact search;
// eps > 0 permits each returned squared distance to exceed the true i-th
// nearest squared distance by up to a factor (1+eps)^2, buying speed.
func WithEpsilon(eps float64) SearchOption {
	return func(o *kdtree.SearchOptions) {
		o.Epsilon = eps
	}
}

// WithMaxVisited caps the number of points examined before the search
// returns whatever it has found so far. The eps accuracy guarantee no
// longer holds once the cap is hit. 0 means unlimited.
func WithMaxVisited(n int) SearchOption {
	return func(o *kdtree.SearchOptions) {
		o.MaxVisited = n
	}
}

// WithoutSelfMatch excludes points at exactly squared distance zero from
// the results, for queries that are themselves indexed points.
func WithoutSelfMatch() SearchOption {
	return func(o *kdtree.SearchOptions) {
		o.AllowSelfMatch = false
	}
}

// Index is a static approximate nearest neighbor index over a fixed point
// set. It is safe for concurrent searches once built.
type Index struct {
	tree    *kdtree.Tree
	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// New builds an Index over the given point set.
func New(points pointset.Store, optFns ...Option) (*Index, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	start := time.Now()

	var buildOpts []func(*kdtree.BuildOptions)
	if o.bucketSize > 0 {
		buildOpts = append(buildOpts, func(bo *kdtree.BuildOptions) {
			bo.BucketSize = o.bucketSize
		})
	}

	tree, err := kdtree.Build(points, buildOpts...)

	ix := newIndex(tree, o)
	if ix.metrics != nil {
		ix.metrics.RecordBuild(pointCount(points), time.Since(start), err)
	}
	if ix.logger != nil {
		ix.logger.LogBuild(context.Background(), pointCount(points), time.Since(start), err)
	}
	if err != nil {
		return nil, translateError(err)
	}
	return ix, nil
}

// FromTree wraps an already-built tree.
func FromTree(tree *kdtree.Tree, optFns ...Option) *Index {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}
	return newIndex(tree, o)
}

// Load restores an Index from a snapshot blob.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Index, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	tree, err := snapshot.Read(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return newIndex(tree, o), nil
}

func newIndex(tree *kdtree.Tree, o options) *Index {
	return &Index{
		tree:    tree,
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
}

// Save writes the index and its point set to a snapshot blob.
func (ix *Index) Save(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *snapshot.Options)) error {
	return snapshot.Write(ctx, store, name, ix.tree, optFns...)
}

// Search returns the k nearest points to q, sorted ascending by squared
// distance. Fewer than k results are returned if the index holds fewer
// than k points. The traversal itself is synchronous; ctx gates admission
// when resource limits are configured.
func (ix *Index) Search(ctx context.Context, q []float32, k int, optFns ...SearchOption) ([]SearchResult, error) {
	if err := ix.opts.controller.AcquireSearch(ctx); err != nil {
		return nil, err
	}
	defer ix.opts.controller.ReleaseSearch()

	start := time.Now()
	results, err := ix.tree.PrioritySearch(q, k, optFns...)
	err = translateError(err)

	if ix.metrics != nil {
		ix.metrics.RecordSearch(k, time.Since(start), err)
	}
	if ix.logger != nil {
		ix.logger.LogSearch(ctx, k, len(results), time.Since(start), err)
	}
	return results, err
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.tree.Len() }

// Dimension returns the coordinate dimension of the indexed points.
func (ix *Index) Dimension() int { return ix.tree.Dimension() }

// Tree exposes the underlying kd-tree.
func (ix *Index) Tree() *kdtree.Tree { return ix.tree }

// Stats returns tree shape statistics.
func (ix *Index) Stats() kdtree.Stats { return ix.tree.Stats() }

func pointCount(points pointset.Store) int {
	if points == nil {
		return 0
	}
	return points.Len()
}
