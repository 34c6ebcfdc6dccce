package kdann

import (
	"log/slog"

	"github.com/hupe1980/kdann/resource"
)

type options struct {
	bucketSize       int
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
}

// Option configures Index constructor/load behavior.
type Option func(*options)

// WithBucketSize configures the maximum number of points per leaf when
// building the tree. Smaller buckets give finer pruning, larger buckets
// shift work into the brute-force leaf scan. Defaults to the kdtree
// package default.
func WithBucketSize(size int) Option {
	return func(o *options) {
		o.bucketSize = size
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithResourceLimits bounds concurrency and query rate for this index.
func WithResourceLimits(cfg resource.Config) Option {
	return func(o *options) {
		o.controller = resource.NewController(cfg)
	}
}
