// Package options provides data structures and functions for configuring
// the flint database. It defines the parameters that control where segment
// files live, how many read descriptors a handle may cache, and where
// operational metrics are registered.
package options

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Options defines the configuration parameters for a flint store.
// The compaction threshold is deliberately not configurable: it is a
// compile-time constant of the engine, and exposing it here would invite
// tuning that the on-disk format makes no promises about.
type Options struct {
	// Specifies the base path where segment files will be stored.
	//
	// Default: "/var/lib/flint"
	DataDir string `json:"dataDir"`

	// Bounds how many open segment readers a single handle caches.
	// Each clone of a store owns its own cache of this size. Larger caches
	// avoid reopening files for reads spread across many generations at the
	// cost of held file descriptors.
	//
	//  - Default: 64
	//  - Minimum: 2
	//  - Maximum: 4096
	ReaderCacheSize int `json:"readerCacheSize"`

	// Receives the engine's operation counters and gauges when non-nil.
	// Left nil, the metrics are still maintained but never exported;
	// the engine has no dependency on a live registry.
	MetricsRegisterer prometheus.Registerer `json:"-"`
}

// OptionFunc is a function type that modifies the store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.ReaderCacheSize = opts.ReaderCacheSize
		o.MetricsRegisterer = opts.MetricsRegisterer
	}
}

// WithDataDir sets the directory holding the store's segment files.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithReaderCacheSize bounds the per-handle cache of open segment readers.
func WithReaderCacheSize(size int) OptionFunc {
	return func(o *Options) {
		if size >= MinReaderCacheSize && size <= MaxReaderCacheSize {
			o.ReaderCacheSize = size
		}
	}
}

// WithMetricsRegisterer registers the engine's metrics with the given registry.
func WithMetricsRegisterer(reg prometheus.Registerer) OptionFunc {
	return func(o *Options) {
		if reg != nil {
			o.MetricsRegisterer = reg
		}
	}
}
