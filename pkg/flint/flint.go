// Package flint provides a persistent, embedded, single-node key/value store
// with string keys and string values, inspired by Bitcask. Durability comes
// from a log-structured on-disk representation: every mutation is appended
// to an active segment file, an in-memory index maps each live key to the
// on-disk location of its most recent assignment so reads cost a single seek
// and parse, and a periodic compaction reclaims the space occupied by
// overwritten or removed entries.
//
// A Store handle is cheap to clone; hand each worker goroutine its own clone
// and all of them operate on the same underlying store. Many readers run
// alongside the single serialized writer without external coordination.
package flint

import (
	"context"

	"github.com/iamNilotpal/flint/internal/engine"
	"github.com/iamNilotpal/flint/pkg/logger"
	"github.com/iamNilotpal/flint/pkg/options"
)

// Engine is the contract external collaborators (servers, CLIs, alternative
// backends) program against. Store is the canonical implementation.
type Engine interface {
	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key, value string) error

	// Get retrieves the current value for key. found is false when the key
	// is absent; absence is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Remove deletes a key-value pair. Removing an absent key fails with an
	// error satisfying errors.Is(err, flinterrors.ErrKeyNotFound).
	Remove(ctx context.Context, key string) error
}

// Store is a handle onto an open flint store. It is the primary entry point
// for interacting with the database, providing methods for setting, getting
// and removing key-value pairs.
type Store struct {
	engine  *engine.Engine   // The underlying storage engine handling read/write operations.
	options *options.Options // Configuration options applied to this store.
}

var _ Engine = (*Store)(nil)

// Open creates (if needed) and recovers the store rooted at dir. An empty
// dir falls back to the configured or default data directory. Opening fails
// on unreadable or malformed segments: a log that cannot be fully replayed
// is never served from.
func Open(ctx context.Context, dir string, opts ...options.OptionFunc) (*Store, error) {
	log := logger.New("flint")

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}
	if dir != "" {
		defaultOpts.DataDir = dir
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Store{engine: eng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the store. If the key already exists, its
// value will be updated. The operation is durable before it returns: the
// record is appended to the active segment and flushed.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.engine.Set(key, value)
}

// Get retrieves the value associated with the given key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return s.engine.Get(key)
}

// Remove deletes a key-value pair from the store, durably recording the
// removal. The space held by the key's records is reclaimed by a later
// compaction.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.engine.Remove(key)
}

// Clone produces an additional handle sharing the same underlying store.
// Clones are cheap and meant for distribution to worker goroutines; there is
// exactly one writer lock and one index across all clones of one Open.
func (s *Store) Clone() *Store {
	return &Store{engine: s.engine.Clone(), options: s.options}
}

// Close releases this handle's file descriptors and, on the first close of
// the store, the active writer. No shutdown record is required; the next
// Open recovers from the segments alone.
func (s *Store) Close(ctx context.Context) error {
	return s.engine.Close()
}
