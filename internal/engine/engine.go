// Package engine implements the log-structured storage engine behind flint.
//
// The engine coordinates four subsystems: position-tracking segment I/O
// (internal/logio), the command codec (internal/codec), the in-memory key
// index (internal/index), and the compaction pass that reclaims space from
// overwritten and removed entries. Every mutation is appended to the active
// segment file and flushed, then reflected in the index; reads consult the
// index and decode exactly one record from the referenced segment.
//
// Concurrency model: the engine handle is cheaply cloneable. All clones of
// one store share the index, the write state (active writer, current
// generation, uncompacted-bytes counter) behind a single mutex, and the
// atomic safe-point watermark. Each clone owns a private cache of open
// segment readers, so the read path takes no locks beyond the index's.
// Compaction runs synchronously under the write lock: it blocks writers for
// its duration and is invisible to readers, which may observe either the old
// or the new location of a key — both hold bit-identical record bytes.
package engine

import (
	"context"
	stdErrors "errors"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/flint/internal/codec"
	"github.com/iamNilotpal/flint/internal/index"
	"github.com/iamNilotpal/flint/internal/logio"
	"github.com/iamNilotpal/flint/internal/metrics"
	"github.com/iamNilotpal/flint/pkg/errors"
	"github.com/iamNilotpal/flint/pkg/filesys"
	"github.com/iamNilotpal/flint/pkg/genfile"
	"github.com/iamNilotpal/flint/pkg/options"
)

// CompactionThreshold is the number of dead bytes that triggers a compaction
// pass. It is a compile-time constant: the on-disk format makes no promises
// that would survive tuning it per store.
const CompactionThreshold = 1 << 20

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")
)

// writeState is the single-writer half of the store, shared by all clones
// and mutated only under mu. Holding mu for the whole of one set, remove or
// compaction is what serializes mutations: there is at most one writer in
// flight, and the generation, writer position and uncompacted counter always
// move together.
type writeState struct {
	mu          sync.Mutex
	writer      *logio.Writer
	curGen      uint64
	uncompacted int64
}

// Engine is one handle onto a store. Clones share dir, index, write state,
// safe point and closed flag; the reader cache is per-handle so no lock
// guards it.
type Engine struct {
	dir     string
	log     *zap.SugaredLogger
	options *options.Options
	metrics *metrics.Metrics

	index     *index.Index
	write     *writeState
	safePoint *atomic.Uint64
	closed    *atomic.Bool

	readers *readerCache
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New opens the store rooted at config.Options.DataDir, creating the
// directory if absent, and recovers the index by replaying every existing
// segment in ascending generation order. A segment that cannot be fully
// decoded is fatal: the store refuses to open rather than serve from a log
// it cannot account for. After replay the next generation becomes the active
// writer; no recovery record is written.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := config.Options.DataDir
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dir)
	}

	config.Logger.Infow("Opening store", "dir", dir)

	gens, err := genfile.List(dir)
	if err != nil {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to enumerate segment files",
		).WithPath(dir)
	}

	idx := index.New()
	var uncompacted int64
	for _, gen := range gens {
		n, err := replaySegment(dir, gen, idx)
		if err != nil {
			config.Logger.Errorw("Recovery failed", "generation", gen, "error", err)
			return nil, err
		}
		uncompacted += n
	}

	curGen := uint64(1)
	if len(gens) > 0 {
		curGen = gens[len(gens)-1] + 1
	}

	writer, err := logio.NewWriter(genfile.Path(dir, curGen))
	if err != nil {
		return nil, err
	}

	config.Logger.Infow(
		"Store opened",
		"segmentsReplayed", len(gens),
		"liveKeys", idx.Len(),
		"uncompactedBytes", uncompacted,
		"activeGeneration", curGen,
	)

	engine := &Engine{
		dir:       dir,
		log:       config.Logger,
		options:   config.Options,
		metrics:   metrics.New(config.Options.MetricsRegisterer),
		index:     idx,
		write:     &writeState{writer: writer, curGen: curGen, uncompacted: uncompacted},
		safePoint: &atomic.Uint64{},
		closed:    &atomic.Bool{},
		readers:   newReaderCache(dir, config.Options.ReaderCacheSize),
	}
	engine.metrics.UncompactedBytes.Set(float64(uncompacted))
	return engine, nil
}

// replaySegment decodes one segment's record stream, applying the same index
// updates the online paths would and returning the dead bytes it contributed:
// superseded assignments plus the full length of every removal marker.
func replaySegment(dir string, gen uint64, idx *index.Index) (int64, error) {
	reader, err := logio.NewReader(genfile.Path(dir, gen))
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	var uncompacted int64
	dec := codec.NewStreamDecoder(reader)
	for {
		cmd, start, end, err := dec.Next()
		if stdErrors.Is(err, io.EOF) {
			return uncompacted, nil
		}
		if err != nil {
			return uncompacted, err
		}

		switch {
		case cmd.Set != nil:
			entry := index.Entry{Gen: gen, Offset: start, Length: end - start}
			if prior, ok := idx.Insert(cmd.Set.Key, entry); ok {
				uncompacted += prior.Length
			}
		case cmd.Remove != nil:
			if prior, ok := idx.Remove(cmd.Remove.Key); ok {
				uncompacted += prior.Length
			}
			// The marker itself is dead the moment it is written.
			uncompacted += end - start
		}
	}
}

// Clone produces an additional handle sharing the same underlying store.
// Clones are cheap and meant for distribution to worker goroutines: the
// only per-clone state is the reader cache.
func (e *Engine) Clone() *Engine {
	clone := *e
	clone.readers = newReaderCache(e.dir, e.options.ReaderCacheSize)
	return &clone
}

// Close releases this handle's cached readers and, on the first close of the
// store, the active writer. Subsequent closes report ErrEngineClosed.
func (e *Engine) Close() error {
	err := e.readers.close()

	if !e.closed.CompareAndSwap(false, true) {
		return multierr.Append(err, ErrEngineClosed)
	}

	e.log.Infow("Closing store", "dir", e.dir)
	e.write.mu.Lock()
	err = multierr.Append(err, e.write.writer.Close())
	e.write.mu.Unlock()
	return err
}
