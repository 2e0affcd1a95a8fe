package engine

import (
	"github.com/tidwall/tinylru"
	"go.uber.org/multierr"

	"github.com/iamNilotpal/flint/internal/logio"
	"github.com/iamNilotpal/flint/pkg/genfile"
)

// readerCache holds this handle's open segment readers, keyed by generation.
// It is private to one clone and therefore needs no lock of its own: a stale
// descriptor is still valid to read from even after its file is unlinked,
// the cache exists only to bound how many descriptors a handle keeps and to
// let go of generations the safe point has passed.
type readerCache struct {
	dir   string
	cache tinylru.LRU
}

func newReaderCache(dir string, size int) *readerCache {
	c := &readerCache{dir: dir}
	c.cache.Resize(size)
	return c
}

// get returns the cached reader for gen, opening one on a miss. A reader
// evicted to make room is closed on the spot.
func (c *readerCache) get(gen uint64) (*logio.Reader, error) {
	if cached, ok := c.cache.Get(gen); ok {
		return cached.(*logio.Reader), nil
	}

	reader, err := logio.NewReader(genfile.Path(c.dir, gen))
	if err != nil {
		return nil, err
	}

	_, _, _, evictedValue, evicted := c.cache.SetEvicted(gen, reader)
	if evicted {
		evictedValue.(*logio.Reader).Close()
	}
	return reader, nil
}

// evictBelow closes and drops every cached reader for a generation strictly
// below the safe point. Those generations have been (or will shortly be)
// unlinked; the descriptors would keep the dead bytes pinned.
func (c *readerCache) evictBelow(safePoint uint64) {
	if safePoint == 0 {
		return
	}

	var stale []uint64
	c.cache.Range(func(key, _ any) bool {
		if gen := key.(uint64); gen < safePoint {
			stale = append(stale, gen)
		}
		return true
	})
	for _, gen := range stale {
		c.invalidate(gen)
	}
}

// invalidate closes and drops the cached reader for one generation.
func (c *readerCache) invalidate(gen uint64) {
	if prev, ok := c.cache.Delete(gen); ok {
		prev.(*logio.Reader).Close()
	}
}

// close releases every cached descriptor.
func (c *readerCache) close() error {
	var gens []uint64
	c.cache.Range(func(key, _ any) bool {
		gens = append(gens, key.(uint64))
		return true
	})

	var err error
	for _, gen := range gens {
		if prev, ok := c.cache.Delete(gen); ok {
			err = multierr.Append(err, prev.(*logio.Reader).Close())
		}
	}
	return err
}
