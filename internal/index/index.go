// Package index provides the in-memory key directory for the flint store.
// It maintains the core mapping from each live key to the on-disk location
// of its most recent assignment, so that reads cost one map lookup plus one
// seek-and-parse regardless of how much log history exists.
//
// Keys present in the map are exactly the live keys: removal markers are
// never stored, the key is simply absent. Key ordering is not used by the
// engine, so a plain hash map suffices.
package index

// New creates an empty index, immediately ready for concurrent use.
func New() *Index {
	return &Index{entries: make(map[string]Entry, 2048)}
}

// Get returns the entry for key, if present. It sees a consistent snapshot
// of the entry: values are copied out under the read lock.
func (idx *Index) Get(key string) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entry, ok := idx.entries[key]
	return entry, ok
}

// Insert atomically replaces (or creates) the entry for key, returning the
// prior entry when one existed. The writer uses the prior entry's length to
// account superseded bytes as uncompacted.
func (idx *Index) Insert(key string, entry Entry) (Entry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prior, ok := idx.entries[key]
	idx.entries[key] = entry
	return prior, ok
}

// Remove atomically deletes the entry for key, returning the prior entry
// when one existed.
func (idx *Index) Remove(key string) (Entry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prior, ok := idx.entries[key]
	delete(idx.entries, key)
	return prior, ok
}

// Len returns the number of live keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}

// Snapshot returns the current set of (key, entry) pairs. Modifications made
// after the snapshot is taken are not reflected, and no pair is ever torn:
// the copy happens entirely under the read lock. The compactor iterates a
// snapshot so it can rewrite entries without holding the index locked across
// file I/O.
func (idx *Index) Snapshot() []Pair {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pairs := make([]Pair, 0, len(idx.entries))
	for key, entry := range idx.entries {
		pairs = append(pairs, Pair{Key: key, Entry: entry})
	}
	return pairs
}
