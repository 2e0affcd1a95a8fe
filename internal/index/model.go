package index

import "sync"

// Entry contains the minimum metadata required to locate and retrieve the
// authoritative assignment record for a key: which segment generation holds
// it, the byte offset it starts at, and its encoded length. Entries are
// stored and passed by value so a reader can never observe a torn update —
// an entry either came wholly from one insert or wholly from another.
type Entry struct {
	// Gen identifies the segment file containing the record.
	Gen uint64

	// Offset is the byte position within the segment where the record begins.
	// A read seeks directly here; access time does not depend on where in the
	// file the record lives.
	Offset int64

	// Length is the encoded size of the record in bytes. It bounds the read
	// so a single bounded parse fetches exactly one record, and it is the
	// quantum added to the uncompacted counter once the record goes dead.
	Length int64
}

// Pair couples a key with its entry for snapshot iteration.
type Pair struct {
	Key   string
	Entry Entry
}

// Index is the in-memory map from each live key to the location of its
// current assignment record. It is shared by the single writer, many
// readers, and the compactor; all access goes through the point operations
// below, which are linearizable under the mutex.
type Index struct {
	mu      sync.RWMutex
	entries map[string]Entry
}
