package engine

import (
	"io"

	"github.com/iamNilotpal/flint/internal/index"
	"github.com/iamNilotpal/flint/internal/logio"
	"github.com/iamNilotpal/flint/pkg/errors"
	"github.com/iamNilotpal/flint/pkg/filesys"
	"github.com/iamNilotpal/flint/pkg/genfile"
)

// compactLocked reclaims the space held by dead records. Called with the
// write lock held, so no mutation can interleave; readers keep operating
// throughout.
//
// The pass claims two fresh generations: cur+1 receives the copied live
// records, cur+2 becomes the next active writer. Swapping the active writer
// first guarantees that everything written after the pass lands strictly
// above the compaction generation. Live records are copied verbatim, so a
// reader racing the pass sees bit-identical bytes whether it resolves a key
// through its old or new entry.
//
// Index entries are re-pointed only after every copy has succeeded and been
// flushed. The upstream implementation rewrote each entry as it copied, but
// that leaves the index referencing a half-written file if a copy fails
// midway; deferring the swaps keeps a failed compaction free of side
// effects beyond two fresh segment files, one of which is deleted again.
func (e *Engine) compactLocked() error {
	compactionGen := e.write.curGen + 1
	nextGen := e.write.curGen + 2

	e.log.Infow(
		"Starting compaction",
		"compactionGeneration", compactionGen,
		"nextActiveGeneration", nextGen,
		"uncompactedBytes", e.write.uncompacted,
		"liveKeys", e.index.Len(),
	)

	compactionWriter, err := logio.NewWriter(genfile.Path(e.dir, compactionGen))
	if err != nil {
		return err
	}

	activeWriter, err := logio.NewWriter(genfile.Path(e.dir, nextGen))
	if err != nil {
		e.discardPartial(compactionWriter, compactionGen)
		return err
	}

	if err := e.write.writer.Close(); err != nil {
		e.discardPartial(compactionWriter, compactionGen)
		e.discardPartial(activeWriter, nextGen)
		return err
	}
	e.write.writer = activeWriter
	e.write.curGen = nextGen

	// Copy every live record into the compaction generation. Iteration order
	// is whatever the index snapshot yields; each destination is
	// self-describing by offset, so order is irrelevant.
	snapshot := e.index.Snapshot()
	repointed := make([]index.Pair, 0, len(snapshot))
	var newPos int64
	for _, pair := range snapshot {
		reader, err := e.readers.get(pair.Entry.Gen)
		if err != nil {
			return e.abortCompaction(compactionWriter, compactionGen, err)
		}
		if err := reader.Seek(pair.Entry.Offset); err != nil {
			return e.abortCompaction(compactionWriter, compactionGen, err)
		}
		if _, err := io.CopyN(compactionWriter, reader, pair.Entry.Length); err != nil {
			return e.abortCompaction(compactionWriter, compactionGen, err)
		}

		repointed = append(repointed, index.Pair{
			Key:   pair.Key,
			Entry: index.Entry{Gen: compactionGen, Offset: newPos, Length: pair.Entry.Length},
		})
		newPos += pair.Entry.Length
	}

	if err := compactionWriter.Close(); err != nil {
		filesys.DeleteFile(genfile.Path(e.dir, compactionGen))
		return errors.NewStorageError(
			err, errors.ErrorCodeCompactionFailed, "Failed to flush compaction segment",
		).WithGeneration(compactionGen)
	}

	// Re-point the index, then publish the safe point. Each swap is atomic
	// per key, and no reader consults the safe point before the last swap
	// lands, so a concurrent read resolves through either location but never
	// through a generation it cannot open anymore.
	for _, pair := range repointed {
		e.index.Insert(pair.Key, pair.Entry)
	}
	e.safePoint.Store(compactionGen)
	e.readers.evictBelow(compactionGen)

	// Unlink every segment below the compaction generation. A reader that
	// still holds an open descriptor to one of these finishes its read on
	// that descriptor; unlinking an open file is safe here.
	gens, err := genfile.List(e.dir)
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to enumerate segments after compaction",
		).WithPath(e.dir)
	}
	var unlinked int
	for _, gen := range gens {
		if gen >= compactionGen {
			continue
		}
		if err := filesys.DeleteFile(genfile.Path(e.dir, gen)); err != nil {
			return errors.NewStorageError(
				err, errors.ErrorCodeIO, "Failed to unlink stale segment",
			).WithGeneration(gen).WithPath(genfile.Path(e.dir, gen))
		}
		unlinked++
	}

	e.write.uncompacted = 0
	e.metrics.UncompactedBytes.Set(0)
	e.metrics.Compactions.Inc()

	e.log.Infow(
		"Compaction complete",
		"liveBytes", newPos,
		"liveKeys", len(repointed),
		"staleSegments", unlinked,
		"safePoint", compactionGen,
	)
	return nil
}

// abortCompaction tears down a failed pass: the partial compaction segment
// is deleted so a later open never replays it. The index was not re-pointed
// yet, so the store remains fully consistent on its old segments.
func (e *Engine) abortCompaction(writer *logio.Writer, gen uint64, cause error) error {
	e.discardPartial(writer, gen)
	e.log.Errorw("Compaction aborted", "compactionGeneration", gen, "error", cause)
	return errors.NewStorageError(
		cause, errors.ErrorCodeCompactionFailed, "Compaction pass failed",
	).WithGeneration(gen)
}

func (e *Engine) discardPartial(writer *logio.Writer, gen uint64) {
	writer.Close()
	if err := filesys.DeleteFile(genfile.Path(e.dir, gen)); err != nil {
		e.log.Errorw("Failed to delete partial segment", "generation", gen, "error", err)
	}
}
