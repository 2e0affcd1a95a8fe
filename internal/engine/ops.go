package engine

import (
	stdErrors "errors"
	"io/fs"

	"github.com/iamNilotpal/flint/internal/codec"
	"github.com/iamNilotpal/flint/internal/index"
	"github.com/iamNilotpal/flint/pkg/errors"
)

// Set durably records the assignment of value to key. The record is appended
// to the active segment and flushed before the index is updated, so an entry
// never references bytes the OS has not seen. If the key had a prior
// assignment its bytes go dead and count toward the compaction trigger.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	payload, err := codec.Encode(codec.NewSet(key, value))
	if err != nil {
		return err
	}

	e.write.mu.Lock()
	defer e.write.mu.Unlock()

	pre := e.write.writer.Pos()
	post, err := e.write.writer.Append(payload)
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to append assignment record",
		).WithGeneration(e.write.curGen).WithOffset(pre).WithPath(e.write.writer.Name())
	}
	if err := e.write.writer.Flush(); err != nil {
		return err
	}

	entry := index.Entry{Gen: e.write.curGen, Offset: pre, Length: post - pre}
	if prior, ok := e.index.Insert(key, entry); ok {
		e.write.uncompacted += prior.Length
	}

	e.metrics.Sets.Inc()
	e.metrics.UncompactedBytes.Set(float64(e.write.uncompacted))

	if e.write.uncompacted > CompactionThreshold {
		return e.compactLocked()
	}
	return nil
}

// Remove durably records the deletion of key. A removal of an absent key is
// rejected before anything touches disk. The marker's own bytes are dead the
// moment they are written, so both the superseded assignment and the marker
// count toward the compaction trigger.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.write.mu.Lock()
	defer e.write.mu.Unlock()

	if _, ok := e.index.Get(key); !ok {
		return errors.NewKeyNotFoundError(key)
	}

	payload, err := codec.Encode(codec.NewRemove(key))
	if err != nil {
		return err
	}

	pre := e.write.writer.Pos()
	post, err := e.write.writer.Append(payload)
	if err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to append removal record",
		).WithGeneration(e.write.curGen).WithOffset(pre).WithPath(e.write.writer.Name())
	}
	if err := e.write.writer.Flush(); err != nil {
		return err
	}

	if prior, ok := e.index.Remove(key); ok {
		e.write.uncompacted += prior.Length
	}
	e.write.uncompacted += post - pre

	e.metrics.Removes.Inc()
	e.metrics.UncompactedBytes.Set(float64(e.write.uncompacted))

	if e.write.uncompacted > CompactionThreshold {
		return e.compactLocked()
	}
	return nil
}

// Get returns the current value for key, or found=false when the key is
// absent. Absence is not an error; errors are I/O or decode failures
// mid-read. Before serving, the handle drops cached readers for generations
// below the safe point — their files have been (or will shortly be) unlinked
// and holding the descriptors open defeats their reclamation.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	e.metrics.Gets.Inc()
	e.readers.evictBelow(e.safePoint.Load())

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		entry, ok := e.index.Get(key)
		if !ok {
			return "", false, nil
		}

		value, err := e.readAt(entry)
		if err == nil {
			return value, true, nil
		}
		if !stdErrors.Is(err, fs.ErrNotExist) {
			return "", false, err
		}

		// The generation vanished between the index lookup and the descriptor
		// open: a compaction re-pointed the entry and unlinked the file. The
		// re-point happens before the unlink, so a second lookup observes the
		// new location.
		e.readers.invalidate(entry.Gen)
		lastErr = err
	}
	return "", false, lastErr
}

// readAt fetches and decodes the single record an index entry points at.
func (e *Engine) readAt(entry index.Entry) (string, error) {
	reader, err := e.readers.get(entry.Gen)
	if err != nil {
		return "", err
	}

	if err := reader.Seek(entry.Offset); err != nil {
		return "", err
	}

	cmd, err := codec.Decode(reader.Bounded(entry.Length))
	if err != nil {
		return "", err
	}
	if cmd.Set == nil {
		return "", errors.NewStorageError(
			errors.ErrUnexpectedCommandType, errors.ErrorCodeUnexpectedCommand,
			"Index entry resolves to a non-assignment record",
		).WithGeneration(entry.Gen).WithOffset(entry.Offset)
	}
	return cmd.Set.Value, nil
}
