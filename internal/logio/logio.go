// Package logio provides position-tracking buffered I/O over append-only
// segment files.
//
// Both the Writer and the Reader maintain a logical byte position that is
// updated after every successful read, write or seek. The engine's index
// stores (generation, offset, length) triples, so knowing the exact byte
// position of every record as it is written — and being able to return to it
// later with a single seek — is the foundation the whole store rests on.
//
// The Writer is append-only and buffered; the engine flushes after every
// appended record so that the position advance is observed by subsequent
// reads on a separately opened handle of the same file. The Reader is
// buffered and seekable. Neither retries: all underlying I/O errors surface
// to the caller unchanged in kind.
package logio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/flint/pkg/errors"
)

// Writer appends records to a segment file, tracking the logical end offset.
// It never truncates or overwrites: the file is opened with O_APPEND and the
// position only ever advances.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
	pos  int64
}

// NewWriter opens (creating if absent) the segment file at path for
// appending and positions the logical offset at the current end of file.
func NewWriter(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	// Even with O_APPEND the logical position must be known up front;
	// it seeds the offsets recorded in the index.
	pos, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to seek to end of segment file",
		).WithPath(path).WithFileName(filepath.Base(path))
	}

	return &Writer{file: file, buf: bufio.NewWriter(file), pos: pos}, nil
}

// Write appends p to the buffered stream, advancing the logical position.
// It implements io.Writer so record bytes can be streamed in during
// compaction with io.CopyN.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.pos += int64(n)
	return n, err
}

// Append writes one encoded record and returns the new end offset.
func (w *Writer) Append(p []byte) (int64, error) {
	if _, err := w.Write(p); err != nil {
		return w.pos, err
	}
	return w.pos, nil
}

// Flush forces buffered bytes to the OS. The page cache is not fsynced;
// durability is best-effort by design.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return errors.ClassifyFlushError(err, filepath.Base(w.file.Name()), w.file.Name(), w.pos)
	}
	return nil
}

// Pos returns the logical end offset of the segment.
func (w *Writer) Pos() int64 {
	return w.pos
}

// Name returns the path of the underlying segment file.
func (w *Writer) Name() string {
	return w.file.Name()
}

// Close flushes buffered bytes and releases the file handle.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Reader is a buffered, seekable reader over one segment file that tracks
// its logical byte position across reads and seeks.
type Reader struct {
	file *os.File
	buf  *bufio.Reader
	pos  int64
}

// NewReader opens the segment file at path for reading, positioned at the
// start of the file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}
	return &Reader{file: file, buf: bufio.NewReader(file)}, nil
}

// Read implements io.Reader, advancing the logical position by the number
// of bytes consumed.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.pos += int64(n)
	return n, err
}

// Seek sets the logical position to the given absolute offset. The buffer
// is discarded; a cheap optimization would skip the syscall when the target
// already lies inside the buffered window, but reads are dominated by the
// record parse so it has not been worth the bookkeeping.
func (r *Reader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return errors.NewStorageError(
			err, errors.ErrorCodeIO, "Failed to seek within segment file",
		).WithPath(r.file.Name()).WithOffset(offset)
	}
	r.buf.Reset(r.file)
	r.pos = offset
	return nil
}

// Bounded returns a view that yields at most n bytes from the current
// position. The engine uses it to hand the codec exactly one record.
func (r *Reader) Bounded(n int64) io.Reader {
	return io.LimitReader(r, n)
}

// Pos returns the current logical position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Name returns the path of the underlying segment file.
func (r *Reader) Name() string {
	return r.file.Name()
}

// Close releases the file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
