package errors

import (
	stdErrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyNotFoundChain(t *testing.T) {
	err := NewKeyNotFoundError("missing")

	require.True(t, IsKeyNotFound(err))
	require.True(t, stdErrors.Is(err, ErrKeyNotFound))
	require.Equal(t, ErrorCodeKeyNotFound, GetErrorCode(err))

	indexErr, ok := AsIndexError(err)
	require.True(t, ok)
	require.Equal(t, "missing", indexErr.Key())
	require.Equal(t, "Remove", indexErr.Operation())
}

func TestStorageErrorContext(t *testing.T) {
	cause := stdErrors.New("disk went away")
	err := NewStorageError(cause, ErrorCodeIO, "Failed to append record").
		WithGeneration(7).
		WithOffset(128).
		WithPath("/store/7.log").
		WithDetail("operation", "append")

	require.True(t, IsStorageError(err))
	require.ErrorIs(t, err, cause)
	require.Equal(t, ErrorCodeIO, GetErrorCode(err))

	storageErr, ok := AsStorageError(err)
	require.True(t, ok)
	require.EqualValues(t, 7, storageErr.Generation())
	require.EqualValues(t, 128, storageErr.Offset())
	require.Equal(t, "/store/7.log", storageErr.Path())
	require.Equal(t, "append", GetErrorDetails(err)["operation"])
}

func TestClassifyFileOpenErrorPreservesNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")
	_, cause := os.Open(path)
	require.Error(t, cause)

	err := ClassifyFileOpenError(cause, path, "absent.log")
	require.True(t, IsStorageError(err))

	// The engine's read-retry path depends on not-exist surviving the wrap.
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestGetErrorCodeFallsBackToInternal(t *testing.T) {
	require.Equal(t, ErrorCodeInternal, GetErrorCode(stdErrors.New("plain")))
}
