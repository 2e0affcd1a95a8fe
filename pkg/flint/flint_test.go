package flint_test

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	flinterrors "github.com/iamNilotpal/flint/pkg/errors"
	"github.com/iamNilotpal/flint/pkg/flint"
)

func openStore(t *testing.T, dir string) *flint.Store {
	t.Helper()
	store, err := flint.Open(context.Background(), dir)
	require.NoError(t, err)
	return store
}

// dirSize sums the on-disk bytes of every file under dir.
func dirSize(t *testing.T, dir string) int64 {
	t.Helper()
	var size int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	require.NoError(t, err)
	return size
}

func TestGetStoredValue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Set(ctx, "key1", "value1"))
	require.NoError(t, store.Set(ctx, "key2", "value2"))

	value, found, err := store.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value1", value)

	value, found, err = store.Get(ctx, "key2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value2", value)

	// Observations survive a close and reopen.
	require.NoError(t, store.Close(ctx))
	store = openStore(t, dir)
	defer store.Close(ctx)

	value, found, err = store.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value1", value)

	value, found, err = store.Get(ctx, "key2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value2", value)
}

func TestOverwriteValue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Set(ctx, "key1", "value1"))
	require.NoError(t, store.Set(ctx, "key1", "value2"))

	value, found, err := store.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value2", value)

	require.NoError(t, store.Close(ctx))
	store = openStore(t, dir)
	defer store.Close(ctx)

	value, found, err = store.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value2", value)

	require.NoError(t, store.Set(ctx, "key1", "value3"))
	value, found, err = store.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "value3", value)
}

func TestGetNonExistentValue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Set(ctx, "key1", "value1"))

	_, found, err := store.Get(ctx, "key2")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Close(ctx))
	store = openStore(t, dir)
	defer store.Close(ctx)

	_, found, err = store.Get(ctx, "key2")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRemoveNonExistentKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openStore(t, dir)
	defer store.Close(ctx)

	before := dirSize(t, dir)
	err := store.Remove(ctx, "key1")
	require.Error(t, err)
	require.ErrorIs(t, err, flinterrors.ErrKeyNotFound)
	require.True(t, flinterrors.IsKeyNotFound(err))

	// The failed removal must not have appended anything.
	require.Equal(t, before, dirSize(t, dir))
}

func TestRemoveKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Set(ctx, "key1", "value1"))
	require.NoError(t, store.Remove(ctx, "key1"))

	_, found, err := store.Get(ctx, "key1")
	require.NoError(t, err)
	require.False(t, found)

	// A second removal is the not-found outcome, not a repeat delete.
	require.ErrorIs(t, store.Remove(ctx, "key1"), flinterrors.ErrKeyNotFound)

	require.NoError(t, store.Close(ctx))
	store = openStore(t, dir)
	defer store.Close(ctx)

	_, found, err = store.Get(ctx, "key1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSetAfterRemove(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, t.TempDir())
	defer store.Close(ctx)

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Remove(ctx, "a"))
	require.NoError(t, store.Set(ctx, "a", "2"))

	value, found, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", value)
}

func TestThousandKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openStore(t, dir)
	for i := range 1000 {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("key%d", i), "v"))
	}
	for i := range 1000 {
		value, found, err := store.Get(ctx, fmt.Sprintf("key%d", i))
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "v", value)
	}

	require.NoError(t, store.Close(ctx))
	store = openStore(t, dir)
	defer store.Close(ctx)

	for i := range 1000 {
		value, found, err := store.Get(ctx, fmt.Sprintf("key%d", i))
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "v", value)
	}
}

func TestCompactionReclaimsSpace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := openStore(t, dir)

	curSize := dirSize(t, dir)
	for iter := range 1000 {
		for keyID := range 1000 {
			require.NoError(t, store.Set(ctx, fmt.Sprintf("key%d", keyID), fmt.Sprintf("%d", iter)))
		}

		newSize := dirSize(t, dir)
		if newSize > curSize {
			curSize = newSize
			continue
		}

		// The directory stopped growing between two outer iterations, so a
		// compaction ran. Reopen and verify every key carries the value of
		// the last completed iteration.
		require.NoError(t, store.Close(ctx))
		store = openStore(t, dir)
		defer store.Close(ctx)

		for keyID := range 1000 {
			value, found, err := store.Get(ctx, fmt.Sprintf("key%d", keyID))
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, fmt.Sprintf("%d", iter), value)
		}
		return
	}

	t.Fatal("no compaction detected")
}

func TestConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	const keys, readers, getsPerReader = 10_000, 8, 2_000

	store := openStore(t, t.TempDir())
	defer store.Close(ctx)

	for i := range keys {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i)))
	}

	var group errgroup.Group
	for r := range readers {
		handle := store.Clone()
		seed := int64(r)
		group.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for range getsPerReader {
				id := rng.Intn(keys)
				value, found, err := handle.Get(ctx, fmt.Sprintf("key%d", id))
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("key%d missing", id)
				}
				if want := fmt.Sprintf("value%d", id); value != want {
					return fmt.Errorf("key%d: got %q, want %q", id, value, want)
				}
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
}

func TestConcurrentReadsDuringCompaction(t *testing.T) {
	ctx := context.Background()
	const stableKeys, hotKeys, readers = 100, 64, 4

	store := openStore(t, t.TempDir())
	defer store.Close(ctx)

	for i := range stableKeys {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("stable%d", i), fmt.Sprintf("value%d", i)))
	}
	filler := strings.Repeat("x", 4096)
	for i := range hotKeys {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("hot%d", i), filler))
	}

	var group errgroup.Group
	done := make(chan struct{})

	// One writer churns the hot keys hard enough to cross the compaction
	// threshold several times while the readers run.
	writer := store.Clone()
	group.Go(func() error {
		defer close(done)
		for iter := range 1200 {
			key := fmt.Sprintf("hot%d", iter%hotKeys)
			if err := writer.Set(ctx, key, filler); err != nil {
				return err
			}
		}
		return nil
	})

	for r := range readers {
		handle := store.Clone()
		seed := int64(r + 100)
		group.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-done:
					return nil
				default:
				}

				id := rng.Intn(stableKeys)
				value, found, err := handle.Get(ctx, fmt.Sprintf("stable%d", id))
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("stable%d missing", id)
				}
				if want := fmt.Sprintf("value%d", id); value != want {
					return fmt.Errorf("stable%d: got %q, want %q", id, value, want)
				}

				value, found, err = handle.Get(ctx, fmt.Sprintf("hot%d", rng.Intn(hotKeys)))
				if err != nil {
					return err
				}
				if !found || len(value) != len(filler) {
					return fmt.Errorf("hot key torn or missing (found=%v, len=%d)", found, len(value))
				}
			}
		})
	}
	require.NoError(t, group.Wait())

	// Stable keys are intact after all the churn and compactions.
	for i := range stableKeys {
		value, found, err := store.Get(ctx, fmt.Sprintf("stable%d", i))
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, fmt.Sprintf("value%d", i), value)
	}
}

func TestCloneSharesUnderlyingStore(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, t.TempDir())
	defer store.Close(ctx)

	clone := store.Clone()
	require.NoError(t, store.Set(ctx, "a", "original"))

	value, found, err := clone.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "original", value)

	require.NoError(t, clone.Set(ctx, "b", "clone"))
	value, found, err = store.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "clone", value)

	require.NoError(t, clone.Remove(ctx, "a"))
	_, found, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestCancelledContext(t *testing.T) {
	store := openStore(t, t.TempDir())
	defer store.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Set(ctx, "a", "1"), context.Canceled)
	_, _, err := store.Get(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Remove(ctx, "a"), context.Canceled)
}
