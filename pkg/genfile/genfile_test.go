package genfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameAndPath(t *testing.T) {
	require.Equal(t, "7.log", Name(7))
	require.Equal(t, filepath.Join("store", "42.log"), Path("store", 42))
}

func TestParse(t *testing.T) {
	gen, ok := Parse("10.log")
	require.True(t, ok)
	require.EqualValues(t, 10, gen)

	gen, ok = Parse(filepath.Join("some", "dir", "3.log"))
	require.True(t, ok)
	require.EqualValues(t, 3, gen)

	for _, name := range []string{"engine", "abc.log", "10.log.bak", "10", ".log", "-1.log"} {
		_, ok := Parse(name)
		require.False(t, ok, "expected %q to be rejected", name)
	}
}

func TestListSortedWithGapsAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"5.log", "1.log", "12.log", "engine", "notes.txt", "x.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	gens, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 5, 12}, gens)
}

func TestListEmptyDir(t *testing.T) {
	gens, err := List(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, gens)
}
