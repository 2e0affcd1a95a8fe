// Package genfile manages the naming convention for segment files.
//
// Filename Format: <gen>.log
//
// Where <gen> is a nonnegative decimal integer naming the segment's
// generation. Generations are strictly monotonic within a store directory;
// gaps are permitted because compaction skips numbers by design. There is no
// prefix, header or magic number: the name carries all the metadata a
// segment file has.
package genfile

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/iamNilotpal/flint/pkg/filesys"
)

// Ext is the file extension shared by every segment file.
const Ext = ".log"

// Name formats the filename for the given generation.
func Name(gen uint64) string {
	return strconv.FormatUint(gen, 10) + Ext
}

// Path joins the store directory with the generation's filename.
func Path(dir string, gen uint64) string {
	return filepath.Join(dir, Name(gen))
}

// Parse extracts the generation from a segment filename. The second return
// is false for names that are not of the form <int>.log; callers skip those,
// which keeps foreign files in the store directory (such as the ancillary
// "engine" marker a server may write) from confusing recovery.
func Parse(name string) (uint64, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, Ext) {
		return 0, false
	}

	gen, err := strconv.ParseUint(strings.TrimSuffix(base, Ext), 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// List enumerates the generations present in the store directory, sorted
// ascending. Recovery replays segments in exactly this order so later
// records supersede earlier ones.
func List(dir string) ([]uint64, error) {
	files, err := filesys.ReadDir(filepath.Join(dir, "*"+Ext))
	if err != nil {
		return nil, err
	}

	gens := make([]uint64, 0, len(files))
	for _, file := range files {
		if gen, ok := Parse(file); ok {
			gens = append(gens, gen)
		}
	}

	slices.Sort(gens)
	return gens, nil
}
