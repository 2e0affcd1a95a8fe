package options

const (
	// Specifies the default base directory where flint will store its
	// segment files. If no other directory is specified during
	// initialization, this path will be used.
	DefaultDataDir = "/var/lib/flint"

	// Represents the minimum allowed per-handle reader cache size.
	// Reads touch at most the compaction generation and the active
	// generation in steady state, so anything below two descriptors
	// would thrash.
	MinReaderCacheSize = 2

	// Represents the maximum allowed per-handle reader cache size.
	MaxReaderCacheSize = 4096

	// Specifies the default per-handle reader cache size.
	DefaultReaderCacheSize = 64
)

// Holds the default configuration settings for a flint instance.
var defaultOptions = Options{
	DataDir:         DefaultDataDir,
	ReaderCacheSize: DefaultReaderCacheSize,
}

func NewDefaultOptions() Options {
	return defaultOptions
}
