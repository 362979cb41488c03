package zstdbench

import (
	"fmt"
	"sort"
	"sync"
)

// Compressor is a block compression engine measured by the sweep.
//
// Compress writes the compressed form of src into dst and returns its
// length. dst must have at least CompressBound(len(src)) bytes. Levels
// outside LevelRange must be reported as *LevelError, never clamped.
type Compressor interface {
	Name() string
	LevelRange() (min, max int)
	CompressBound(srcSize int) int
	Compress(dst, src []byte, level int) (int, error)
}

// Preparer is implemented by compressors that build per-level state.
//
// Prepare is called with the level and source size before the timed
// region of a measurement, so state construction is not counted as
// compression time.
type Preparer interface {
	Prepare(level, srcSize int) error
}

// DefaultCompressor is the backend used when none is configured.
const DefaultCompressor = "zstd"

var (
	compressorsLock sync.Mutex
	compressors     = make(map[string]func() (Compressor, error))
)

// RegisterCompressor makes a backend available to NewCompressor.
//
// It panics if name is already registered.
func RegisterCompressor(name string, newFunc func() (Compressor, error)) {
	compressorsLock.Lock()
	defer compressorsLock.Unlock()
	if _, ok := compressors[name]; ok {
		panic(fmt.Errorf("BUG: compressor %q is already registered", name))
	}
	compressors[name] = newFunc
}

// NewCompressor returns a new instance of the named backend.
func NewCompressor(name string) (Compressor, error) {
	if name == "" {
		name = DefaultCompressor
	}
	compressorsLock.Lock()
	newFunc := compressors[name]
	compressorsLock.Unlock()
	if newFunc == nil {
		return nil, fmt.Errorf("unknown compressor %q; available: %v", name, Compressors())
	}
	return newFunc()
}

// Compressors returns the sorted names of the registered backends.
func Compressors() []string {
	compressorsLock.Lock()
	defer compressorsLock.Unlock()
	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkLevel returns *LevelError when level is outside c's range.
func checkLevel(c Compressor, level int) error {
	lo, hi := c.LevelRange()
	if level < lo || level > hi {
		return levelOutOfRange(level, lo, hi)
	}
	return nil
}

// zstdCompressBound mirrors ZSTD_COMPRESSBOUND from zstd.h.
func zstdCompressBound(srcSize int) int {
	const smallLimit = 128 << 10
	bound := srcSize + srcSize>>8
	if srcSize < smallLimit {
		bound += (smallLimit - srcSize) >> 11
	}
	return bound
}
