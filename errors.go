package zstdbench

import (
	"errors"
	"fmt"
)

// Error names reported by compressors. They match the strings returned
// by ZSTD_getErrorName, so rows look the same for every backend.
const (
	errNameParameterOutOfBound = "Parameter is out of bound"
	errNameDstSizeTooSmall     = "Destination buffer is too small"
	errNameGeneric             = "Error (generic)"
)

var (
	// ErrInvalidSize is returned when a synthetic workload is requested with a non-positive size.
	ErrInvalidSize = errors.New("workload size must be positive")

	// ErrNondeterministic marks a record whose level produced different
	// compressed sizes on two runs over the same input.
	ErrNondeterministic = errors.New("compressed size differs between identical runs")
)

// AllocationError is returned when a working buffer cannot be sized or allocated.
//
// It is fatal: nothing is measured after it.
type AllocationError struct {
	What string
	Size int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("cannot allocate %s of %d bytes", e.What, e.Size)
}

// IOError is returned when the external workload source cannot be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read workload from %q: %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// LevelError is a per-level compression failure.
//
// Name holds the compressor-supplied diagnostic.
type LevelError struct {
	Level int
	Name  string
	Err   error
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("level %d: %s", e.Level, e.Name)
}

func (e *LevelError) Unwrap() error {
	return e.Err
}

func levelOutOfRange(level, min, max int) *LevelError {
	return &LevelError{
		Level: level,
		Name:  errNameParameterOutOfBound,
		Err:   fmt.Errorf("level %d outside supported range [%d, %d]", level, min, max),
	}
}

func dstTooSmall(level, have, want int) *LevelError {
	return &LevelError{
		Level: level,
		Name:  errNameDstSizeTooSmall,
		Err:   fmt.Errorf("dst capacity %d is smaller than bound %d", have, want),
	}
}

// asLevelError wraps err into *LevelError unless it already is one.
func asLevelError(level int, err error) *LevelError {
	var le *LevelError
	if errors.As(err, &le) {
		return le
	}
	return &LevelError{
		Level: level,
		Name:  errNameGeneric,
		Err:   err,
	}
}
