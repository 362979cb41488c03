package zstdbench

import (
	"errors"
	"math"
	"time"
)

// MB is the unit used for reported sizes and speeds.
const MB = 1 << 20

// Record is the outcome of compressing a workload once at one level.
type Record struct {
	Level int

	// Elapsed covers the compress call only.
	Elapsed time.Duration

	// CompressedSize is zero when Err is set.
	CompressedSize int

	// SourceSize is the workload size.
	SourceSize int

	// Err is the per-level failure, if any. Usually *LevelError.
	Err error
}

// Failed reports whether the level could not be measured.
func (r *Record) Failed() bool {
	return r.Err != nil
}

// ErrorName returns the compressor-supplied diagnostic for a failed record.
func (r *Record) ErrorName() string {
	if r.Err == nil {
		return ""
	}
	var le *LevelError
	if errors.As(r.Err, &le) {
		return le.Name
	}
	return r.Err.Error()
}

// Seconds returns the elapsed time in seconds.
func (r *Record) Seconds() float64 {
	return r.Elapsed.Seconds()
}

// Speed returns the compression speed in MB/s.
//
// It returns +Inf when the elapsed time is below clock resolution and
// zero for failed records.
func (r *Record) Speed() float64 {
	if r.Failed() {
		return 0
	}
	secs := r.Seconds()
	if secs <= 0 {
		return math.Inf(1)
	}
	return float64(r.SourceSize) / MB / secs
}

// Ratio returns SourceSize / CompressedSize, or zero for failed records.
func (r *Record) Ratio() float64 {
	if r.Failed() || r.CompressedSize == 0 {
		return 0
	}
	return float64(r.SourceSize) / float64(r.CompressedSize)
}

// CompressedMB returns the compressed size in MB.
func (r *Record) CompressedMB() float64 {
	return float64(r.CompressedSize) / MB
}

// MeasureLevel compresses w once at level into dst and returns the record.
//
// Only the Compress call is timed. Per-level preparation and dst sizing
// happen before the clock starts. dst must hold c.CompressBound(w.Size())
// bytes; it is overwritten.
func MeasureLevel(c Compressor, w *Workload, dst []byte, level int, clock Clock) Record {
	if clock == nil {
		clock = SystemClock{}
	}
	rec := Record{
		Level:      level,
		SourceSize: w.Size(),
	}
	if p, ok := c.(Preparer); ok {
		if err := p.Prepare(level, w.Size()); err != nil {
			rec.Err = asLevelError(level, err)
			return rec
		}
	}

	start := clock.Now()
	n, err := c.Compress(dst, w.Data, level)
	end := clock.Now()

	rec.Elapsed = elapsed(start, end)
	if err != nil {
		rec.Err = asLevelError(level, err)
		return rec
	}
	rec.CompressedSize = n
	return rec
}
