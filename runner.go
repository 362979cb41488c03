package zstdbench

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Runner measures a workload across a list of levels, one level at a time.
type Runner struct {
	Compressor Compressor

	// Clock defaults to SystemClock.
	Clock Clock

	// Logger defaults to a disabled logger.
	Logger zerolog.Logger

	// Metrics, if set, is updated with every record.
	Metrics *Metrics

	// CheckDeterminism compresses each level a second time, untimed, and
	// fails the record with ErrNondeterministic when the sizes differ.
	CheckDeterminism bool
}

// Sweep is a lazy, single-use sequence of records.
//
// Usage:
//
//	s := r.Sweep(w, levels)
//	for s.Next() {
//	    rec := s.Record()
//	    ...
//	}
//	if err := s.Err(); err != nil {
//	    ...
//	}
type Sweep struct {
	r      *Runner
	w      *Workload
	levels []int
	id     string
	log    zerolog.Logger

	dst     []byte
	next    int
	rec     Record
	err     error
	started bool
	done    bool
}

// Sweep returns a sweep measuring w at each of levels in order.
//
// Nothing is allocated or measured until the first Next call.
func (r *Runner) Sweep(w *Workload, levels []int) *Sweep {
	id := uuid.NewString()
	return &Sweep{
		r:      r,
		w:      w,
		levels: levels,
		id:     id,
		log: r.Logger.With().
			Str("run", id).
			Str("compressor", r.Compressor.Name()).
			Str("profile", w.Profile.String()).
			Logger(),
	}
}

// ID identifies the sweep in logs and reports.
func (s *Sweep) ID() string {
	return s.id
}

// Next measures the next level. It returns false when all the levels are
// measured or the sweep could not start; check Err in that case.
//
// Once Next returns false the sweep is over and cannot be restarted.
func (s *Sweep) Next() bool {
	if s.done {
		return false
	}
	if !s.started {
		s.started = true
		if err := s.start(); err != nil {
			s.err = err
			s.done = true
			return false
		}
	}
	if s.next >= len(s.levels) {
		s.finish()
		return false
	}

	level := s.levels[s.next]
	s.next++
	s.rec = s.measure(level)
	return true
}

// Record returns the record produced by the last successful Next call.
func (s *Sweep) Record() Record {
	return s.rec
}

// Err returns the error that prevented the sweep from starting.
//
// Per-level failures are reported on records, not here.
func (s *Sweep) Err() error {
	return s.err
}

func (s *Sweep) start() error {
	size := s.w.Size()
	if size == 0 {
		return ErrInvalidSize
	}
	bound := s.r.Compressor.CompressBound(size)
	if bound <= 0 || int64(bound) > 2*MaxWorkloadSize {
		return &AllocationError{What: "destination buffer", Size: int64(bound)}
	}
	s.dst = getDstBuf(bound)
	s.log.Info().
		Int("size", size).
		Int("dstCapacity", bound).
		Ints("levels", s.levels).
		Msg("starting sweep")
	return nil
}

func (s *Sweep) finish() {
	s.done = true
	putDstBuf(s.dst)
	s.dst = nil
	s.log.Info().Int("measured", s.next).Msg("sweep complete")
}

func (s *Sweep) measure(level int) Record {
	rec := MeasureLevel(s.r.Compressor, s.w, s.dst, level, s.r.Clock)
	if !rec.Failed() && s.r.CheckDeterminism {
		n, err := s.r.Compressor.Compress(s.dst, s.w.Data, level)
		switch {
		case err != nil:
			rec.Err = asLevelError(level, err)
		case n != rec.CompressedSize:
			rec.Err = &LevelError{
				Level: level,
				Name:  ErrNondeterministic.Error(),
				Err:   fmt.Errorf("%w: %d vs %d bytes", ErrNondeterministic, rec.CompressedSize, n),
			}
		}
	}

	if rec.Failed() {
		s.log.Warn().Int("level", level).Err(rec.Err).Msg("level failed")
	} else {
		s.log.Debug().
			Int("level", level).
			Dur("elapsed", rec.Elapsed).
			Int("compressedSize", rec.CompressedSize).
			Float64("ratio", rec.Ratio()).
			Msg("level measured")
	}
	if s.r.Metrics != nil {
		s.r.Metrics.Observe(s.r.Compressor.Name(), s.w.Profile, rec)
	}
	return rec
}

// Run measures w at every level and returns all the records.
func (r *Runner) Run(w *Workload, levels []int) ([]Record, error) {
	s := r.Sweep(w, levels)
	records := make([]Record, 0, len(levels))
	for s.Next() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
