package zstdbench

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Bench runs a whole benchmark: it generates the configured workload,
// sweeps it and reports every record as soon as it is measured.
type Bench struct {
	Config Config

	// Out receives the report.
	Out io.Writer

	Logger  zerolog.Logger
	Metrics *Metrics

	// Clock defaults to SystemClock.
	Clock Clock
}

// Run executes the benchmark and returns the records in sweep order.
//
// Errors returned by Run are fatal: the config is invalid, the workload
// could not be built or the sweep could not start. Per-level failures are
// returned as failed records.
func (b *Bench) Run() ([]Record, error) {
	cfg := b.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := NewCompressor(cfg.Compressor)
	if err != nil {
		return nil, err
	}
	if closer, ok := c.(io.Closer); ok {
		defer closer.Close()
	}

	w, err := Generate(cfg.GenerateParams(b.Logger))
	if err != nil {
		return nil, err
	}

	r := &Runner{
		Compressor:       c,
		Clock:            b.Clock,
		Logger:           b.Logger,
		Metrics:          b.Metrics,
		CheckDeterminism: cfg.CheckDeterminism,
	}
	s := r.Sweep(w, cfg.Levels)
	rep := NewReporter(b.Out, cfg.Format)
	if err := rep.Begin(); err != nil {
		return nil, fmt.Errorf("cannot write report: %w", err)
	}
	records := make([]Record, 0, len(cfg.Levels))
	for s.Next() {
		rec := s.Record()
		records = append(records, rec)
		if err := rep.Add(rec); err != nil {
			return records, fmt.Errorf("cannot write report: %w", err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	err = rep.End(Summary{
		RunID:      s.ID(),
		Compressor: c.Name(),
		Profile:    w.Profile.String(),
		Size:       w.Size(),
		Seed:       w.Seed,
		Source:     w.Source,
	})
	if err != nil {
		return records, fmt.Errorf("cannot write report: %w", err)
	}
	return records, nil
}
