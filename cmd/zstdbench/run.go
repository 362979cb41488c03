package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/valyala/zstdbench"
)

type runOptions struct {
	configFile       string
	preset           string
	profile          string
	size             string
	levels           string
	seed             int64
	input            string
	compressor       string
	format           string
	checkDeterminism bool
	metricsAddr      string
	logLevel         string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a workload and sweep it across levels",
		Example: `  zstdbench run --preset gradient
  zstdbench run --profile mixed --size 64MiB --levels 1-19
  zstdbench run --profile external --input File.wav --levels 1,3,5,7,10,15,19 --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(os.Stderr, opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return runBench(cmd, cfg, opts.metricsAddr, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to YAML configuration file")
	flags.StringVar(&opts.preset, "preset", zstdbench.DefaultPreset, fmt.Sprintf("Preset to start from %v", zstdbench.Presets()))
	flags.StringVar(&opts.profile, "profile", "", "Workload profile: mixed, gradient, external or interleaved")
	flags.StringVar(&opts.size, "size", "", "Workload size, e.g. 1GiB or 1048576 (synthetic profiles only)")
	flags.StringVar(&opts.levels, "levels", "", "Levels to sweep, e.g. 1-19 or 1,3,5")
	flags.Int64Var(&opts.seed, "seed", 1, "Seed for the synthetic filler")
	flags.StringVarP(&opts.input, "input", "i", "", "Input file for the external profile")
	flags.StringVar(&opts.compressor, "compressor", zstdbench.DefaultCompressor, fmt.Sprintf("Compressor %v", zstdbench.Compressors()))
	flags.StringVarP(&opts.format, "format", "o", "text", "Report format: text, table or json")
	flags.BoolVar(&opts.checkDeterminism, "check-determinism", true, "Compress each level twice and fail levels whose sizes differ")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the sweep")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return cmd
}

// config builds the run config: preset or config file first, then the
// flags the user set explicitly.
func (opts *runOptions) config(cmd *cobra.Command) (zstdbench.Config, error) {
	var cfg zstdbench.Config
	var err error
	if opts.configFile != "" {
		cfg, err = zstdbench.LoadConfig(opts.configFile)
	} else {
		cfg, err = zstdbench.PresetConfig(opts.preset)
	}
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("preset") && opts.configFile != "" {
		return cfg, errors.New("--preset and --config are mutually exclusive")
	}
	if flags.Changed("profile") {
		if cfg.Profile, err = zstdbench.ParseProfile(opts.profile); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("size") {
		if cfg.Size, err = zstdbench.ParseByteSize(opts.size); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("levels") {
		if cfg.Levels, err = zstdbench.ParseLevels(opts.levels); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("input") {
		cfg.Input = opts.input
	}
	if flags.Changed("compressor") || cfg.Compressor == "" {
		cfg.Compressor = opts.compressor
	}
	if flags.Changed("format") {
		if cfg.Format, err = zstdbench.ParseFormat(opts.format); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("check-determinism") {
		cfg.CheckDeterminism = opts.checkDeterminism
	}
	return cfg, cfg.Validate()
}

func runBench(cmd *cobra.Command, cfg zstdbench.Config, metricsAddr string, log zerolog.Logger) error {
	var metrics *zstdbench.Metrics
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		m, err := zstdbench.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("cannot register metrics: %w", err)
		}
		metrics = m
		stop := serveMetrics(metricsAddr, reg, log)
		defer stop()
	}

	b := &zstdbench.Bench{
		Config:  cfg,
		Out:     cmd.OutOrStdout(),
		Logger:  log,
		Metrics: metrics,
	}
	records, err := b.Run()
	if err != nil {
		return err
	}

	failed := 0
	for _, rec := range records {
		if rec.Failed() {
			failed++
		}
	}
	log.Info().
		Int("levels", len(records)).
		Int("failed", failed).
		Msg("test complete")
	return nil
}

// serveMetrics serves reg on addr until the returned stop func is called.
func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("cannot shut down metrics server")
		}
	}
}
