package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/valyala/zstdbench"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zstdbench",
		Short:         "Sweep a compressor across effort levels on engineered workloads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newRunCmd(),
		newPresetsCmd(),
		newCompressorsCmd(),
		newLevelsCmd(),
	)
	return rootCmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := newTableWriter(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Preset", "Profile", "Size", "Levels", "Input"})
			for _, name := range zstdbench.Presets() {
				cfg, err := zstdbench.PresetConfig(name)
				if err != nil {
					return err
				}
				size := ""
				if cfg.Profile != zstdbench.ProfileExternal {
					size = cfg.Size.String()
				}
				tw.AppendRow(table.Row{name, cfg.Profile, size, cfg.Levels.String(), cfg.Input})
			}
			tw.Render()
			return nil
		},
	}
}

func newCompressorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compressors",
		Short: "List the available compressors and their level ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := newTableWriter(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Compressor", "Min level", "Max level"})
			for _, name := range zstdbench.Compressors() {
				c, err := zstdbench.NewCompressor(name)
				if err != nil {
					return fmt.Errorf("cannot create compressor %q: %w", name, err)
				}
				lo, hi := c.LevelRange()
				tw.AppendRow(table.Row{name, lo, hi})
			}
			tw.Render()
			return nil
		},
	}
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the zstd parameters behind each level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := newTableWriter(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Level", "Strategy", "Window", "Chain log", "Hash log", "Search log", "Min match", "Target len"})
			for level := 1; level <= zstdbench.MaxCLevel; level++ {
				cp, err := zstdbench.LevelParams(level)
				if err != nil {
					return err
				}
				tw.AppendRow(table.Row{
					level,
					cp.Strategy,
					zstdbench.ByteSize(cp.WindowSize()),
					cp.ChainLog,
					cp.HashLog,
					cp.SearchLog,
					cp.MinMatch,
					cp.TargetLength,
				})
			}
			tw.Render()
			return nil
		},
	}
}

// newTableWriter returns a table rendering to w with headers as written.
func newTableWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	return tw
}
