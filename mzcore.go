// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/524D/mzcore/internal/cache"
	"github.com/524D/mzcore/internal/config"
	"github.com/524D/mzcore/internal/source"
)

// Program name and version
const progName = "mzcore"

var progVersion = `Unknown`

// options shared by all commands
type options struct {
	configFile string
	logLevel   string
	json       bool
	stats      bool

	logger   *slog.Logger
	cacheOps []cache.Option
	registry *prometheus.Registry
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     progName,
		Short:   "Inspect mass spectrometry data files",
		Long:    `Read mzML, PRIDE XML and mzIdentML files and report spectra and protein identifications.`,
		Version: progVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(stderr)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeStats(stderr)
		},
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "YAML configuration `file`")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the configuration")
	f.BoolVar(&opts.json, "json", false, "write JSON instead of text")
	f.BoolVar(&opts.stats, "stats", false, "write cache statistics to stderr when done")

	cmd.AddCommand(
		newSummaryCommand(opts),
		newSpectrumCommand(opts),
		newProteinCommand(opts),
	)
	return cmd
}

func (o *options) setup(stderr io.Writer) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	o.logger, err = cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	descriptors, err := cfg.Cache.Descriptors()
	if err != nil {
		return err
	}
	o.cacheOps = append(o.cacheOps, cache.WithDescriptors(descriptors))
	if o.stats {
		o.registry = prometheus.NewRegistry()
		m, err := cache.NewMetrics(o.registry)
		if err != nil {
			return err
		}
		o.cacheOps = append(o.cacheOps, cache.WithMetrics(m))
	}
	return nil
}

func (o *options) open(path string) (*source.Source, error) {
	return source.Open(path, source.WithLogger(o.logger), source.WithCacheOptions(o.cacheOps...))
}

// writeStats prints the cache counters that are not zero.
func (o *options) writeStats(w io.Writer) error {
	if o.registry == nil {
		return nil
	}
	families, err := o.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := ""
			for _, l := range m.GetLabel() {
				label = l.GetValue()
			}
			if v := m.GetCounter().GetValue(); v != 0 {
				fmt.Fprintf(w, "%s{category=%q} %g\n", mf.GetName(), label, v)
			}
		}
	}
	return nil
}

func (o *options) write(w io.Writer, v any, text func()) error {
	if o.json {
		return writeJSON(w, v)
	}
	text()
	return nil
}

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Describe the content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()
			r, err := newSummaryReport(src)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return opts.write(w, r, func() { writeSummaryText(w, r) })
		},
	}
}

func newSpectrumCommand(opts *options) *cobra.Command {
	var (
		indexRange string
		mzRange    string
		peaks      bool
	)
	cmd := &cobra.Command{
		Use:   "spectrum <file> [id...]",
		Short: "Report spectra",
		Long: `Report spectra by id, or all spectra in the index range.
Indices start at 0.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mzMin, mzMax, err := parseFloat64Range(mzRange, 0, math.MaxFloat64)
			if err != nil {
				return fmt.Errorf("--mz: %w", err)
			}
			src, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			ids := args[1:]
			if len(ids) == 0 {
				all := src.SpectrumIDs()
				if len(all) == 0 {
					return fmt.Errorf("%s holds no spectra", args[0])
				}
				first, last, err := parseIntRange(indexRange, 0, len(all)-1)
				if err != nil {
					return fmt.Errorf("--index: %w", err)
				}
				ids = all[first : last+1]
			}

			reports := make([]spectrumReport, 0, len(ids))
			for _, id := range ids {
				r, err := newSpectrumReport(src, id, mzMin, mzMax, peaks)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			}
			w := cmd.OutOrStdout()
			return opts.write(w, reports, func() {
				for _, r := range reports {
					writeSpectrumText(w, r)
				}
			})
		},
	}
	cmd.Flags().StringVar(&indexRange, "index", "", "`range` of spectrum indices (e.g. 1000:2000). Default is all spectra")
	cmd.Flags().StringVar(&mzRange, "mz", "", "m/z `range` of the peaks to include")
	cmd.Flags().BoolVar(&peaks, "peaks", false, "list the peaks")
	return cmd
}

func newProteinCommand(opts *options) *cobra.Command {
	var minPeptides int
	cmd := &cobra.Command{
		Use:   "protein <file> [id...]",
		Short: "Report protein identifications",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			ids := args[1:]
			if len(ids) == 0 {
				ids = src.IdentificationIDs()
			}
			reports := make([]proteinReport, 0, len(ids))
			for _, id := range ids {
				r, err := newProteinReport(src, id)
				if err != nil {
					return err
				}
				if r.Peptides < minPeptides {
					continue
				}
				reports = append(reports, r)
			}
			w := cmd.OutOrStdout()
			return opts.write(w, reports, func() {
				for _, r := range reports {
					writeProteinText(w, r)
				}
			})
		},
	}
	cmd.Flags().IntVar(&minPeptides, "min-peptides", 0, "only report proteins with at least this many peptides")
	return cmd
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
