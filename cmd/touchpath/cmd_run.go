package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/touchpath/attribution"
	"github.com/katalvlaran/touchpath/heuristic"
	"github.com/katalvlaran/touchpath/internal/config"
	"github.com/katalvlaran/touchpath/internal/ingest"
	"github.com/katalvlaran/touchpath/internal/logging"
	"github.com/katalvlaran/touchpath/internal/report"
	"github.com/katalvlaran/touchpath/markov"
	"github.com/katalvlaran/touchpath/shapley"
	"github.com/katalvlaran/touchpath/timing"
	"github.com/katalvlaran/touchpath/touchpoint"
)

var errNoInput = errors.New("no input file: use --input, TOUCHPATH_INPUT or a positional argument")

func newRunCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Attribute conversions with every configured method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input = args[0]
			}

			return runAttribution(cmd, cfg)
		},
	}

	d := config.Default()
	f := cmd.Flags()
	addInputFlags(f)
	f.StringSlice("methods", d.Methods, "methods to run")
	f.Int("workers", d.Workers, "goroutines for Shapley and Markov")
	f.Bool("proportions", false, "Markov: report shares instead of conversions")
	f.Bool("chronological-paths", false, "heuristics: credit journeys in touch order instead of sorted channel sets")
	f.Int("shapley-max-channels", d.Shapley.MaxChannels, "largest universe for exact Shapley")
	f.Int("shapley-samples", 0, "Monte-Carlo orderings for Shapley (0 = exact)")
	f.Int64("shapley-seed", 0, "seed for Monte-Carlo Shapley")
	f.Bool("shapley-inherit", false, "coalitions inherit the value of their subsets")
	f.String("metrics-file", "", "write phase timings in Prometheus text format to this file")

	return cmd
}

func runAttribution(cmd *cobra.Command, cfg config.Config) error {
	log := logging.New("cli")
	tbl, err := readInput(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rec, err := timing.NewRecorder(logging.New("timing"), reg)
	if err != nil {
		return err
	}

	m, err := attribution.New(tbl, modelOptions(cfg, rec)...)
	if err != nil {
		return err
	}
	methods, err := attribution.ParseMethods(cfg.Methods)
	if err != nil {
		return err
	}

	rep, runErr := m.Run(cmd.Context(), methods...)
	if rep == nil {
		return runErr
	}
	if err = report.Render(cmd.OutOrStdout(), rep, cfg.Format); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err = prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info("metrics written", slog.String("path", cfg.MetricsFile))
	}

	return runErr
}

func readInput(cfg config.Config) (*touchpoint.Table, error) {
	if cfg.Input == "" {
		return nil, errNoInput
	}

	return ingest.ReadFile(cfg.Input, ingest.Options{Sheet: cfg.Sheet, Header: cfg.Header})
}

func modelOptions(cfg config.Config, rec *timing.Recorder) []attribution.Option {
	opts := []attribution.Option{
		attribution.WithLogger(logging.New("attribution")),
		attribution.WithRecorder(rec),
		attribution.WithWorkers(cfg.Workers),
		attribution.WithMarkovOrder(cfg.MarkovOrder),
		attribution.WithShapleyOptions(shapley.WithMaxExactChannels(cfg.Shapley.MaxChannels)),
	}
	if cfg.Shapley.Samples > 0 {
		opts = append(opts, attribution.WithShapleyOptions(shapley.WithSampling(cfg.Shapley.Samples, cfg.Shapley.Seed)))
	}
	if cfg.Shapley.Inherit {
		opts = append(opts, attribution.WithShapleyOptions(shapley.WithInheritedValues()))
	}
	if cfg.Proportions {
		opts = append(opts, attribution.WithMarkovOptions(markov.WithProportions()))
	}
	if cfg.ChronologicalPaths {
		opts = append(opts, attribution.WithHeuristicOptions(heuristic.WithChronologicalPaths()))
	}

	return opts
}
