package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/touchpath/internal/config"
	"github.com/katalvlaran/touchpath/internal/report"
	"github.com/katalvlaran/touchpath/markov"
	"github.com/katalvlaran/touchpath/paths"
)

func newMatrixCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix [file]",
		Short: "Print the Markov transition matrix and its conversion rate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input = args[0]
			}

			return printMatrix(cmd, cfg)
		},
	}
	addInputFlags(cmd.Flags())

	return cmd
}

func printMatrix(cmd *cobra.Command, cfg config.Config) error {
	tbl, err := readInput(cfg)
	if err != nil {
		return err
	}
	tm, err := markov.Build(paths.Markov(tbl), cfg.MarkovOrder)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err = report.RenderMatrix(out, tm, cfg.Format); err != nil {
		return err
	}
	if cfg.Format == report.JSON {
		return nil
	}
	rate, err := tm.ConversionRate()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "conversion rate from %s: %.4f\n", markov.Start, rate)

	return nil
}
