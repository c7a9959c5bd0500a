package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/touchpath/internal/config"
	"github.com/katalvlaran/touchpath/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "touchpath",
		Short: "Multi-touch conversion attribution",
		Long: "touchpath distributes conversions across marketing channels with\n" +
			"first/last touch, linear, Shapley value and Markov removal-effect models.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML configuration file")
	pf.StringSliceVar(&g.envFiles, "env-file", nil, "dotenv files to load (default .env when present)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text, json")

	root.AddCommand(newRunCmd(&g))
	root.AddCommand(newMatrixCmd(&g))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "touchpath", version)
		},
	}
}

// loadConfig layers file, dotenv, environment and changed flags, validates
// the result and configures logging.
func loadConfig(cmd *cobra.Command, g *globalFlags) (config.Config, error) {
	cfg, err := config.Load(g.configPath, g.envFiles...)
	if err != nil {
		return cfg, err
	}
	if err = applyFlags(cmd.Flags(), &cfg); err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return cfg, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	if err = logging.Init(level, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyFlags copies every flag the user set explicitly onto cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "input":
			cfg.Input, err = fs.GetString(f.Name)
		case "sheet":
			cfg.Sheet, err = fs.GetString(f.Name)
		case "header":
			cfg.Header, err = fs.GetBool(f.Name)
		case "methods":
			cfg.Methods, err = fs.GetStringSlice(f.Name)
		case "markov-order":
			cfg.MarkovOrder, err = fs.GetInt(f.Name)
		case "workers":
			cfg.Workers, err = fs.GetInt(f.Name)
		case "proportions":
			cfg.Proportions, err = fs.GetBool(f.Name)
		case "chronological-paths":
			cfg.ChronologicalPaths, err = fs.GetBool(f.Name)
		case "shapley-max-channels":
			cfg.Shapley.MaxChannels, err = fs.GetInt(f.Name)
		case "shapley-samples":
			cfg.Shapley.Samples, err = fs.GetInt(f.Name)
		case "shapley-seed":
			cfg.Shapley.Seed, err = fs.GetInt64(f.Name)
		case "shapley-inherit":
			cfg.Shapley.Inherit, err = fs.GetBool(f.Name)
		case "format":
			cfg.Format, err = fs.GetString(f.Name)
		case "log-level":
			cfg.LogLevel, err = fs.GetString(f.Name)
		case "log-format":
			cfg.LogFormat, err = fs.GetString(f.Name)
		case "metrics-file":
			cfg.MetricsFile, err = fs.GetString(f.Name)
		}
	})
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	return nil
}

// addInputFlags registers the flags shared by commands that read a log.
func addInputFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringP("input", "i", "", "touchpoint file (.csv or .xlsx)")
	fs.String("sheet", "", "XLSX worksheet (default: first)")
	fs.Bool("header", d.Header, "first row is a header")
	fs.Int("markov-order", d.MarkovOrder, "Markov chain order (1-4)")
	fs.StringP("format", "f", d.Format, "output format: ascii, markdown, json")
}
