// Package main provides the crosstest CLI: it runs every word of a
// corpus as a query against the rest of the corpus and checks the
// automaton search against the reference distance, recording the
// results to a golden TSV on the first run and verifying against it on
// later runs.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"GoFuzzyDict/internal/harness"
	"GoFuzzyDict/internal/leven"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const envPrefix = "CROSSTEST"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "FAIL")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "crosstest [flags] input",
		Short: "Cross-validate approximate dictionary search against a corpus",
		Long: `crosstest builds a dictionary from the input file, runs every word as a
query and compares the automaton search against the dynamic-programming
reference. Results go to a TSV golden file; when the file already exists
the run verifies against it instead.`,
		Args:          cobra.ExactArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, args[0])
		},
	}

	cmd.Flags().IntP("tolerance", "t", 1, "maximum edit distance")
	cmd.Flags().StringP("result", "r", "result.tsv", "golden TSV path")
	cmd.Flags().BoolP("single-dict", "s", false, "build the dictionary once, query words included")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

func run(v *viper.Viper, input string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(v.GetString("log-level")),
	}))
	slog.SetDefault(logger)

	tolerance := v.GetInt("tolerance")
	if tolerance <= 0 {
		return errors.New("tolerance must be positive")
	}
	if tolerance > leven.MaxTolerance {
		return leven.ErrToleranceTooBig
	}

	cfg := harness.Config{
		Input:      input,
		Result:     v.GetString("result"),
		Tolerance:  tolerance,
		SingleDict: v.GetBool("single-dict"),
	}
	logger.Info("starting crosstest",
		"version", Version,
		"input", cfg.Input,
		"result", cfg.Result,
		"tolerance", cfg.Tolerance,
		"single_dict", cfg.SingleDict,
	)

	if err := harness.New(cfg, logger).Run(); err != nil {
		return err
	}
	color.New(color.FgGreen, color.Bold).Fprintln(os.Stderr, "PASS")
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
