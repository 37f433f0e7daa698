package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/systolic/hw"
)

var rootCmd = &cobra.Command{
	Use:   "wssim",
	Short: "wssim simulates a weight-stationary systolic array cycle by cycle.",
	Long: `wssim simulates a weight-stationary systolic array cycle by cycle. ` +
		`It feeds a convolution layer through the array, checks the output ` +
		`against a reference convolution, and reports the counted events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		asJSON, _ := cmd.Flags().GetBool("log-json")

		return setupLogging(level, asJSON)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn",
		"minimum log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false,
		"write logs as JSON instead of text")
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return hw.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Errorf("unknown log level %q", s)
	}
}

func setupLogging(level string, asJSON bool) error {
	l, err := parseLevel(level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: l}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(h))

	return nil
}
