package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bootclock/config"
	"bootclock/core"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func newRootCmd() *cobra.Command {
	var (
		jsonLogs bool
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:          "clockctl",
		Short:        "Boot-time clocksource tool",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			setupLogging(cmd, jsonLogs, lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Output logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newHzToMultCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// setupLogging points the package logger at the command's error stream
// and routes clock diagnostics through it.
func setupLogging(cmd *cobra.Command, jsonLogs bool, lvl zerolog.Level) {
	out := cmd.ErrOrStderr()
	if jsonLogs {
		logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
			Level(lvl).With().Timestamp().Logger()
	}

	core.SetDebugEnabled(lvl <= zerolog.DebugLevel)
	core.SetDebugWriter(clockLogWriter)
}

// clockLogWriter receives the clock's own messages. Warnings are always
// emitted by the clock, debug lines only when debug output is enabled.
func clockLogWriter(msg string) {
	if strings.HasPrefix(msg, "Warning:") || strings.Contains(msg, "failed") {
		logger.Warn().Str("component", "clock").Msg(msg)
		return
	}
	logger.Debug().Str("component", "clock").Msg(msg)
}

// loadBoard reads the board config at path, or the host default when
// path is empty.
func loadBoard(path string) (*config.BoardConfig, error) {
	if path == "" {
		return config.DefaultHostConfig(), nil
	}
	return config.LoadFile(path)
}
