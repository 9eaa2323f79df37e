package cmd

import (
	"fmt"
	"os"

	"github.com/grvbrk/vidplay/internal/config"
	"github.com/grvbrk/vidplay/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "vidplay",
	Short: "vidplay serves a video catalogue with playlists and sequential playback.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the process-wide logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	})
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)

	return cfg, log, nil
}
