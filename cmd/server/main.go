package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fairway",
		Short:         "Golf MBTI quiz and hotel reservation server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCardCmd(), newScoreCmd())
	return root
}

// loadRuntime reads configuration and builds the process logger shared by every command.
func loadRuntime() (config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(logger.Options{
		Mode:   cfg.Log.Mode,
		Level:  cfg.Log.Level,
		Redact: cfg.Log.Redact,
		Salt:   cfg.Log.Salt,
	})
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
