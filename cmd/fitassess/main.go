// Command fitassess scores a fitness assessment from a camera or a recorded
// landmark stream.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/fitassess/internal/assessment"
	"github.com/ayusman/fitassess/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, envErr := config.FromEnv(config.Default(), os.Getenv)

	root := &cobra.Command{
		Use:   "fitassess",
		Short: "Score squats, push-ups, sit-ups, plank, vertical jump and one-leg stand",
		Long: `fitassess follows body landmarks from a pose model and counts repetitions,
times holds and scores each exercise of a fitness test.

Settings can also be given as FITASSESS_* environment variables.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			slog.SetDefault(config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat))
			return nil
		},
	}

	f := root.PersistentFlags()
	f.Float64Var(&cfg.UserHeightCm, "height-cm", cfg.UserHeightCm, "user height in cm, used by the vertical jump")
	f.StringVarP(&cfg.Exercises, "exercises", "e", cfg.Exercises, `exercise selection such as "1,3,plank:45" (default all six)`)
	f.StringVar(&cfg.ResultsCSV, "results", cfg.ResultsCSV, "CSV file results are appended to; empty disables")
	f.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the history database and plugins")
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "session history database (default <data-dir>/fitassess.db)")
	f.StringVar(&cfg.PluginDir, "plugins", cfg.PluginDir, "exporter plugin directory")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	root.AddCommand(newRunCmd(&cfg), newReplayCmd(&cfg))
	return root
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

func parseSteps(cfg *config.Config) ([]assessment.Step, error) {
	if cfg.Exercises == "" {
		return nil, nil
	}
	steps, err := assessment.ParseSteps(cfg.Exercises)
	if err != nil {
		return nil, fmt.Errorf("exercises: %w", err)
	}
	return steps, nil
}
