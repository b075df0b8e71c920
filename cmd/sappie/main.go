// Command sappie runs the Sappie persona bot and its maintenance commands.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/logger"

	_ "time/tzdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sappie",
		Short:         "Sappie, the sacred tree of the timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "./config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newPostCmd(opts),
		newNextCmd(opts),
		newScheduleCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// load reads the config and installs the configured logger as the default.
func (o *options) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath, o.envFiles...)
	if err != nil {
		slog.Error("Failed to load configuration", "path", o.configPath, "error", err)
		return nil, nil, err
	}
	log := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	return cfg, log, nil
}

func require(checks ...func() error) error {
	var errs []error
	for _, check := range checks {
		errs = append(errs, check())
	}
	return errors.Join(errs...)
}
