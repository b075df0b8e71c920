package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sacredtrees/sappie/internal/bot"
	"github.com/sacredtrees/sappie/internal/bot/handlers"
	"github.com/sacredtrees/sappie/internal/bot/tasks"
	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/groups"
	"github.com/sacredtrees/sappie/internal/telegram"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the sacred-time scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := require(cfg.RequireTelegram, cfg.RequireGemini); err != nil {
				log.Error("Missing credentials", "error", err)
				return err
			}
			if err := serve(cmd.Context(), cfg, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Bot stopped due to error", "error", err)
				return err
			}
			log.Info("Bot stopped gracefully")
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	svc, err := newServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	tracker := groups.NewTracker(cfg.Groups, nil)
	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Gemini:  svc.gemini,
		Persona: svc.persona,
		Poster:  svc.poster,
		Groups:  tracker,
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, handlers.NewMentionHandler(hDeps))
	if err != nil {
		return err
	}
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps))

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		Store:   svc.store,
		Gemini:  svc.gemini,
		Persona: svc.persona,
		Poster:  svc.poster,
		Groups:  tracker,
		Sender:  tg,
	})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, cfg.Sacred.Location, taskMap)
	if err != nil {
		return err
	}

	mark, day := nextMark(cfg)
	log.Info("Starting Sappie", "next_sacred_time", mark.String(), "day", day, "marks", len(cfg.Sacred.Marks))
	return bot.NewBot(log, tg, sched).Run(ctx)
}
