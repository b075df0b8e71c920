package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sacredtrees/sappie/internal/bot/handlers"
	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/poster"
	"github.com/sacredtrees/sappie/internal/sacredtime"
)

func nextMark(cfg *config.Config) (sacredtime.Mark, string) {
	mark, day := sacredtime.NextMark(cfg.Sacred.Marks, sacredtime.Read(sacredtime.SystemClock{}, cfg.Sacred.Location))
	return mark, sacredtime.DayLabel(day)
}

func newNextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Print the next sacred time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			mark, day := nextMark(cfg)
			fmt.Fprintf(cmd.OutOrStdout(), cfg.Messages.NextSacred+"\n", mark, day)
			return nil
		},
	}
}

func newScheduleCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List the coming sacred times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n <= 0 {
				return fmt.Errorf("-n must be positive, got %d", n)
			}
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			now := sacredtime.Read(sacredtime.SystemClock{}, cfg.Sacred.Location)
			fmt.Fprintln(cmd.OutOrStdout(), handlers.FormatSchedule(cfg.Messages.ScheduleHeader, cfg.Sacred.Marks, now, n))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 10, "number of sacred times to list")
	return cmd
}

func newGenerateCmd(opts *options) *cobra.Command {
	var prompt, at string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a post and print it without publishing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireGemini(); err != nil {
				return err
			}
			sacred, err := sacredTimeArg(cfg, at)
			if err != nil {
				return err
			}

			svc, err := newServices(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer svc.Close()

			fmt.Fprintln(cmd.OutOrStdout(), svc.poster.Compose(cmd.Context(), prompt, sacred))
			return nil
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "custom prompt for the post")
	cmd.Flags().StringVar(&at, "time", "", "sacred time to read, as H:MM (default now)")
	return cmd
}

func newPostCmd(opts *options) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Compose a post for the current minute and tweet it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireGemini(); err != nil {
				return err
			}
			if !cfg.Twitter.Enabled {
				return fmt.Errorf("%w: twitter.enabled is false", config.ErrConfiguration)
			}

			svc, err := newServices(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer svc.Close()

			now := sacredtime.Read(sacredtime.SystemClock{}, cfg.Sacred.Location).String()
			tw, err := svc.poster.Tweet(cmd.Context(), poster.TweetRequest{
				Content:      svc.poster.Compose(cmd.Context(), prompt, now),
				Kind:         database.KindAdmin,
				SacredTime:   now,
				CustomPrompt: prompt,
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), cfg.Messages.PostFailed+"\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), cfg.Messages.PostDone+"\n", tw.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "custom prompt for the post")
	return cmd
}

// sacredTimeArg validates --time, defaulting to the current minute.
func sacredTimeArg(cfg *config.Config, at string) (string, error) {
	at = strings.TrimSpace(at)
	if at == "" {
		return sacredtime.Read(sacredtime.SystemClock{}, cfg.Sacred.Location).String(), nil
	}
	m, err := sacredtime.ParseMark(at)
	if err != nil {
		return "", fmt.Errorf("invalid --time: %w", err)
	}
	return m.String(), nil
}
