package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/logger"
)

const historyContentLen = 60

func newHistoryCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent posts from the post log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n <= 0 {
				return fmt.Errorf("-n must be positive, got %d", n)
			}
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			db, store, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			posts, err := store.RecentPosts(cmd.Context(), n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(posts) == 0 {
				fmt.Fprintln(out, "No posts yet.")
				return nil
			}
			for _, p := range posts {
				fmt.Fprintf(out, "%s  %-8s %-9s %s\n",
					p.PostedAt.In(cfg.Sacred.Location).Format(time.DateTime), p.Platform, p.Kind,
					logger.Truncate(p.Content, historyContentLen))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 20, "number of posts to list (at most 100)")
	return cmd
}
