package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/poster"
	"github.com/sacredtrees/sappie/internal/sacredtime"
)

// newSacredPostTask tweets once for every sacred minute the poll lands in.
// Polls run more often than once a minute, so the last fired minute is
// remembered and repeats are skipped.
func newSacredPostTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sacred_post")
	sacred := deps.Config.Sacred

	var (
		mu        sync.Mutex
		lastFired string
	)

	return func(ctx context.Context) error {
		now := deps.clock().Now().In(sacred.Location)
		reading := sacredtime.ReadingAt(now, sacred.Location)
		if !sacredtime.IsTrigger(sacred.Marks, reading) {
			return nil
		}

		key := now.Format("2006-01-02 ") + reading.String()
		mu.Lock()
		if key == lastFired {
			mu.Unlock()
			return nil
		}
		lastFired = key
		mu.Unlock()

		if !deps.Poster.Enabled() {
			log.DebugContext(ctx, "Twitter disabled, skipping sacred post", "sacred_time", reading)
			return nil
		}

		log.InfoContext(ctx, "Sacred time reached", "sacred_time", reading)
		content := deps.Poster.Compose(ctx, "", reading.String())
		tw, err := deps.Poster.Tweet(ctx, poster.TweetRequest{
			Content:    content,
			Kind:       database.KindScheduled,
			SacredTime: reading.String(),
			Jitter:     true,
		})

		next, day := sacredtime.NextMark(sacred.Marks, reading)
		nextAt := sacredtime.At(now, next, day)
		switch {
		case errors.Is(err, poster.ErrDailyQuota):
			log.WarnContext(ctx, "Daily tweet quota reached, skipping sacred post", "sacred_time", reading, "next", nextAt)
			return nil
		case err != nil:
			return fmt.Errorf("sacred post at %s failed: %w", reading, err)
		}
		log.InfoContext(ctx, "Sacred post published", "sacred_time", reading, "tweet_url", tw.URL,
			"next", next.String(), "next_day", sacredtime.DayLabel(day), "next_in", nextAt.Sub(now).Round(time.Second))
		return nil
	}
}
