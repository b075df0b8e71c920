package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/bot/handlers"
	"github.com/sacredtrees/sappie/internal/retry"
)

const (
	musingAttempts        = 3
	defaultSendRetryDelay = 2 * time.Second
	musingTimeout         = time.Minute
)

// newGroupMusingsTask breaks the silence in quiet groups with a random
// thought, replying to one of the last messages seen there.
func newGroupMusingsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "group_musings")
	threshold := deps.Config.Groups.IdleThreshold

	delay := deps.SendRetryDelay
	if delay <= 0 {
		delay = defaultSendRetryDelay
	}

	return func(ctx context.Context) error {
		if n := deps.Groups.Prune(); n > 0 {
			log.DebugContext(ctx, "Forgot silent groups", "count", n)
		}

		var failed int
		for _, chatID := range deps.Groups.Idle(threshold) {
			err := muse(ctx, deps, chatID, delay)
			switch {
			case errors.Is(err, bot.ErrorForbidden):
				log.WarnContext(ctx, "Removed from group, forgetting it", "chat_id", chatID, "error", err)
				deps.Groups.Forget(chatID)
				continue
			case err != nil:
				log.ErrorContext(ctx, "Failed to share musing", "chat_id", chatID, "error", err)
				failed++
			}
			// Reset even on failure so a broken chat is not retried every tick.
			deps.Groups.MarkActive(chatID)
		}
		if failed > 0 {
			return fmt.Errorf("%d group musings failed", failed)
		}
		return nil
	}
}

func muse(ctx context.Context, deps TaskDeps, chatID int64, delay time.Duration) error {
	activity, ok := deps.Groups.Get(chatID)
	if !ok || len(activity.Messages) == 0 {
		return nil
	}
	target := activity.Messages[deps.Persona.Intn(len(activity.Messages))]

	genCtx, cancel := context.WithTimeout(ctx, musingTimeout)
	defer cancel()
	thoughtType := deps.Persona.RandomThoughtType()
	thought, err := deps.Gemini.GenerateRandomThought(genCtx, thoughtType)
	if err != nil {
		deps.Logger.WarnContext(ctx, "Random thought failed, using fallback", "chat_id", chatID, "type", thoughtType, "error", err)
		thought = deps.Persona.Fallback()
	}

	params := &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            thought,
		ReplyParameters: &models.ReplyParameters{MessageID: target.ID, AllowSendingWithoutReply: true},
	}
	return retry.DoWithLogger(ctx, deps.Logger, musingAttempts, delay, func(ctx context.Context) error {
		_, err := deps.Sender.SendMessage(ctx, params)
		return handlers.Undeliverable(err)
	})
}
