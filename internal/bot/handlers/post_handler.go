package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/poster"
	"github.com/sacredtrees/sappie/internal/twitter"
)

// NewPostHandler returns a handler for the admin /post [prompt] command,
// which composes a post for the current minute and tweets it.
func NewPostHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(postHandler{deps}.Handle)
}

type postHandler struct {
	deps HandlerDeps
}

func (h postHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.deps.Poster.Enabled() {
		say(ctx, m, h.deps, msg, h.deps.Config.Messages.PostDisabled)
		return
	}
	say(ctx, m, h.deps, msg, h.deps.Config.Messages.PostStarted)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	prompt := commandArgs(msg.Text)
	now := h.deps.now().String()
	content := h.deps.Poster.Compose(aiCtx, prompt, now)
	tw, err := h.deps.Poster.Tweet(ctx, poster.TweetRequest{
		Content:      content,
		Kind:         database.KindAdmin,
		SacredTime:   now,
		CustomPrompt: prompt,
		UserID:       msg.From.ID,
	})
	say(ctx, m, h.deps, msg, h.outcome(ctx, tw, err))
}

// NewLingoTweetHandler returns a handler for the admin /lingotweet command.
func NewLingoTweetHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(lingoTweetHandler{deps}.Handle)
}

type lingoTweetHandler struct {
	deps HandlerDeps
}

func (h lingoTweetHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.deps.Poster.Enabled() {
		say(ctx, m, h.deps, msg, h.deps.Config.Messages.PostDisabled)
		return
	}
	say(ctx, m, h.deps, msg, h.deps.Config.Messages.PostStarted)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	now := h.deps.now().String()
	lingo, err := h.deps.Gemini.GenerateLingo(aiCtx, now)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Lingo generation failed", "error", err)
		say(ctx, m, h.deps, msg, fmt.Sprintf(h.deps.Config.Messages.PostFailed, err))
		return
	}
	tw, err := h.deps.Poster.Tweet(ctx, poster.TweetRequest{
		Content:    lingo,
		Kind:       database.KindLingo,
		SacredTime: now,
		UserID:     msg.From.ID,
	})
	say(ctx, m, h.deps, msg, postHandler(h).outcome(ctx, tw, err))
}

// outcome turns a tweet result into the admin-facing status line.
func (h postHandler) outcome(ctx context.Context, tw twitter.Tweet, err error) string {
	msgs := h.deps.Config.Messages
	switch {
	case err == nil:
		h.deps.Logger.InfoContext(ctx, "Admin tweet posted", "tweet_id", tw.ID)
		return fmt.Sprintf(msgs.PostDone, tw.URL)
	case errors.Is(err, poster.ErrDailyQuota), errors.Is(err, twitter.ErrDailyLimit):
		h.deps.Logger.WarnContext(ctx, "Daily tweet limit reached", "error", err)
		return msgs.PostQuotaReached
	case errors.Is(err, twitter.ErrRateLimited):
		h.deps.Logger.WarnContext(ctx, "Twitter rate limited the post", "error", err)
		return msgs.PostRateLimited
	case errors.Is(err, poster.ErrDisabled):
		return msgs.PostDisabled
	default:
		h.deps.Logger.ErrorContext(ctx, "Admin tweet failed", "error", err)
		return fmt.Sprintf(msgs.PostFailed, err)
	}
}
