package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/retry"
)

const (
	sendMessageTimeout     = 10 * time.Second
	aiProcessingTimeout    = 2 * time.Minute
	photoDownloadTimeout   = 30 * time.Second
	replyAttempts          = 3
	defaultReplyRetryDelay = 2 * time.Second
)

// Send delivers text to chatID, optionally as a reply, retrying failed
// sends with a doubling delay.
func Send(ctx context.Context, m Messenger, deps HandlerDeps, chatID int64, replyTo int, text string) error {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if replyTo > 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: replyTo, AllowSendingWithoutReply: true}
	}

	delay := deps.ReplyRetryDelay
	if delay <= 0 {
		delay = defaultReplyRetryDelay
	}
	err := retry.DoWithLogger(ctx, deps.Logger, replyAttempts, delay, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		defer cancel()
		_, err := m.SendMessage(sendCtx, params)
		return Undeliverable(err)
	})
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// Undeliverable marks send errors that another attempt cannot fix, such as
// the bot having been removed from the chat, so retries stop at once.
func Undeliverable(err error) error {
	if errors.Is(err, bot.ErrorForbidden) || errors.Is(err, bot.ErrorBadRequest) {
		return retry.Permanent(err)
	}
	return err
}

// reply answers msg, logging instead of returning failures.
func reply(ctx context.Context, m Messenger, deps HandlerDeps, msg *models.Message, text string) {
	if err := Send(ctx, m, deps, msg.Chat.ID, msg.ID, text); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send reply", "chat_id", msg.Chat.ID, "reply_to", msg.ID, "error", err)
	}
}

// say posts text to msg's chat without quoting it.
func say(ctx context.Context, m Messenger, deps HandlerDeps, msg *models.Message, text string) bool {
	if err := Send(ctx, m, deps, msg.Chat.ID, 0, text); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send message", "chat_id", msg.Chat.ID, "error", err)
		return false
	}
	return true
}

func typing(ctx context.Context, m Messenger, chatID int64) {
	_, _ = m.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})
}

// commandArgs returns what follows the command word, e.g. "hello" for
// "/chat@SappieBot hello".
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}
