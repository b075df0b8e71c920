// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly lets a command through only for configured admins. Everyone
// else is ignored without a reply, so the command's existence is not
// advertised.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if !isAdmin(deps, update) {
				if update.Message != nil && update.Message.From != nil {
					deps.Logger.With("middleware", "AdminOnly").WarnContext(ctx, "Unauthorized access attempt",
						"user_id", update.Message.From.ID, "chat_id", update.Message.Chat.ID)
				}
				return
			}
			next(ctx, bot, update)
		}
	}
}

func isAdmin(deps HandlerDeps, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	return deps.Config.Telegram.IsAdmin(update.Message.From.ID)
}
