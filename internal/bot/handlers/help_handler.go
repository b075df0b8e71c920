package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(helpHandler{deps}.Handle)
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.deps.Logger.DebugContext(ctx, "Handling /help command", "chat_id", update.Message.Chat.ID)
	say(ctx, m, h.deps, update.Message, h.deps.Config.Messages.Help)
}
