package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(startHandler{deps}.Handle)
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")
	if update.Message == nil {
		log.WarnContext(ctx, "Start handler received update without a message", "update_id", update.ID)
		return
	}
	log.InfoContext(ctx, "Handling /start command", "chat_id", update.Message.Chat.ID)

	welcome := h.deps.Config.Messages.Welcome
	if info := h.deps.Config.Telegram.BotInfo; info != nil && info.Username != "" {
		welcome = strings.ReplaceAll(welcome, "@botname", "@"+info.Username)
	}
	say(ctx, m, h.deps, update.Message, welcome)
}
