package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/persona"
)

// NewGenerateHandler returns a handler for /generate, which composes a
// post for the current minute and shares it in the chat.
func NewGenerateHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(generateHandler{deps}.Handle)
}

type generateHandler struct {
	deps HandlerDeps
}

func (h generateHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	log := h.deps.Logger.With("handler", "generate", "chat_id", msg.Chat.ID)
	typing(ctx, m, msg.Chat.ID)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	now := h.deps.now().String()
	post := strings.TrimSpace(h.deps.Poster.Compose(aiCtx, commandArgs(msg.Text), now))
	if post == "" {
		log.ErrorContext(ctx, "Composed an empty post", "sacred_time", now)
		say(ctx, m, h.deps, msg, persona.GenerateErrorReply)
		return
	}

	if !say(ctx, m, h.deps, msg, post) {
		return
	}
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	h.deps.Poster.LogTelegram(ctx, msg.Chat.ID, userID, post)
	log.InfoContext(ctx, "Shared generated post", "sacred_time", now)
}
