package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/persona"
)

// NewChatHandler returns a handler for /chat <text>.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(chatHandler{deps}.Handle)
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	input := commandArgs(msg.Text)
	if input == "" {
		reply(ctx, m, h.deps, msg, h.deps.Config.Messages.ChatUsage)
		return
	}
	typing(ctx, m, msg.Chat.ID)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	answer, err := h.deps.Gemini.GenerateChat(aiCtx, input, h.deps.Persona.Humble())
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Chat generation failed", "chat_id", msg.Chat.ID, "error", err)
		answer = persona.ChatErrorReply
	}
	reply(ctx, m, h.deps, msg, answer)
}

// NewNumerologyHandler returns a handler for /numerology <number>.
func NewNumerologyHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(numerologyHandler{deps}.Handle)
}

type numerologyHandler struct {
	deps HandlerDeps
}

func (h numerologyHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	number := commandArgs(msg.Text)
	if number == "" {
		reply(ctx, m, h.deps, msg, h.deps.Config.Messages.NumerologyUsage)
		return
	}
	typing(ctx, m, msg.Chat.ID)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	reading, err := h.deps.Gemini.GenerateNumerology(aiCtx, number)
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Numerology reading failed", "chat_id", msg.Chat.ID, "error", err)
		reading = persona.NumerologyErrorReply
	}
	reply(ctx, m, h.deps, msg, reading)
}
