package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/gemini"
	"github.com/sacredtrees/sappie/internal/groups"
	"github.com/sacredtrees/sappie/internal/persona"
)

const triggerWord = "sappie"

type mentionHandler struct {
	deps HandlerDeps
}

// NewMentionHandler creates the default handler. It remembers group
// traffic for idle musings and answers messages that name Sappie or reply
// to her.
func NewMentionHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(mentionHandler{deps}.Handle)
}

func (h mentionHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}
	log := h.deps.Logger.With("handler", "mention", "chat_id", msg.Chat.ID)
	text := messageText(msg)

	if isGroup(msg.Chat) && h.deps.Groups != nil {
		h.deps.Groups.Observe(msg.Chat.ID, groups.Message{ID: msg.ID, UserID: msg.From.ID, Text: text})
	}

	if !h.shouldHandle(msg, text) {
		return
	}
	log.DebugContext(ctx, "Handling mention", "message_id", msg.ID)
	typing(ctx, m, msg.Chat.ID)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	if img, ok := imageOf(msg); ok {
		reply(ctx, m, h.deps, msg, h.imageReply(aiCtx, m, img, msg.Caption))
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	reply(ctx, m, h.deps, msg, h.textReply(aiCtx, msg, text))
}

func (h mentionHandler) shouldHandle(msg *models.Message, text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, triggerWord) {
		return true
	}
	info := h.deps.Config.Telegram.BotInfo
	if info == nil {
		return false
	}
	if info.Username != "" && strings.Contains(lower, "@"+strings.ToLower(info.Username)) {
		return true
	}
	return repliesTo(msg, info.ID)
}

func (h mentionHandler) textReply(ctx context.Context, msg *models.Message, text string) string {
	log := h.deps.Logger.With("handler", "mention", "chat_id", msg.Chat.ID)
	if persona.IsCryptoQuestion(text) {
		log.InfoContext(ctx, "Answering crypto question with stock reply")
		return h.deps.Persona.CryptoResponse()
	}

	guardian := h.deps.Config.Telegram.GuardianName
	var intent persona.Intent
	analysis, err := h.deps.Gemini.AnalyzeIntent(ctx, text, guardian)
	if err != nil {
		log.WarnContext(ctx, "Intent analysis failed, replying without it", "error", err)
	} else {
		intent = persona.ParseIntent(analysis)
	}
	if gid := h.deps.Config.Telegram.GuardianID; gid != 0 && msg.From.ID == gid {
		intent.GuardianRoast = true
	}

	var botID int64
	if info := h.deps.Config.Telegram.BotInfo; info != nil {
		botID = info.ID
	}
	answer, err := h.deps.Gemini.GenerateMentionReply(ctx, gemini.MentionRequest{
		Message:  text,
		UserName: displayName(msg.From),
		IsReply:  repliesTo(msg, botID),
		Tone:     intent.Tone(),
		Guidance: intent.Guidance(guardian),
		Guardian: guardian,
	})
	if err != nil {
		log.ErrorContext(ctx, "Mention reply failed", "error", err)
		return persona.BotErrorReply
	}
	return answer
}

func (h mentionHandler) imageReply(ctx context.Context, m Messenger, img imageRef, caption string) string {
	log := h.deps.Logger.With("handler", "mention")
	data, mimeType, err := DownloadPhoto(ctx, m, h.deps.HTTPClient, img.fileID)
	if err != nil {
		log.ErrorContext(ctx, "Photo download failed", "file_id", img.fileID, "error", err)
		return persona.ImageErrorReply
	}
	if img.mimeType != "" && mimeType == "application/octet-stream" {
		mimeType = img.mimeType
	}
	answer, err := h.deps.Gemini.GenerateImageReply(ctx, mimeType, data, caption)
	if err != nil {
		log.ErrorContext(ctx, "Image reply failed", "error", err)
		return persona.ImageErrorReply
	}
	return answer
}
