package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/gemini"
	"github.com/sacredtrees/sappie/internal/groups"
	"github.com/sacredtrees/sappie/internal/persona"
	"github.com/sacredtrees/sappie/internal/poster"
	"github.com/sacredtrees/sappie/internal/sacredtime"
	"github.com/sacredtrees/sappie/internal/twitter"
)

// Messenger is the part of the Telegram API the handlers use. *bot.Bot
// satisfies it.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

// Publisher composes and publishes posts. *poster.Service satisfies it.
type Publisher interface {
	Enabled() bool
	Compose(ctx context.Context, customPrompt, sacredTime string) string
	Tweet(ctx context.Context, req poster.TweetRequest) (twitter.Tweet, error)
	LogTelegram(ctx context.Context, chatID, userID int64, content string)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Gemini  gemini.Client
	Persona *persona.Persona
	Poster  Publisher
	Groups  *groups.Tracker
	Clock   sacredtime.Clock

	// HTTPClient downloads photos; nil means http.DefaultClient.
	HTTPClient *http.Client
	// ReplyRetryDelay is the first backoff between send attempts; zero
	// means the default of two seconds.
	ReplyRetryDelay time.Duration
}

// now reads the sacred clock in the configured timezone.
func (d HandlerDeps) now() sacredtime.Reading {
	clock := d.Clock
	if clock == nil {
		clock = sacredtime.SystemClock{}
	}
	return sacredtime.Read(clock, d.Config.Sacred.Location)
}

// adapt lets a Messenger-based handler serve as a bot.HandlerFunc.
func adapt(h func(ctx context.Context, m Messenger, update *models.Update)) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h(ctx, b, update)
	}
}
