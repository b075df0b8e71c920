// Package tasks implements Sappie's scheduled jobs: sacred-time posts, idle
// group musings and database upkeep.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/gemini"
	"github.com/sacredtrees/sappie/internal/groups"
	"github.com/sacredtrees/sappie/internal/persona"
	"github.com/sacredtrees/sappie/internal/poster"
	"github.com/sacredtrees/sappie/internal/sacredtime"
	"github.com/sacredtrees/sappie/internal/twitter"
)

// Sender delivers Telegram messages. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Publisher composes and tweets posts. *poster.Service satisfies it.
type Publisher interface {
	Enabled() bool
	Compose(ctx context.Context, customPrompt, sacredTime string) string
	Tweet(ctx context.Context, req poster.TweetRequest) (twitter.Tweet, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Gemini  gemini.Client
	Persona *persona.Persona
	Poster  Publisher
	Groups  *groups.Tracker
	Sender  Sender
	Clock   sacredtime.Clock

	// SendRetryDelay is the first backoff between send attempts; zero means
	// two seconds.
	SendRetryDelay time.Duration
}

func (d TaskDeps) clock() sacredtime.Clock {
	if d.Clock == nil {
		return sacredtime.SystemClock{}
	}
	return d.Clock
}
