// Package poster composes Sappie's posts and publishes them to Twitter,
// keeping the local post log and the AITable mirror in step.
package poster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/sacredtrees/sappie/internal/aitable"
	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/logger"
	"github.com/sacredtrees/sappie/internal/persona"
	"github.com/sacredtrees/sappie/internal/twitter"
)

var (
	// ErrDailyQuota is returned when the rolling 24h tweet count has reached
	// the configured limit.
	ErrDailyQuota = errors.New("daily tweet quota reached")
	// ErrDisabled is returned by Tweet when Twitter posting is off.
	ErrDisabled = errors.New("twitter posting is disabled")
)

const quotaWindow = 24 * time.Hour

// TweetRequest is one tweet to publish.
type TweetRequest struct {
	Content      string
	Kind         string // one of the database.Kind* constants
	SacredTime   string
	CustomPrompt string
	UserID       int64 // admin who asked for it, 0 for scheduled posts
	Jitter       bool  // wait a random few seconds first
}

// Deps are the collaborators of a Service. Twitter may be nil when posting
// is disabled; Records may be nil when nothing is mirrored.
type Deps struct {
	Persona   *persona.Persona
	Generator persona.Generator
	Twitter   twitter.Poster
	Records   aitable.Recorder
	Store     database.Store
	Config    *config.Config
	Logger    *slog.Logger
}

// Service publishes posts.
type Service struct {
	persona    *persona.Persona
	gen        persona.Generator
	twitter    twitter.Poster
	records    aitable.Recorder
	store      database.Store
	limiter    *rate.Limiter
	dailyLimit int
	jitterMin  time.Duration
	jitterMax  time.Duration
	log        *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Service from deps.
func New(deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	tw := deps.Config.Twitter
	perSecond := tw.RatePerMinute / 60
	if perSecond <= 0 {
		perSecond = config.DefaultTwitterRate / 60
	}

	return &Service{
		persona:    deps.Persona,
		gen:        deps.Generator,
		twitter:    deps.Twitter,
		records:    deps.Records,
		store:      deps.Store,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		dailyLimit: tw.DailyLimit,
		jitterMin:  deps.Config.Sacred.JitterMin,
		jitterMax:  deps.Config.Sacred.JitterMax,
		log:        log.With("component", "poster"),
		now:        time.Now,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Enabled reports whether tweets can be sent.
func (s *Service) Enabled() bool { return s.twitter != nil }

// Compose writes a post, closing with a reading of sacredTime when it is
// set. It always returns text.
func (s *Service) Compose(ctx context.Context, customPrompt, sacredTime string) string {
	return s.persona.ComposePost(ctx, s.gen, sacredTime, customPrompt)
}

// Remaining reports how many tweets the rolling daily quota still allows.
func (s *Service) Remaining(ctx context.Context) (int, error) {
	count, err := s.store.CountPostsSince(ctx, database.PlatformTwitter, s.now().Add(-quotaWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to check tweet quota: %w", err)
	}
	return max(s.dailyLimit-count, 0), nil
}

// Tweet publishes req.Content. It refuses once the daily quota is spent and
// otherwise waits for the rate limiter (and jitter) before posting.
func (s *Service) Tweet(ctx context.Context, req TweetRequest) (twitter.Tweet, error) {
	if s.twitter == nil {
		return twitter.Tweet{}, ErrDisabled
	}
	if req.Content == "" {
		return twitter.Tweet{}, errors.New("tweet content is empty")
	}

	remaining, err := s.Remaining(ctx)
	if err != nil {
		return twitter.Tweet{}, err
	}
	if remaining == 0 {
		s.log.WarnContext(ctx, "Daily tweet quota reached", "limit", s.dailyLimit)
		return twitter.Tweet{}, ErrDailyQuota
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return twitter.Tweet{}, fmt.Errorf("rate limiter: %w", err)
	}
	if req.Jitter {
		d := s.jitter()
		s.log.InfoContext(ctx, "Delaying tweet", "delay", d)
		if err := s.sleep(ctx, d); err != nil {
			return twitter.Tweet{}, fmt.Errorf("tweet delay interrupted: %w", err)
		}
	}

	tw, err := s.twitter.Post(ctx, req.Content)
	if err != nil {
		return twitter.Tweet{}, fmt.Errorf("failed to post tweet: %w", err)
	}

	postedAt := s.now().UTC()
	post := &database.Post{
		Platform:     database.PlatformTwitter,
		Kind:         req.Kind,
		Content:      req.Content,
		UserID:       req.UserID,
		CustomPrompt: req.CustomPrompt,
		ExternalID:   tw.ID,
		SacredTime:   req.SacredTime,
		PostedAt:     postedAt,
	}
	// The tweet is out; a failed log write only costs quota accuracy.
	if err := s.store.SavePost(ctx, post); err != nil {
		s.log.ErrorContext(ctx, "Failed to record tweet", "tweet_id", tw.ID, "error", err)
	}

	s.record(ctx, tableFor(req.Kind), tweetFields(req, tw, postedAt))
	return tw, nil
}

// LogTelegram records a post sent to a Telegram chat.
func (s *Service) LogTelegram(ctx context.Context, chatID, userID int64, content string) {
	postedAt := s.now().UTC()
	post := &database.Post{
		Platform: database.PlatformTelegram,
		Kind:     database.KindGenerated,
		Content:  content,
		ChatID:   chatID,
		UserID:   userID,
		PostedAt: postedAt,
	}
	if err := s.store.SavePost(ctx, post); err != nil {
		s.log.ErrorContext(ctx, "Failed to record telegram post", "chat_id", chatID, "error", err)
	}

	s.record(ctx, aitable.TelegramPosts, aitable.Fields{
		aitable.FieldContent:  content,
		aitable.FieldPostedAt: postedAt.Format(time.RFC3339),
		aitable.FieldChatID:   strconv.FormatInt(chatID, 10),
	})
}

func (s *Service) record(ctx context.Context, table aitable.Table, fields aitable.Fields) {
	if s.records == nil {
		return
	}
	s.records.Record(ctx, table, fields)
}

func (s *Service) jitter() time.Duration {
	spread := s.jitterMax - s.jitterMin
	if spread <= 0 {
		return s.jitterMin
	}
	return s.jitterMin + rand.N(spread+1)
}

func tableFor(kind string) aitable.Table {
	if kind == database.KindScheduled {
		return aitable.ScheduledPosts
	}
	return aitable.AdminPosts
}

func tweetFields(req TweetRequest, tw twitter.Tweet, postedAt time.Time) aitable.Fields {
	fields := aitable.Fields{
		aitable.FieldContent:  req.Content,
		aitable.FieldPostedAt: postedAt.Format(time.RFC3339),
		aitable.FieldPlatform: "Twitter",
		aitable.FieldTweetURL: tw.URL,
	}
	if req.UserID != 0 {
		fields[aitable.FieldAdminID] = strconv.FormatInt(req.UserID, 10)
	}
	if req.SacredTime != "" {
		fields[aitable.FieldSacredTime] = req.SacredTime
	}
	switch req.Kind {
	case database.KindLingo:
		fields[aitable.FieldType] = "Lingo Tweet"
	case database.KindAdmin:
		prompt := req.CustomPrompt
		if prompt == "" {
			prompt = "None"
		}
		fields[aitable.FieldCustomPrompt] = prompt
	}
	return fields
}
