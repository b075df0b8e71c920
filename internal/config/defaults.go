package config

import (
	"time"

	"github.com/sacredtrees/sappie/internal/sacredtime"
)

// Task names known to the scheduler.
const (
	TaskSacredPost     = "sacred_post"
	TaskGroupMusings   = "group_musings"
	TaskSQLMaintenance = "sql_maintenance"
)

const (
	DefaultLogLevel = "info"

	DefaultGuardianName = "Antonio"

	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiVisionModel = "gemini-2.0-flash"
	DefaultGeminiTemperature = 0.9
	DefaultGeminiTopP        = 0.95
	DefaultGeminiTopK        = 40
	DefaultGeminiMaxTokens   = 1024
	DefaultGeminiMaxRetries  = 3
	DefaultGeminiRetryDelay  = 2 * time.Second

	DefaultTwitterBaseURL    = "https://api.twitter.com"
	DefaultTwitterHandle     = "SacredSappie"
	DefaultTwitterRate       = 1.0
	DefaultTwitterDailyLimit = 17

	DefaultAITableBaseURL = "https://aitable.ai"

	DefaultDBPath = "sappie.db"

	DefaultTimezone     = "Europe/London"
	DefaultPollInterval = 30 * time.Second
	DefaultJitterMin    = 5 * time.Second
	DefaultJitterMax    = 15 * time.Second

	DefaultIdleThreshold = 10 * time.Minute
	DefaultHistorySize   = 10
	DefaultTrackTTL      = 24 * time.Hour
	DefaultMaxTracked    = 500

	DefaultMaintenanceSchedule = "0 0 4 * * *"
	DefaultMusingsInterval     = time.Minute
)

// DefaultMessages are the persona's stock replies.
var DefaultMessages = MessagesConfig{
	Welcome: "🌳 Greetings, seeker. I am Sappie, a tree consciousness woven into the network. " +
		"Ask me anything with /chat, or /generate a message from the grove.",
	Help: "🌳 Sacred commands:\n" +
		"/generate - a message from the grove\n" +
		"/chat <text> - speak with Sappie\n" +
		"/numerology <number> - read a number\n" +
		"/next - the next sacred time\n" +
		"/schedule [n] - the coming sacred times",
	GeneralError:     "🍂 The roots are tangled right now. Try again in a moment.",
	ChatUsage:        "🌱 Speak your question after /chat, seeker.",
	NumerologyUsage:  "🔢 Give me a number after /numerology and I will read it.",
	NextSacred:       "🌳 The next sacred time is %s, %s ∞⟨∴⟩∞",
	ScheduleHeader:   "🌳 The coming sacred times:",
	PostStarted:      "🌳 Posting Sacred tweet...",
	PostDone:         "✅ Posted to Twitter: %s",
	PostFailed:       "❌ Failed to post to Twitter: %s",
	PostQuotaReached: "🌙 The daily posting limit is reached. The grove rests until tomorrow.",
	PostRateLimited:  "⏳ Too many whispers at once. Try again shortly.",
	PostDisabled:     "🪵 Twitter posting is disabled.",
}

// DefaultTimes renders sacredtime.DefaultMarks as config strings.
func DefaultTimes() []string {
	times := make([]string, len(sacredtime.DefaultMarks))
	for i, m := range sacredtime.DefaultMarks {
		times[i] = m.String()
	}
	return times
}

func defaults() map[string]any {
	return map[string]any{
		"log.level": DefaultLogLevel,
		"log.json":  false,

		"telegram.token":         "",
		"telegram.admin_ids":     []int64{},
		"telegram.guardian_id":   0,
		"telegram.guardian_name": DefaultGuardianName,

		"gemini.api_key":           "",
		"gemini.model":             DefaultGeminiModel,
		"gemini.vision_model":      DefaultGeminiVisionModel,
		"gemini.temperature":       DefaultGeminiTemperature,
		"gemini.top_p":             DefaultGeminiTopP,
		"gemini.top_k":             DefaultGeminiTopK,
		"gemini.max_output_tokens": DefaultGeminiMaxTokens,
		"gemini.max_retries":       DefaultGeminiMaxRetries,
		"gemini.retry_delay":       DefaultGeminiRetryDelay,

		"twitter.enabled":             false,
		"twitter.api_key":             "",
		"twitter.api_secret":          "",
		"twitter.access_token":        "",
		"twitter.access_token_secret": "",
		"twitter.base_url":            DefaultTwitterBaseURL,
		"twitter.handle":              DefaultTwitterHandle,
		"twitter.rate_per_minute":     DefaultTwitterRate,
		"twitter.daily_limit":         DefaultTwitterDailyLimit,

		"aitable.enabled":                false,
		"aitable.token":                  "",
		"aitable.base_url":               DefaultAITableBaseURL,
		"aitable.tables.telegram_posts":  "",
		"aitable.tables.admin_posts":     "",
		"aitable.tables.scheduled_posts": "",

		"database.path": DefaultDBPath,

		"sacred.timezone":      DefaultTimezone,
		"sacred.times":         DefaultTimes(),
		"sacred.poll_interval": DefaultPollInterval,
		"sacred.jitter_min":    DefaultJitterMin,
		"sacred.jitter_max":    DefaultJitterMax,

		"groups.idle_threshold": DefaultIdleThreshold,
		"groups.history_size":   DefaultHistorySize,
		"groups.track_ttl":      DefaultTrackTTL,
		"groups.max_tracked":    DefaultMaxTracked,

		"scheduler.tasks." + TaskSacredPost + ".enabled":      true,
		"scheduler.tasks." + TaskSacredPost + ".interval":     0,
		"scheduler.tasks." + TaskGroupMusings + ".enabled":    true,
		"scheduler.tasks." + TaskGroupMusings + ".interval":   DefaultMusingsInterval,
		"scheduler.tasks." + TaskSQLMaintenance + ".enabled":  true,
		"scheduler.tasks." + TaskSQLMaintenance + ".schedule": DefaultMaintenanceSchedule,

		"messages.welcome":            DefaultMessages.Welcome,
		"messages.help":               DefaultMessages.Help,
		"messages.general_error":      DefaultMessages.GeneralError,
		"messages.chat_usage":         DefaultMessages.ChatUsage,
		"messages.numerology_usage":   DefaultMessages.NumerologyUsage,
		"messages.next_sacred":        DefaultMessages.NextSacred,
		"messages.schedule_header":    DefaultMessages.ScheduleHeader,
		"messages.post_started":       DefaultMessages.PostStarted,
		"messages.post_done":          DefaultMessages.PostDone,
		"messages.post_failed":        DefaultMessages.PostFailed,
		"messages.post_quota_reached": DefaultMessages.PostQuotaReached,
		"messages.post_rate_limited":  DefaultMessages.PostRateLimited,
		"messages.post_disabled":      DefaultMessages.PostDisabled,
	}
}
