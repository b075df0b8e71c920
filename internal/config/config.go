// Package config loads Sappie's configuration from a YAML file, .env files and
// SAPPIE_* environment variables, applies defaults and validates the result.
package config

import (
	"errors"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/sacredtime"
)

// ErrConfiguration wraps every load and validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration tree.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Twitter   TwitterConfig   `mapstructure:"twitter"`
	AITable   AITableConfig   `mapstructure:"aitable"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Sacred    SacredConfig    `mapstructure:"sacred"`
	Groups    GroupsConfig    `mapstructure:"groups"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the privileged user ids.
type TelegramConfig struct {
	Token    string  `mapstructure:"token"`
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"dive,gt=0"`

	// The guardian is the one member Sappie defends and lets roast others.
	GuardianID   int64  `mapstructure:"guardian_id"   validate:"gte=0"`
	GuardianName string `mapstructure:"guardian_name" validate:"required"`

	// BotInfo is filled from getMe at startup.
	BotInfo *models.User `mapstructure:"-"`
}

// IsAdmin reports whether userID may use admin-only commands.
func (t TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range t.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// GeminiConfig configures the generative model clients.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"             validate:"required"`
	VisionModel     string        `mapstructure:"vision_model"      validate:"required"`
	Temperature     float32       `mapstructure:"temperature"       validate:"min=0,max=2"`
	TopP            float32       `mapstructure:"top_p"             validate:"min=0,max=1"`
	TopK            float32       `mapstructure:"top_k"             validate:"gte=0"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens" validate:"gt=0"`
	MaxRetries      int           `mapstructure:"max_retries"       validate:"gte=0,lte=10"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       validate:"gte=0"`
}

// TwitterConfig holds the OAuth 1.0a user-context credentials and posting
// limits. Credentials are only required when posting is enabled.
type TwitterConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	APIKey            string  `mapstructure:"api_key"             validate:"required_if=Enabled true"`
	APISecret         string  `mapstructure:"api_secret"          validate:"required_if=Enabled true"`
	AccessToken       string  `mapstructure:"access_token"        validate:"required_if=Enabled true"`
	AccessTokenSecret string  `mapstructure:"access_token_secret" validate:"required_if=Enabled true"`
	BaseURL           string  `mapstructure:"base_url"            validate:"required,url"`
	Handle            string  `mapstructure:"handle"              validate:"required"`
	RatePerMinute     float64 `mapstructure:"rate_per_minute"     validate:"gt=0"`
	DailyLimit        int     `mapstructure:"daily_limit"         validate:"gt=0"`
}

// AITableConfig maps logical table names to datasheet ids.
type AITableConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Token   string            `mapstructure:"token"   validate:"required_if=Enabled true"`
	BaseURL string            `mapstructure:"base_url" validate:"required,url"`
	Tables  map[string]string `mapstructure:"tables"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SacredConfig configures when scheduled posts fire.
type SacredConfig struct {
	Timezone     string        `mapstructure:"timezone"      validate:"required"`
	Times        []string      `mapstructure:"times"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"min=1s,max=1m"`
	JitterMin    time.Duration `mapstructure:"jitter_min"    validate:"gte=0"`
	JitterMax    time.Duration `mapstructure:"jitter_max"    validate:"gtefield=JitterMin"`

	// Marks and Location are derived from Times and Timezone by Load.
	Marks    []sacredtime.Mark `mapstructure:"-"`
	Location *time.Location    `mapstructure:"-"`
}

// GroupsConfig controls idle-group musings.
type GroupsConfig struct {
	IdleThreshold time.Duration `mapstructure:"idle_threshold" validate:"gt=0"`
	HistorySize   int           `mapstructure:"history_size"   validate:"gt=0"`
	TrackTTL      time.Duration `mapstructure:"track_ttl"      validate:"gt=0"`
	MaxTracked    int           `mapstructure:"max_tracked"    validate:"gt=0"`
}

// SchedulerConfig lists the background tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig schedules one task either by cron expression or by fixed
// interval. Schedule wins when both are set.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// MessagesConfig holds user-facing strings.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"            validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	ChatUsage        string `mapstructure:"chat_usage"         validate:"required"`
	NumerologyUsage  string `mapstructure:"numerology_usage"   validate:"required"`
	NextSacred       string `mapstructure:"next_sacred"        validate:"required"`
	ScheduleHeader   string `mapstructure:"schedule_header"    validate:"required"`
	PostStarted      string `mapstructure:"post_started"       validate:"required"`
	PostDone         string `mapstructure:"post_done"          validate:"required"`
	PostFailed       string `mapstructure:"post_failed"        validate:"required"`
	PostQuotaReached string `mapstructure:"post_quota_reached" validate:"required"`
	PostRateLimited  string `mapstructure:"post_rate_limited"  validate:"required"`
	PostDisabled     string `mapstructure:"post_disabled"      validate:"required"`
}
