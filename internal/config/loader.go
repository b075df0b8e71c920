package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sacredtrees/sappie/internal/sacredtime"
)

// EnvPrefix is the prefix of environment overrides, e.g. SAPPIE_TELEGRAM_TOKEN.
const EnvPrefix = "SAPPIE"

// Load reads configuration in increasing priority from:
//  1. built-in defaults
//  2. the YAML file at path (optional)
//  3. .env files, exported into the process environment
//  4. SAPPIE_* environment variables
//
// The result is validated; an empty sacred time list is reported as
// sacredtime.ErrInvalidConfiguration.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfiguration, path, err)
			}
			slog.Debug("Config file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrConfiguration, err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv exports the given .env files, or ./.env when none are named.
// Missing files are ignored; variables already set in the environment win.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// finalize derives the parsed fields that viper cannot decode directly.
func (c *Config) finalize() error {
	marks, err := sacredtime.ParseMarks(c.Sacred.Times)
	if err != nil {
		return fmt.Errorf("%w: sacred.times: %w", ErrConfiguration, err)
	}
	c.Sacred.Marks = marks

	loc, err := time.LoadLocation(c.Sacred.Timezone)
	if err != nil {
		return fmt.Errorf("%w: sacred.timezone %q: %w", ErrConfiguration, c.Sacred.Timezone, err)
	}
	c.Sacred.Location = loc

	if task, ok := c.Scheduler.Tasks[TaskSacredPost]; ok && task.Schedule == "" && task.Interval == 0 {
		task.Interval = c.Sacred.PollInterval
		c.Scheduler.Tasks[TaskSacredPost] = task
	}
	return nil
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := sacredtime.Validate(c.Sacred.Marks); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" && task.Interval <= 0 {
			return fmt.Errorf("%w: scheduler task %q needs a schedule or an interval", ErrConfiguration, name)
		}
	}
	return nil
}

// RequireTelegram fails when the bot token is missing. Commands that only
// print the schedule do not need it.
func (c *Config) RequireTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required", ErrConfiguration)
	}
	return nil
}

// RequireGemini fails when the generative API key is missing.
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("%w: gemini.api_key is required", ErrConfiguration)
	}
	return nil
}
