// Package telegram creates the Telegram client and registers Sappie's
// handlers on it.
package telegram

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/sacredtrees/sappie/internal/bot/handlers"
	"github.com/sacredtrees/sappie/internal/logger"
)

// NewTelegramBot creates the client with request logging and the given
// catch-all handler for non-command messages.
func NewTelegramBot(token string, log *slog.Logger, defaultHandler bot.HandlerFunc, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "telegram_bot")

	opts = append([]bot.Option{bot.WithMiddlewares(logger.Middleware(log))}, opts...)
	if defaultHandler != nil {
		opts = append(opts, bot.WithDefaultHandler(defaultHandler))
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info("Telegram bot instance created")
	return b, nil
}

// Registrar is the registration half of *bot.Bot.
type Registrar interface {
	RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, f bot.HandlerFunc, m ...bot.Middleware) string
}

// applyMiddleware wraps handler so that mw[0] runs first.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers every command with its middleware and reports
// how many were registered.
func RegisterHandlers(b Registrar, log *slog.Logger, registered map[string]handlers.RegisteredHandler) int {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "handler_registry")

	var count int
	for name, h := range registered {
		if h.Handler == nil {
			log.Warn("Skipping registration for nil handler", "command", name)
			continue
		}
		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, applyMiddleware(h.Handler, h.Middleware))
		log.Debug("Registered handler", "command", name, "middleware_count", len(h.Middleware))
		count++
	}
	log.Info("Registered Telegram handlers", "count", count)
	return count
}
