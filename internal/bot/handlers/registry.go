package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

func command(pattern string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     h,
		Middleware:  mw,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
}

// RegisterAllCommands returns every slash command keyed by its name.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	admin := AdminOnly(deps)

	return map[string]RegisteredHandler{
		"/start":      command("start", NewStartHandler(deps)),
		"/help":       command("help", NewHelpHandler(deps)),
		"/generate":   command("generate", NewGenerateHandler(deps)),
		"/chat":       command("chat", NewChatHandler(deps)),
		"/numerology": command("numerology", NewNumerologyHandler(deps)),
		"/next":       command("next", NewNextHandler(deps)),
		"/schedule":   command("schedule", NewScheduleHandler(deps)),
		"/post":       command("post", NewPostHandler(deps), admin),
		"/lingotweet": command("lingotweet", NewLingoTweetHandler(deps), admin),
	}
}
