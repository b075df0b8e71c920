package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sacredtrees/sappie/internal/sacredtime"
)

const (
	defaultScheduleCount = 10
	maxScheduleCount     = 50
)

// NewNextHandler returns a handler for /next.
func NewNextHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(nextHandler{deps}.Handle)
}

type nextHandler struct {
	deps HandlerDeps
}

func (h nextHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	if update.Message == nil {
		return
	}
	mark, day := sacredtime.NextMark(h.deps.Config.Sacred.Marks, h.deps.now())
	say(ctx, m, h.deps, update.Message, fmt.Sprintf(h.deps.Config.Messages.NextSacred, mark, sacredtime.DayLabel(day)))
}

// NewScheduleHandler returns a handler for /schedule [n].
func NewScheduleHandler(deps HandlerDeps) bot.HandlerFunc {
	return adapt(scheduleHandler{deps}.Handle)
}

type scheduleHandler struct {
	deps HandlerDeps
}

func (h scheduleHandler) Handle(ctx context.Context, m Messenger, update *models.Update) {
	if update.Message == nil {
		return
	}
	n := scheduleCount(commandArgs(update.Message.Text))
	say(ctx, m, h.deps, update.Message, FormatSchedule(h.deps.Config.Messages.ScheduleHeader, h.deps.Config.Sacred.Marks, h.deps.now(), n))
}

// FormatSchedule lists the next n marks after now under header, one per
// line.
func FormatSchedule(header string, marks []sacredtime.Mark, now sacredtime.Reading, n int) string {
	var sb strings.Builder
	sb.WriteString(header)
	for mark, day := range sacredtime.NextMarks(marks, now, n) {
		fmt.Fprintf(&sb, "\n%s %s", mark, sacredtime.DayLabel(day))
	}
	return sb.String()
}

func scheduleCount(arg string) int {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return defaultScheduleCount
	}
	return min(n, maxScheduleCount)
}
