// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const historyLimit = 10

// StatusReader exposes the polling state to chat commands. Implemented by *app.StatusService.
type StatusReader interface {
	Snapshot() app.Snapshot
	History() homework.NotificationRepository
}

type commandHandler struct {
	ctx      context.Context
	chatID   int64
	status   StatusReader
	schedule string
	logger   *logrus.Entry
}

// RegisterBotCommands wires /start, /status and /history. Only the configured chat is served.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	chatID int64,
	status StatusReader,
	schedule string,
	baseLogger *logrus.Entry,
) {
	h := &commandHandler{
		ctx:      ctx,
		chatID:   chatID,
		status:   status,
		schedule: schedule,
		logger:   baseLogger.WithField("handler_group", "commands"),
	}
	b.Handle("/start", h.onlyConfiguredChat("/start", h.handleStart))
	b.Handle("/status", h.onlyConfiguredChat("/status", h.handleStatus))
	b.Handle("/history", h.onlyConfiguredChat("/history", h.handleHistory))
}

func (h *commandHandler) onlyConfiguredChat(command string, next func(telebot.Context, *logrus.Entry) error) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := h.logger.WithField("command", command)
		if chat := c.Chat(); chat != nil {
			logCtx = logCtx.WithField("chat_id", chat.ID)
		}
		if c.Chat() == nil || c.Chat().ID != h.chatID {
			logCtx.Warn("Command from an unknown chat rejected")
			return c.Send("This bot only reports to its configured chat.")
		}
		logCtx.Info("Processing command")
		return next(c, logCtx)
	}
}

func (h *commandHandler) handleStart(c telebot.Context, _ *logrus.Entry) error {
	var text strings.Builder
	text.WriteString("Hi! I watch the review status of your latest homework and report every change here.\n\n")
	fmt.Fprintf(&text, "Polling schedule: %s\n\n", h.schedule)
	text.WriteString("/status - last poll and last relayed status\n")
	fmt.Fprintf(&text, "/history [%s] - recent notifications", statusChoices("|"))
	return c.Send(text.String())
}

func (h *commandHandler) handleStatus(c telebot.Context, _ *logrus.Entry) error {
	return c.Send(formatSnapshot(h.status.Snapshot()))
}

func (h *commandHandler) handleHistory(c telebot.Context, logCtx *logrus.Entry) error {
	var statuses []homework.Status
	for _, arg := range c.Args() {
		st, ok := homework.ParseKnownStatus(strings.ToLower(arg))
		if !ok {
			return c.Send(fmt.Sprintf("Unknown status %q. Use one of: %s.", arg, statusChoices(", ")))
		}
		statuses = append(statuses, st)
	}

	var (
		items []*homework.Notification
		err   error
	)
	if len(statuses) == 0 {
		items, err = h.status.History().ListRecent(h.ctx, historyLimit)
	} else {
		items, err = h.status.History().ListByStatuses(h.ctx, statuses, historyLimit)
	}
	if errors.Is(err, app.ErrHistoryDisabled) {
		return c.Send("Notification history is disabled (no database configured).")
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to read notification history")
		return c.Send("Could not read notification history. Please try again later.")
	}
	return c.Send(formatHistory(items))
}

func formatSnapshot(s app.Snapshot) string {
	if s.Polls == 0 {
		return "No polls have run yet."
	}
	var text strings.Builder
	fmt.Fprintf(&text, "Polls: %d\n", s.Polls)
	fmt.Fprintf(&text, "Last poll: %s\n", s.LastPollAt.Format(time.DateTime))
	fmt.Fprintf(&text, "Watching changes since: %s\n", time.Unix(s.Cursor, 0).Format(time.DateTime))
	if s.LastErr != nil {
		fmt.Fprintf(&text, "Last poll failed: %v\n", s.LastErr)
	} else {
		text.WriteString("Last poll succeeded\n")
	}
	if s.LastMessage != "" {
		fmt.Fprintf(&text, "Last notification: %s", s.LastMessage)
	} else {
		text.WriteString("No notifications sent yet")
	}
	return text.String()
}

func formatHistory(items []*homework.Notification) string {
	if len(items) == 0 {
		return "No notifications recorded yet."
	}
	var text strings.Builder
	text.WriteString("Recent notifications:\n")
	for _, n := range items {
		fmt.Fprintf(&text, "\n%s  %s  %s", n.SentAt.Format(time.DateTime), n.Status, n.HomeworkName)
	}
	return text.String()
}

func statusChoices(sep string) string {
	known := homework.KnownStatuses()
	names := make([]string, len(known))
	for i, st := range known {
		names[i] = string(st)
	}
	return strings.Join(names, sep)
}
