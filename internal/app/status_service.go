// internal/app/status_service.go
package app

import (
	"context"
	"sync"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// APIClient fetches the raw homework statuses payload.
type APIClient interface {
	GetAPIAnswer(ctx context.Context, fromDate *int64) (any, error)
}

// MessageSender delivers a notification text. Implemented by *Notifier.
type MessageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// StatusService runs one poll iteration at a time: fetch, validate, format, notify.
type StatusService struct {
	api     APIClient
	sender  MessageSender
	history homework.NotificationRepository
	logger  *logrus.Entry
	now     func() time.Time

	mu          sync.RWMutex
	cursor      int64
	lastMessage string
	lastPollAt  time.Time
	lastErr     error
	polls       int
}

// Snapshot is a read-only view of the service state, used by bot commands.
type Snapshot struct {
	Cursor      int64
	LastMessage string
	LastPollAt  time.Time
	LastErr     error
	Polls       int
}

// NewStatusService creates the service with its cursor set to startFrom (unix seconds).
// A nil history disables notification logging.
func NewStatusService(api APIClient, sender MessageSender, history homework.NotificationRepository, startFrom int64, logger *logrus.Entry) *StatusService {
	if history == nil {
		history = NoopNotificationRepository{}
	}
	return &StatusService{
		api:     api,
		sender:  sender,
		history: history,
		logger:  logger,
		now:     time.Now,
		cursor:  startFrom,
	}
}

// PollOnce performs a single iteration. Every failure is returned to the
// caller; the cursor only moves after the iteration fully succeeds.
func (s *StatusService) PollOnce(ctx context.Context) (err error) {
	defer func() { s.recordPoll(err) }()

	s.mu.RLock()
	cursor := s.cursor
	lastMessage := s.lastMessage
	s.mu.RUnlock()

	answer, err := s.api.GetAPIAnswer(ctx, &cursor)
	if err != nil {
		return err
	}
	s.logger.Info("Received API answer")

	homeworks, err := homework.CheckResponse(answer)
	if err != nil {
		return err
	}

	if len(homeworks) == 0 {
		s.logger.Debug("No new statuses")
		s.advanceCursor(answer, "")
		return nil
	}

	message, err := homework.ParseStatus(homeworks[0])
	if err != nil {
		return err
	}
	name, status, _ := homework.ParseRecord(homeworks[0])

	if message == lastMessage {
		s.logger.WithField("homework", name).Debug("Status unchanged since last notification, skipping")
		s.advanceCursor(answer, message)
		return nil
	}

	if err := s.sender.SendMessage(ctx, message); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"homework": name, "status": status}).Info("Status notification sent")

	n := &homework.Notification{HomeworkName: name, Status: status, Message: message, SentAt: s.now()}
	if err := s.history.Save(ctx, n); err != nil {
		s.logger.WithError(err).Warn("Failed to store notification history")
	}

	s.advanceCursor(answer, message)
	return nil
}

// Snapshot returns the current state.
func (s *StatusService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Cursor:      s.cursor,
		LastMessage: s.lastMessage,
		LastPollAt:  s.lastPollAt,
		LastErr:     s.lastErr,
		Polls:       s.polls,
	}
}

// History exposes the notification log for read-only commands.
func (s *StatusService) History() homework.NotificationRepository {
	return s.history
}

// advanceCursor moves the cursor to the server's current_date, when reported,
// and remembers the last relayed message.
func (s *StatusService) advanceCursor(answer any, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message != "" {
		s.lastMessage = message
	}
	if ts, ok := homework.CurrentDate(answer); ok && ts > s.cursor {
		s.logger.WithField("from_date", ts).Debug("Poll cursor advanced")
		s.cursor = ts
	}
}

func (s *StatusService) recordPoll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	s.lastPollAt = s.now()
	s.lastErr = err
}
