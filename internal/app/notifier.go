// internal/app/notifier.go
package app

import (
	"context"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Notifier relays text to the single configured chat.
type Notifier struct {
	client domainTelegram.Client
	chatID int64
	logger *logrus.Entry
}

func NewNotifier(client domainTelegram.Client, chatID int64, logger *logrus.Entry) *Notifier {
	return &Notifier{client: client, chatID: chatID, logger: logger}
}

// SendMessage sends text to the configured chat. Transport failures are
// logged and returned as a KindMessageSend error. There is no retry.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return &homework.Error{Kind: homework.KindMessageSend, Op: "SendMessage", Message: "message sending aborted", Err: err}
	}

	if err := n.client.SendMessage(n.chatID, text, nil); err != nil {
		n.logger.WithError(err).WithField("chat_id", n.chatID).Error("Failed to send message")
		return &homework.Error{Kind: homework.KindMessageSend, Op: "SendMessage", Message: "failed to send message", Err: err}
	}
	n.logger.WithField("chat_id", n.chatID).Debug("Message sent")
	return nil
}
