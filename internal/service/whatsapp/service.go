// Package whatsapp sends report notifications to the manager through the Cloud API.
package whatsapp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/config"
	client "github.com/mamadbah2/oliveraq/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrNoRecipient is returned when neither the message nor the config names a number.
var ErrNoRecipient = errors.New("whatsapp: no recipient")

// Message is a text notification.
type Message struct {
	To         string
	Body       string
	PreviewURL bool
}

// Notifier pushes text to the configured manager number.
type Notifier struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewNotifier wires a notifier over an API client.
func NewNotifier(cfg config.WhatsAppConfig, apiClient client.Client, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{cfg: cfg, client: apiClient, logger: logger}
}

// Notify sends body to the manager.
func (n *Notifier) Notify(ctx context.Context, body string) error {
	return n.Send(ctx, Message{To: n.cfg.ManagerNumber, Body: body})
}

// Send delivers msg with a bounded timeout. An empty To falls back to the manager.
func (n *Notifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		msg.To = n.cfg.ManagerNumber
	}
	if msg.To == "" {
		return ErrNoRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         msg.To,
		Body:       msg.Body,
		PreviewURL: msg.PreviewURL,
	})
	if err != nil {
		return err
	}
	n.logger.Info("whatsapp notification sent", zap.String("to", msg.To), zap.String("message_id", resp.MessageID()))
	return nil
}
