package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/oliveraq/internal/config"
	client "github.com/mamadbah2/oliveraq/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

func TestNotifyTargetsManager(t *testing.T) {
	fake := &fakeClient{}
	n := NewNotifier(config.WhatsAppConfig{ManagerNumber: "21611111111"}, fake, nil)

	if err := n.Notify(context.Background(), "rapport"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fake.sent) != 1 || fake.sent[0].To != "21611111111" || fake.sent[0].Body != "rapport" {
		t.Fatalf("unexpected request %+v", fake.sent)
	}
}

func TestSendWithoutRecipient(t *testing.T) {
	n := NewNotifier(config.WhatsAppConfig{}, &fakeClient{}, nil)
	if err := n.Notify(context.Background(), "x"); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
}

func TestSendPropagatesClientError(t *testing.T) {
	boom := errors.New("boom")
	n := NewNotifier(config.WhatsAppConfig{ManagerNumber: "1"}, &fakeClient{err: boom}, nil)
	if err := n.Send(context.Background(), Message{Body: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected client error, got %v", err)
	}
}
