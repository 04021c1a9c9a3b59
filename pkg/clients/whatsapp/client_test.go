package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mamadbah2/oliveraq/internal/config"
)

func TestSendTextMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v20.0/555/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "tok", PhoneNumberID: "555", BaseURL: srv.URL + "/", APIVersion: "v20.0"})
	resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "21600000000", Body: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.MessageID() != "wamid.1" {
		t.Fatalf("unexpected id %q", resp.MessageID())
	}
	if got["to"] != "21600000000" || got["type"] != "text" {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestSendTextMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad token","code":190}}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "tok", PhoneNumberID: "555", BaseURL: srv.URL, APIVersion: "v20.0"})
	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "x"})
	if err == nil || !strings.Contains(err.Error(), "code=190") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestSendTextMessageAPIErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "tok", PhoneNumberID: "555", BaseURL: srv.URL, APIVersion: "v20.0"})
	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Code != http.StatusBadGateway {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestSendTextMessageRejectsEmptyRecipient(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{AccessToken: "tok", PhoneNumberID: "555", BaseURL: "http://127.0.0.1:1", APIVersion: "v20.0"})
	if _, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: " "}); !errors.Is(err, ErrEmptyRecipient) {
		t.Fatalf("expected ErrEmptyRecipient, got %v", err)
	}
}

func TestTruncateKeepsRuneLimit(t *testing.T) {
	body := strings.Repeat("é", MaxBodyLength+10)
	got := truncate(body, MaxBodyLength)
	if n := utf8.RuneCountInString(got); n != MaxBodyLength {
		t.Fatalf("expected %d runes, got %d", MaxBodyLength, n)
	}
	if truncate("court", MaxBodyLength) != "court" {
		t.Fatal("short bodies must be untouched")
	}
}
