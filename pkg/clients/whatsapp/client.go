package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/oliveraq/internal/config"
)

// MaxBodyLength is the Cloud API limit for a text body, in runes.
const MaxBodyLength = 4096

// ErrEmptyRecipient is returned before any request when To is blank.
var ErrEmptyRecipient = errors.New("whatsapp: empty recipient")

// Client sends text notifications.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error)
}

// APIClient talks to the Cloud API through resty.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient targets <BaseURL>/<APIVersion> with the configured bearer token.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.APIVersion

	rc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{http: rc, phoneNumberID: cfg.PhoneNumberID}
}

// SendTextMessageRequest is a plain text message to one recipient.
type SendTextMessageRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendTextMessageResponse holds the ids of accepted messages.
type SendTextMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID returns the id of the first accepted message, "" when none.
func (r *SendTextMessageResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// APIError is a non-2xx answer. Code is the Graph error code when present,
// otherwise the HTTP status.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: code=%d, message=%s", e.Code, e.Message)
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	if strings.TrimSpace(req.To) == "" {
		return nil, ErrEmptyRecipient
	}

	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               req.To,
		Type:             "text",
		Text:             textBody{Body: truncate(req.Body, MaxBodyLength), PreviewURL: req.PreviewURL},
	}

	var (
		result   SendTextMessageResponse
		envelope errorEnvelope
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&envelope).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode(), Code: resp.StatusCode(), Message: envelope.Error.Message}
		if envelope.Error.Code != 0 {
			apiErr.Code = envelope.Error.Code
		}
		return nil, apiErr
	}
	return &result, nil
}

// truncate keeps at most limit runes, marking the cut with an ellipsis.
func truncate(body string, limit int) string {
	if utf8.RuneCountInString(body) <= limit {
		return body
	}
	runes := []rune(body)
	return string(runes[:limit-1]) + "…"
}
