package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultEndpoint is the Resend API base URL.
const DefaultEndpoint = "https://api.resend.com"

// ResendConfig configures the Resend client.
type ResendConfig struct {
	Endpoint  string
	APIKey    string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// Resend sends mail through the Resend HTTP API.
type Resend struct {
	client *resty.Client
}

type resendResult struct {
	ID string `json:"id"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// NewResend builds a client. It refuses to start without an API key.
func NewResend(cfg ResendConfig) (*Resend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	return &Resend{client: client}, nil
}

// Send posts the message to /emails. 4xx responses are not retried.
func (s *Resend) Send(ctx context.Context, msg Message) (string, error) {
	var (
		result resendResult
		apiErr resendError
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&result).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	if resp.IsError() {
		detail := apiErr.Message
		if detail == "" {
			detail = http.StatusText(resp.StatusCode())
		}
		return "", fmt.Errorf("resend rejected: HTTP %d: %s", resp.StatusCode(), detail)
	}
	return result.ID, nil
}
