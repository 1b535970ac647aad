package alert

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 3
)

// Sender posts alert payloads with retry on 5xx and transport errors.
type Sender struct {
	client *resty.Client
}

// NewSender creates a Sender with the default timeout and retry policy.
func NewSender() *Sender {
	return newSender(time.Second)
}

func newSender(wait time.Duration) *Sender {
	client := resty.New().
		SetTimeout(requestTimeout).
		SetRetryCount(maxRetries-1).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(maxRetries * wait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Sender{client: client}
}

// Send posts an alert event to a webhook endpoint.
func (s *Sender) Send(cfg AlertConfig, event AlertEvent) error {
	body, err := FormatPayload(cfg.Format, event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.Headers).
		SetBody(body).
		Post(cfg.URL)
	if err != nil {
		return fmt.Errorf("webhook failed after %d attempts: %w", maxRetries, err)
	}

	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 400 && code < 500:
		return fmt.Errorf("webhook rejected: HTTP %d", code)
	default:
		return fmt.Errorf("webhook failed after %d attempts: HTTP %d", maxRetries, code)
	}
}
