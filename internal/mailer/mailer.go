// Package mailer delivers rendered contact emails.
package mailer

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrMissingAPIKey is returned when a provider that needs a credential has none.
var ErrMissingAPIKey = errors.New("mailer: API key not configured")

// Message is one outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// LogSender writes messages to the log instead of delivering them.
// Used in development when no provider credential is available.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the envelope. The body is not logged.
func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	s.logger.Info("email not delivered (log provider)",
		zap.String("subject", msg.Subject),
		zap.Strings("to", msg.To),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return "log", nil
}
