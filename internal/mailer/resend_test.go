package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		From:    "KRONEUS <noreply@kroneus.test>",
		To:      []string{"sales@kroneus.test"},
		ReplyTo: "jane@example.com",
		Subject: "New Contact Request from Jane",
		HTML:    "<p>hi</p>",
	}
}

func TestNewResendRequiresAPIKey(t *testing.T) {
	_, err := NewResend(ResendConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewResend(ResendConfig{APIKey: "   "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestResendSendsMessage(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	s, err := NewResend(ResendConfig{Endpoint: srv.URL, APIKey: "re_test"})
	require.NoError(t, err)

	id, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, testMessage(), got)
}

func TestResendRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_retry"}`))
	}))
	defer srv.Close()

	s, err := NewResend(ResendConfig{Endpoint: srv.URL, APIKey: "k", Retries: 3, RetryWait: time.Millisecond})
	require.NoError(t, err)

	id, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "msg_retry", id)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestResendDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"invalid from"}`))
	}))
	defer srv.Close()

	s, err := NewResend(ResendConfig{Endpoint: srv.URL, APIKey: "k", Retries: 3, RetryWait: time.Millisecond})
	require.NoError(t, err)

	_, err = s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
	assert.Contains(t, err.Error(), "invalid from")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestLogSenderNeverFails(t *testing.T) {
	id, err := NewLogSender(nil).Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "log", id)
}
