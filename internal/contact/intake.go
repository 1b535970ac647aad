package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kroneus/kroneus-site/internal/alert"
	"github.com/kroneus/kroneus-site/internal/audit"
	"github.com/kroneus/kroneus-site/internal/mailer"
	"github.com/kroneus/kroneus-site/internal/telemetry"
)

// Config holds the fixed envelope of every notification.
type Config struct {
	From string
	To   []string
}

// Recorder persists intake events. *audit.Log satisfies it.
type Recorder interface {
	Record(entry audit.Entry) error
}

// Notifier fans out intake events. *alert.Dispatcher satisfies it.
type Notifier interface {
	Dispatch(event alert.AlertEvent)
}

// Option configures an Intake.
type Option func(*Intake)

// WithRecorder sets the audit recorder.
func WithRecorder(r Recorder) Option { return func(in *Intake) { in.recorder = r } }

// WithNotifier sets the alert notifier.
func WithNotifier(n Notifier) Option { return func(in *Intake) { in.notifier = n } }

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) Option { return func(in *Intake) { in.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(in *Intake) { in.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(in *Intake) { in.now = now } }

// Intake validates submissions and sends them through a mailer.
type Intake struct {
	cfg      Config
	sender   mailer.Sender
	recorder Recorder
	notifier Notifier
	metrics  *telemetry.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewIntake creates an Intake.
func NewIntake(cfg Config, sender mailer.Sender, opts ...Option) *Intake {
	in := &Intake{
		cfg:    cfg,
		sender: sender,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Submit validates sub and emails it. It is not idempotent: every call sends.
func (in *Intake) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	id := uuid.NewString()
	now := in.now().UTC()

	if missing := sub.Missing(); len(missing) > 0 {
		in.record(audit.Entry{
			Event:        audit.EventRejected,
			SubmissionID: id,
			Detail:       "missing " + strings.Join(missing, ","),
		})
		in.metrics.SubmissionRecorded(ctx, "invalid")
		return Receipt{}, &ValidationError{Fields: missing}
	}

	html, err := RenderEmail(sub, now)
	if err != nil {
		return Receipt{}, err
	}

	msg := mailer.Message{
		From:    in.cfg.From,
		To:      in.cfg.To,
		ReplyTo: strings.TrimSpace(sub.Email),
		Subject: Subject(sub),
		HTML:    html,
	}

	providerID, err := in.sender.Send(ctx, msg)
	if err != nil {
		in.logger.Error("contact delivery failed",
			zap.String("submission_id", id),
			zap.String("service", sub.Service),
			zap.Error(err),
		)
		in.record(audit.Entry{
			Event:        audit.EventFailed,
			SubmissionID: id,
			Service:      sub.Service,
			EmailHash:    audit.HashEmail(sub.Email),
			Detail:       err.Error(),
		})
		in.notify(alert.EventContactFailed, id, sub.Service, err.Error(), now)
		in.metrics.SubmissionRecorded(ctx, "failed")
		return Receipt{}, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	in.logger.Info("contact submission delivered",
		zap.String("submission_id", id),
		zap.String("service", sub.Service),
		zap.String("provider_id", providerID),
	)
	in.record(audit.Entry{
		Event:        audit.EventSubmitted,
		SubmissionID: id,
		Service:      sub.Service,
		EmailHash:    audit.HashEmail(sub.Email),
		ProviderID:   providerID,
	})
	in.notify(alert.EventContactSubmitted, id, sub.Service, "", now)
	in.metrics.SubmissionRecorded(ctx, "sent")

	return Receipt{ID: id, ProviderID: providerID, SubmittedAt: now}, nil
}

func (in *Intake) record(entry audit.Entry) {
	if in.recorder == nil {
		return
	}
	if err := in.recorder.Record(entry); err != nil {
		in.logger.Warn("audit record failed", zap.String("submission_id", entry.SubmissionID), zap.Error(err))
	}
}

func (in *Intake) notify(eventType, id, service, detail string, now time.Time) {
	if in.notifier == nil {
		return
	}
	in.notifier.Dispatch(alert.AlertEvent{
		Timestamp:    now.Format(audit.TimestampFormat),
		Type:         eventType,
		SubmissionID: id,
		Service:      service,
		Detail:       detail,
	})
}
