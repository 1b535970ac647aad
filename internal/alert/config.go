package alert

// Event types.
const (
	EventContactSubmitted = "contact_submitted"
	EventContactFailed    = "contact_failed"
)

// AlertConfig defines a webhook alert destination.
type AlertConfig struct {
	URL     string            `yaml:"url"     json:"url"     mapstructure:"url"`
	Format  string            `yaml:"format"  json:"format"  mapstructure:"format"` // "generic", "slack"
	Events  []string          `yaml:"events"  json:"events"  mapstructure:"events"` // ["contact_submitted", "contact_failed"]
	Headers map[string]string `yaml:"headers" json:"headers" mapstructure:"headers"`
}

// AlertEvent is the payload sent to webhook endpoints.
// It never carries the submitter's message or contact details.
type AlertEvent struct {
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	SubmissionID string `json:"submission_id"`
	Service      string `json:"service"`
	Detail       string `json:"detail,omitempty"`
}
