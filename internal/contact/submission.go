// Package contact validates contact-form submissions and delivers them by email.
package contact

import (
	"errors"
	"strings"
	"time"
)

// ErrDelivery wraps any mailer failure. Callers show a generic message.
var ErrDelivery = errors.New("contact: email delivery failed")

// Submission is the contact form payload. Every field is required.
type Submission struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Message  string `json:"message"`
}

// Missing returns the JSON names of empty or whitespace-only fields, in form order.
func (s Submission) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", s.FullName},
		{"email", s.Email},
		{"phone", s.Phone},
		{"service", s.Service},
		{"message", s.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ValidationError reports the fields a submission is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "contact: missing required fields: " + strings.Join(e.Fields, ", ")
}

// Receipt identifies an accepted submission.
type Receipt struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"providerId"`
	SubmittedAt time.Time `json:"submittedAt"`
}
