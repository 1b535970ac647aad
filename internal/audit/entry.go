package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Intake event names.
const (
	EventSubmitted = "contact_submitted"
	EventFailed    = "contact_failed"
	EventRejected  = "contact_rejected"
)

// Entry is one line in the hash-chained JSONL audit log.
// Fields are plain strings so json.Marshal output is stable for hashing.
// Entries identify the submitter only by EmailHash and never carry the message.
type Entry struct {
	Timestamp    string `json:"ts"`
	Event        string `json:"event"`
	SubmissionID string `json:"submission_id"`
	Service      string `json:"service,omitempty"`
	EmailHash    string `json:"email_hash,omitempty"`
	ProviderID   string `json:"provider_id,omitempty"`
	Detail       string `json:"detail,omitempty"`
	PrevHash     string `json:"prev_hash"`
}

// HashEmail returns the sha256 of the normalized address.
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	h := sha256.Sum256([]byte(email))
	return "sha256:" + hex.EncodeToString(h[:])
}
