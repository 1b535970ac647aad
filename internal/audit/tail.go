package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TailFilter selects entries for Tail. Zero values mean no constraint.
type TailFilter struct {
	Event string
	From  time.Time
	To    time.Time
	Limit int // keep only the last Limit matches
}

// Summary counts entries by event.
type Summary struct {
	Total          int    `json:"total"`
	Submitted      int    `json:"submitted"`
	Failed         int    `json:"failed"`
	Rejected       int    `json:"rejected"`
	FirstTimestamp string `json:"first_timestamp,omitempty"`
	LastTimestamp  string `json:"last_timestamp,omitempty"`
}

// TailResult holds the selected entries and a summary over them.
type TailResult struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Tail reads the audit log and returns the matching entries, oldest first.
// Malformed lines are skipped; use Verify to detect them.
func Tail(path string, filter TailFilter) (*TailResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if !filter.matches(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[len(entries)-filter.Limit:]
	}

	result := &TailResult{Entries: entries}
	for _, e := range entries {
		result.Summary.add(e)
	}
	return result, nil
}

func (f TailFilter) matches(e Entry) bool {
	if f.Event != "" && e.Event != f.Event {
		return false
	}
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	ts, err := time.Parse(TimestampFormat, e.Timestamp)
	if err != nil {
		return false
	}
	if !f.From.IsZero() && ts.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && ts.After(f.To) {
		return false
	}
	return true
}

func (s *Summary) add(e Entry) {
	s.Total++
	switch e.Event {
	case EventSubmitted:
		s.Submitted++
	case EventFailed:
		s.Failed++
	case EventRejected:
		s.Rejected++
	}
	if s.FirstTimestamp == "" {
		s.FirstTimestamp = e.Timestamp
	}
	s.LastTimestamp = e.Timestamp
}
