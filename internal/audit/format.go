package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatTimeline renders a TailResult as a text timeline.
func FormatTimeline(result *TailResult) string {
	if len(result.Entries) == 0 {
		return "No entries found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Intake log | %s – %s UTC\n",
		formatDateTime(result.Summary.FirstTimestamp),
		formatDateTime(result.Summary.LastTimestamp))
	b.WriteString(separator + "\n")

	for _, e := range result.Entries {
		fmt.Fprintf(&b, "%-19s %-18s %-36s %-24s %s\n",
			formatDateTime(e.Timestamp),
			e.Event,
			e.SubmissionID,
			truncate(e.Service, 24),
			truncate(e.Detail, 40))
	}

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Summary: %d total, %d submitted, %d failed, %d rejected\n",
		result.Summary.Total, result.Summary.Submitted, result.Summary.Failed, result.Summary.Rejected)
	return b.String()
}

// FormatJSON renders a TailResult as indented JSON.
func FormatJSON(result *TailResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal tail result: %w", err)
	}
	return string(data), nil
}

func formatDateTime(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
