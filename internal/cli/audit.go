package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kroneus/kroneus-site/internal/audit"
)

var (
	tailLines int
	tailEvent string
	tailSince string
	tailUntil string
	tailJSON  bool
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show (0 for all)")
	auditTailCmd.Flags().StringVar(&tailEvent, "event", "", "Only show one event type (contact_submitted, contact_failed, contact_rejected)")
	auditTailCmd.Flags().StringVar(&tailSince, "since", "", "Only entries at or after this RFC 3339 time")
	auditTailCmd.Flags().StringVar(&tailUntil, "until", "", "Only entries at or before this RFC 3339 time")
	auditTailCmd.Flags().BoolVar(&tailJSON, "json", false, "Output as JSON")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Contact audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained contact audit log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of an audit log",
	Long:  "Walks the JSONL audit log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Show recent audit log entries with a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func parseTime(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	from, err := parseTime("since", tailSince)
	if err != nil {
		return err
	}
	to, err := parseTime("until", tailUntil)
	if err != nil {
		return err
	}

	result, err := audit.Tail(args[0], audit.TailFilter{
		Event: tailEvent,
		From:  from,
		To:    to,
		Limit: tailLines,
	})
	if err != nil {
		return err
	}

	if tailJSON {
		out, err := audit.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), audit.FormatTimeline(result))
	return nil
}
