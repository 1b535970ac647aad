package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intake.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open audit log: %v", err)
	}
	return l, path
}

func testEntry(event string) Entry {
	return Entry{
		Timestamp:    time.Now().UTC().Format(TimestampFormat),
		Event:        event,
		SubmissionID: "s-test123",
		Service:      "Security Audit",
		EmailHash:    HashEmail("jane@example.com"),
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func writeLines(t *testing.T, path string, lines []string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSequentialWritesProduceValidChain(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 5; i++ {
		if err := l.Record(testEntry(EventSubmitted)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTamperedEntry(t *testing.T) {
	l, path := newTestLog(t)
	for i := 0; i < 3; i++ {
		l.Record(testEntry(EventSubmitted))
	}
	l.Close()

	lines := readLines(t, path)
	lines[1] = strings.Replace(lines[1], EventSubmitted, EventFailed, 1)
	writeLines(t, path, lines)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if result.ErrorLine != 3 {
		t.Fatalf("expected error at line 3, got line %d", result.ErrorLine)
	}
}

func TestVerifyDetectsDeletedEntry(t *testing.T) {
	l, path := newTestLog(t)
	for i := 0; i < 3; i++ {
		l.Record(testEntry(EventSubmitted))
	}
	l.Close()

	lines := readLines(t, path)
	writeLines(t, path, []string{lines[0], lines[2]})

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected chain with deleted entry to be invalid")
	}
	if result.ErrorLine != 2 {
		t.Fatalf("expected error at line 2, got line %d", result.ErrorLine)
	}
}

func TestVerifyDetectsForgedFirstEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forged.jsonl")
	fake := testEntry(EventSubmitted)
	fake.PrevHash = "sha256:fake"
	data, _ := json.Marshal(fake)
	writeLines(t, path, []string{string(data)})

	result := Verify(path)
	if result.Valid || result.ErrorLine != 1 {
		t.Fatalf("expected failure at line 1, got %+v", result)
	}
}

func TestEmptyLogPassesVerification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	os.WriteFile(path, []byte{}, 0o644)

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected empty log to be valid, got: %s", result.Error)
	}
	if result.Lines != 0 {
		t.Fatalf("expected 0 lines, got %d", result.Lines)
	}
}

func TestVerifyMissingFile(t *testing.T) {
	result := Verify(filepath.Join(t.TempDir(), "nope.jsonl"))
	if result.Valid || !strings.HasPrefix(result.Error, "open:") {
		t.Fatalf("expected open error, got %+v", result)
	}
}

func TestConcurrentWritesSerializeCorrectly(t *testing.T) {
	l, path := newTestLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(testEntry(EventSubmitted))
		}()
	}
	wg.Wait()
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain after concurrent writes, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 100 {
		t.Fatalf("expected 100 lines, got %d", result.Lines)
	}
}

func TestOpenExistingLogContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.jsonl")

	l1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		l1.Record(testEntry(EventSubmitted))
	}
	l1.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		l2.Record(testEntry(EventFailed))
	}
	l2.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain after reopen, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestRecordFillsTimestampAndGenesis(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(Entry{Event: EventRejected, SubmissionID: "s-1"})
	l.Close()

	var entry Entry
	if err := json.Unmarshal([]byte(readLines(t, path)[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.PrevHash != GenesisHash {
		t.Fatalf("expected genesis hash %s, got %s", GenesisHash, entry.PrevHash)
	}
	if _, err := time.Parse(TimestampFormat, entry.Timestamp); err != nil {
		t.Fatalf("timestamp %q not in %s: %v", entry.Timestamp, TimestampFormat, err)
	}
}

func TestHashLineIsDeterministic(t *testing.T) {
	line := []byte(`{"ts":"2026-01-15T10:30:00.000Z","event":"contact_submitted","submission_id":"s-abc","prev_hash":"sha256:def"}`)
	h1 := HashLine(line)
	h2 := HashLine(line)
	if h1 != h2 {
		t.Fatalf("expected same hash, got %s and %s", h1, h2)
	}
	if !strings.HasPrefix(h1, "sha256:") || len(h1) != 7+64 {
		t.Fatalf("unexpected hash format %s", h1)
	}
}

func TestHashEmailNormalizes(t *testing.T) {
	if HashEmail(" Jane@Example.com ") != HashEmail("jane@example.com") {
		t.Fatal("expected case and whitespace to be ignored")
	}
	if HashEmail("   ") != "" {
		t.Fatal("expected empty hash for blank address")
	}
	if strings.Contains(HashEmail("jane@example.com"), "jane") {
		t.Fatal("hash leaks the address")
	}
}

func TestTailFiltersAndLimits(t *testing.T) {
	l, path := newTestLog(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []string{EventSubmitted, EventFailed, EventSubmitted, EventRejected, EventSubmitted}
	for i, ev := range events {
		e := testEntry(ev)
		e.Timestamp = base.Add(time.Duration(i) * time.Minute).Format(TimestampFormat)
		if err := l.Record(e); err != nil {
			t.Fatal(err)
		}
	}
	l.Close()

	all, err := Tail(path, TailFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if all.Summary.Total != 5 || all.Summary.Submitted != 3 || all.Summary.Failed != 1 || all.Summary.Rejected != 1 {
		t.Fatalf("unexpected summary %+v", all.Summary)
	}

	submitted, _ := Tail(path, TailFilter{Event: EventSubmitted, Limit: 2})
	if len(submitted.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(submitted.Entries))
	}
	if submitted.Entries[1].Timestamp != base.Add(4*time.Minute).Format(TimestampFormat) {
		t.Fatalf("expected newest entry last, got %s", submitted.Entries[1].Timestamp)
	}

	window, _ := Tail(path, TailFilter{From: base.Add(time.Minute), To: base.Add(3 * time.Minute)})
	if window.Summary.Total != 3 {
		t.Fatalf("expected 3 entries in window, got %d", window.Summary.Total)
	}
}

func TestTailMissingFile(t *testing.T) {
	if _, err := Tail(filepath.Join(t.TempDir(), "nope.jsonl"), TailFilter{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatTimeline(t *testing.T) {
	result := &TailResult{Entries: []Entry{
		{Timestamp: "2026-03-01T12:00:00.000Z", Event: EventSubmitted, SubmissionID: "s-1", Service: "Consulting"},
		{Timestamp: "2026-03-01T12:05:00.000Z", Event: EventFailed, SubmissionID: "s-2", Service: "Consulting", Detail: "HTTP 502"},
	}}
	for _, e := range result.Entries {
		result.Summary.add(e)
	}

	out := FormatTimeline(result)
	for _, want := range []string{"2026-03-01 12:00:00", "s-2", "HTTP 502", "2 total, 1 submitted, 1 failed, 0 rejected"} {
		if !strings.Contains(out, want) {
			t.Errorf("timeline missing %q:\n%s", want, out)
		}
	}

	if FormatTimeline(&TailResult{}) != "No entries found.\n" {
		t.Error("expected empty marker")
	}
}
