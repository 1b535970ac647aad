package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kroneus/kroneus-site/internal/audit"
	"github.com/kroneus/kroneus-site/internal/chat"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScenariosList(t *testing.T) {
	scenariosJSON = false
	out, err := runRoot(t, "scenarios", "list")
	if err != nil {
		t.Fatalf("scenarios list: %v", err)
	}
	if !strings.Contains(out, "retail-dynamic-pricing") {
		t.Errorf("listing missing retail-dynamic-pricing:\n%s", out)
	}
	if !strings.Contains(out, "blocked@1") {
		t.Errorf("listing missing stop layer label:\n%s", out)
	}
}

func TestScenariosValidateRejectsBadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	bad := `{"scenarios":[{"id":"x","name":"x","industry":"Retail","description":"d","outcome":"blocked","stopLayer":9,"severity":"HIGH","reason":"r"}]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runRoot(t, "scenarios", "validate", path); err == nil {
		t.Fatal("expected validation error for stopLayer 9")
	}
}

func TestDemoPlayPrintsPanel(t *testing.T) {
	demoLive, demoJSON, demoCatalog = false, false, ""
	out, err := runRoot(t, "demo", "play", "retail-dynamic-pricing")
	if err != nil {
		t.Fatalf("demo play: %v", err)
	}
	if !strings.Contains(out, "THREAT BLOCKED") {
		t.Errorf("missing outcome panel:\n%s", out)
	}
	if !strings.Contains(out, "[1/6] Input Validation") {
		t.Errorf("missing first frame:\n%s", out)
	}
	if strings.Contains(out, "[2/6]") {
		t.Errorf("run continued past the stop layer:\n%s", out)
	}
}

func TestDemoPlayUnknownScenario(t *testing.T) {
	demoLive, demoJSON, demoCatalog = false, false, ""
	if _, err := runRoot(t, "demo", "play", "nope"); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestChatSession(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("what is sela\n\nI want a demo\n")
	if err := chatSession(in, &out, chat.NewRouter()); err != nil {
		t.Fatalf("chat session: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "SELA is our AI-native security layer") {
		t.Errorf("missing product reply:\n%s", got)
	}
	if !strings.Contains(got, "-> contact form") {
		t.Errorf("missing contact navigation hint:\n%s", got)
	}
}

func TestAuditTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	log, err := audit.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range []string{audit.EventSubmitted, audit.EventFailed, audit.EventSubmitted} {
		if err := log.Record(audit.Entry{Event: ev, SubmissionID: "s", Service: "Consulting"}); err != nil {
			t.Fatal(err)
		}
	}
	log.Close()

	tailLines, tailEvent, tailSince, tailUntil, tailJSON = 10, "", "", "", false
	out, err := runRoot(t, "audit", "tail", path)
	if err != nil {
		t.Fatalf("audit tail: %v", err)
	}
	if !strings.Contains(out, "3 total, 2 submitted, 1 failed, 0 rejected") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	out, err = runRoot(t, "audit", "verify", path)
	if err != nil {
		t.Fatalf("audit verify: %v", err)
	}
	if !strings.Contains(out, "OK: 3 entries verified") {
		t.Errorf("unexpected verify output:\n%s", out)
	}
}

func TestAuditTailRejectsBadTime(t *testing.T) {
	tailSince = "yesterday"
	defer func() { tailSince = "" }()
	if _, err := runRoot(t, "audit", "tail", "whatever.jsonl"); err == nil {
		t.Fatal("expected error for bad --since")
	}
}
