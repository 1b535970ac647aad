package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kroneus/kroneus-site/internal/model"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	c := Builtin()
	if c.Len() != 10 {
		t.Fatalf("expected 10 builtin scenarios, got %d", c.Len())
	}
	if err := Validate(c); err != nil {
		t.Fatalf("builtin catalog failed validation: %v", err)
	}
}

func TestBuiltinLookup(t *testing.T) {
	s, ok := Builtin().Lookup("retail-dynamic-pricing")
	if !ok {
		t.Fatal("expected retail-dynamic-pricing in builtin catalog")
	}
	if s.Name != "Retail: Dynamic Pricing Attack" {
		t.Errorf("unexpected name %q", s.Name)
	}
	if s.Outcome != model.Blocked || s.StopLayer != 1 {
		t.Errorf("expected blocked@1, got %s@%d", s.Outcome, s.StopLayer)
	}
}

func TestGetUnknownScenario(t *testing.T) {
	_, err := Builtin().Get("nope")
	if !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestByIndustryPreservesOrder(t *testing.T) {
	groups := Builtin().ByIndustry()
	want := []string{"Banking", "Retail", "Autonomous Vehicles", "Enterprise IT"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, g := range groups {
		if g.Industry != want[i] {
			t.Errorf("group %d: expected %q, got %q", i, want[i], g.Industry)
		}
	}
	if len(groups[0].Scenarios) != 3 {
		t.Errorf("expected 3 banking scenarios, got %d", len(groups[0].Scenarios))
	}
}

func TestLoadEmptyPathReturnsBuiltin(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c != Builtin() {
		t.Error("expected builtin catalog for empty path")
	}
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "scenarios.json", `{
  "scenarios": [
    {"id": "a", "name": "A", "industry": "Retail", "description": "d",
     "outcome": "blocked", "stopLayer": 2, "severity": "CRITICAL", "reason": "r",
     "icon": "ignored"}
  ]
}`)

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 scenario, got %d", c.Len())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "scenarios.yaml", `
scenarios:
  - id: upd
    name: "Account update"
    industry: Banking
    description: "update"
    outcome: auth_required
    authLevel: MFA
    severity: ELEVATED
    reason: "needs mfa"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := c.Lookup("upd")
	if !ok || s.AuthLevel != "MFA" {
		t.Fatalf("expected upd with MFA, got %+v (ok=%v)", s, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSchemaRejectsUnknownOutcome(t *testing.T) {
	_, err := Parse([]byte(`{"scenarios":[{"id":"x","name":"x","industry":"i","description":"d",
		"outcome":"quarantined","severity":"s","reason":"r"}]}`), EncodingJSON)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSchemaRequiresScenariosKey(t *testing.T) {
	_, err := Parse([]byte(`{"items": []}`), EncodingJSON)
	if err == nil {
		t.Fatal("expected error for missing scenarios key")
	}
}

func TestValidateBlockedNeedsStopLayer(t *testing.T) {
	c := newCatalog([]model.Scenario{
		{ID: "b", Name: "B", Outcome: model.Blocked},
	})
	err := Validate(c)
	if err == nil || !strings.Contains(err.Error(), "stopLayer") {
		t.Fatalf("expected stopLayer error, got %v", err)
	}
}

func TestValidateStopLayerBeforeFinalLayer(t *testing.T) {
	c := newCatalog([]model.Scenario{
		{ID: "b", Name: "B", Outcome: model.Blocked, StopLayer: model.LayerCount},
	})
	if err := Validate(c); err == nil {
		t.Fatal("expected error for stopLayer on the final layer")
	}
}

func TestValidateAuthRequiredNeedsLevel(t *testing.T) {
	c := newCatalog([]model.Scenario{
		{ID: "a", Name: "A", Outcome: model.AuthRequired},
	})
	err := Validate(c)
	if err == nil || !strings.Contains(err.Error(), "authLevel") {
		t.Fatalf("expected authLevel error, got %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := newCatalog([]model.Scenario{
		{ID: "dup", Name: "one", Outcome: model.Allowed},
		{ID: "dup", Name: "two", Outcome: model.Allowed, StopLayer: 2},
		{ID: "", Name: "", Outcome: "nope"},
	})
	err := Validate(c)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) < 4 {
		t.Errorf("expected at least 4 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "scenarios.json", `{"scenarios":[
		{"id":"a","name":"A","industry":"i","description":"d","outcome":"allowed","severity":"SAFE","reason":"r"}]}`)

	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}

	writeCatalog(t, dir, "scenarios.json", `{"scenarios": "broken"}`)
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload error for broken catalog")
	}
	if _, ok := store.Catalog().Lookup("a"); !ok {
		t.Fatal("expected previous catalog to stay active")
	}

	writeCatalog(t, dir, "scenarios.json", `{"scenarios":[
		{"id":"b","name":"B","industry":"i","description":"d","outcome":"allowed","severity":"SAFE","reason":"r"}]}`)
	if err := store.Reload(); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Catalog().Lookup("b"); !ok {
		t.Fatal("expected reloaded catalog")
	}
}

func TestFormatTextGroupsByIndustry(t *testing.T) {
	out := FormatText(Builtin())
	if !strings.HasPrefix(out, "10 scenarios in catalog") {
		t.Errorf("unexpected header: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "retail-dynamic-pricing") || !strings.Contains(out, "blocked@1") {
		t.Error("expected retail-dynamic-pricing listed as blocked@1")
	}
	if !strings.Contains(out, "auth:mfa") {
		t.Error("expected auth label for MFA scenario")
	}
}

func TestFormatJSONWireShape(t *testing.T) {
	out, err := FormatJSON(Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"scenarios"`) || !strings.Contains(out, `"stopLayer": 3`) {
		t.Error("expected wire shape with scenarios and stopLayer")
	}
}
