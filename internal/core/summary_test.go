package core

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/EmundoT/git-assess/internal/types"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))

func newFixedSummary(sw types.SoftwareInfo) *Summary {
	s := NewSummary(sw)
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string { return "00000000-0000-4000-8000-000000000000" }
	return s
}

func licenseRecord() (types.IndicatorSpec, types.PluginInfo, types.CheckResult) {
	return types.IndicatorSpec{Name: "has_license", Plugin: "HowFairIs", ID: IndicatorIDLicense},
		types.PluginInfo{Name: "HowFairIs", ID: "https://w3id.org/everse/tools/howfairis", Version: "0.14.2"},
		types.CheckResult{
			Process:  "Searches for a file named 'LICENSE' or 'LICENSE.md' in the repository root.",
			StatusID: types.StatusCompleted,
			Output:   "valid",
			Evidence: "Found license file: 'LICENSE'.",
			Success:  true,
		}
}

func TestSummary_Document(t *testing.T) {
	s := newFixedSummary(types.SoftwareInfo{
		Name: "project", Version: "v1.2.0", URL: "https://github.com/org/project",
		Author: "Ada", Email: "ada@example.org", Ref: "main",
	})
	if err := s.Add(licenseRecord()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := s.Document(fixedNow)
	want := Report{
		Context:     ReportContext,
		Type:        ReportType,
		ID:          "urn:uuid:00000000-0000-4000-8000-000000000000",
		Name:        "Quality assessment of project",
		DateCreated: "2025-03-14T08:26:53Z",
		License:     Ref{ID: ReportLicense},
		Creator:     &Person{Type: "schema:Person", Name: "Ada", Email: "ada@example.org"},
		AssessedSoftware: &Software{
			Type: "schema:SoftwareApplication", Name: "project", Version: "v1.2.0",
			URL: "https://github.com/org/project", Identifier: "main",
		},
		Checks: []Check{{
			Type:              "CheckResult",
			AssessesIndicator: Ref{ID: IndicatorIDLicense},
			CheckingSoftware: Software{
				Type: "schema:SoftwareApplication", Name: "HowFairIs",
				ID: "https://w3id.org/everse/tools/howfairis", Version: "0.14.2",
			},
			Process:  "Searches for a file named 'LICENSE' or 'LICENSE.md' in the repository root.",
			Status:   Ref{ID: types.StatusCompleted},
			Output:   "valid",
			Evidence: "Found license file: 'LICENSE'.",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Document mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_OmitsUnknownMetadata(t *testing.T) {
	data, err := newFixedSummary(types.SoftwareInfo{}).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"creator", "assessedSoftware"} {
		if _, ok := raw[key]; ok {
			t.Errorf("%s should be omitted when unknown", key)
		}
	}
	if checks, ok := raw["checks"].([]any); !ok || len(checks) != 0 {
		t.Errorf("checks should be an empty array, got %#v", raw["checks"])
	}
	if raw["name"] != "Quality assessment" {
		t.Errorf("name = %v", raw["name"])
	}
}

func TestSummary_PersistRoundTrip(t *testing.T) {
	s := newFixedSummary(types.SoftwareInfo{Name: "project", URL: "https://github.com/org/project"})
	ind, info, res := licenseRecord()
	mustAdd(t, s, ind, info, res)
	mustAdd(t, s, types.IndicatorSpec{Name: "has_ci_tests", Plugin: "OpenSSFScorecard", ID: "missing"},
		types.PluginInfo{Name: "OpenSSF Scorecard", ID: "https://github.com/ossf/scorecard", Version: "v5.1.1"},
		types.CheckResult{Process: "Calculates the CI-Tests score.", StatusID: types.StatusCompleted,
			Output: "false", Evidence: `CI-Tests score is less than 5 (0). "quoted" & <escaped>`})

	path := filepath.Join(t.TempDir(), "summary.json")
	if err := s.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	read, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if diff := cmp.Diff(s.Document(fixedNow), *read); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_SealedAfterMarshal(t *testing.T) {
	s := newFixedSummary(types.SoftwareInfo{})
	first, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := s.Add(licenseRecord()); !errors.Is(err, ErrSummarySealed) {
		t.Errorf("Add after Marshal: expected ErrSummarySealed, got %v", err)
	}
	second, err := s.Marshal()
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Error("a sealed summary must serialize to the same document")
	}
}

func TestSummary_ConcurrentAdd(t *testing.T) {
	s := NewSummary(types.SoftwareInfo{})
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Add(licenseRecord()); err != nil {
				t.Errorf("Add: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := len(s.Records()); n != 50 {
		t.Errorf("expected 50 records, got %d", n)
	}
}

func TestSummary_PersistCreateFailure(t *testing.T) {
	s := newFixedSummary(types.SoftwareInfo{})
	err := s.Persist(filepath.Join(t.TempDir(), "missing", "summary.json"))
	if err == nil || !strings.Contains(err.Error(), "create") {
		t.Errorf("expected create error, got %v", err)
	}
}

func TestSummary_UniqueIDs(t *testing.T) {
	a := NewSummary(types.SoftwareInfo{}).Document(fixedNow)
	b := NewSummary(types.SoftwareInfo{}).Document(fixedNow)
	if a.ID == b.ID || !strings.HasPrefix(a.ID, "urn:uuid:") {
		t.Errorf("expected distinct urn:uuid ids, got %q and %q", a.ID, b.ID)
	}
}

func TestReadReport_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReport(bad); err == nil || !strings.Contains(err.Error(), "invalid report") {
		t.Errorf("expected invalid report error, got %v", err)
	}
	if _, err := ReadReport(filepath.Join(dir, "absent.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func mustAdd(t *testing.T, s *Summary, ind types.IndicatorSpec, info types.PluginInfo, res types.CheckResult) {
	t.Helper()
	if err := s.Add(ind, info, res); err != nil {
		t.Fatalf("Add: %v", err)
	}
}
