package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EmundoT/git-assess/internal/types"
)

// Record is one accumulated (indicator, checking plugin, result) triple.
type Record struct {
	Indicator types.IndicatorSpec
	Plugin    types.PluginInfo
	Result    types.CheckResult
}

// Summary accumulates check records for one run. It is append-only and safe
// for concurrent use; once serialized it rejects further records.
type Summary struct {
	mu       sync.Mutex
	software types.SoftwareInfo
	records  []Record
	now      func() time.Time
	newID    func() string
	doc      []byte // set by the first Marshal
}

// NewSummary creates an empty summary for the given software.
func NewSummary(software types.SoftwareInfo) *Summary {
	return &Summary{
		software: software,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Software returns the assessed software metadata.
func (s *Summary) Software() types.SoftwareInfo {
	return s.software
}

// Add appends one check record. It fails with ErrSummarySealed after the
// summary has been serialized.
func (s *Summary) Add(indicator types.IndicatorSpec, plugin types.PluginInfo, result types.CheckResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return ErrSummarySealed
	}
	s.records = append(s.records, Record{Indicator: indicator, Plugin: plugin, Result: result})
	return nil
}

// Records returns a copy of the accumulated records in append order.
func (s *Summary) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Document builds the report document as of now.
func (s *Summary) Document(now time.Time) Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document(now)
}

func (s *Summary) document(now time.Time) Report {
	sw := s.software
	report := Report{
		Context:     ReportContext,
		Type:        ReportType,
		ID:          "urn:uuid:" + s.newID(),
		Name:        reportNamePrefix,
		DateCreated: now.UTC().Format(time.RFC3339),
		License:     Ref{ID: ReportLicense},
		Checks:      make([]Check, 0, len(s.records)),
	}
	if sw.Name != "" {
		report.Name = fmt.Sprintf("%s of %s", reportNamePrefix, sw.Name)
	}
	if sw.Author != "" || sw.Email != "" {
		report.Creator = &Person{Type: personType, Name: sw.Author, Email: sw.Email}
	}
	if sw.Name != "" || sw.Version != "" || sw.URL != "" || sw.Ref != "" {
		report.AssessedSoftware = &Software{
			Type:       softwareType,
			Name:       sw.Name,
			Version:    sw.Version,
			URL:        sw.URL,
			Identifier: sw.Ref,
		}
	}
	for _, rec := range s.records {
		report.Checks = append(report.Checks, Check{
			Type:              checkResultType,
			AssessesIndicator: Ref{ID: rec.Indicator.ID},
			CheckingSoftware: Software{
				Type:    softwareType,
				Name:    rec.Plugin.Name,
				ID:      rec.Plugin.ID,
				Version: rec.Plugin.Version,
			},
			Process:  rec.Result.Process,
			Status:   Ref{ID: rec.Result.StatusID},
			Output:   rec.Result.Output,
			Evidence: rec.Result.Evidence,
		})
	}
	return report
}

// Marshal serializes the summary as indented JSON. The first call seals the
// summary; later calls return the same document.
func (s *Summary) Marshal() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return s.doc, nil
	}
	data, err := json.MarshalIndent(s.document(s.now()), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	s.doc = append(data, '\n')
	return s.doc, nil
}

// Persist writes the serialized summary to path. A failed close is reported
// alongside any write error.
func (s *Summary) Persist(path string) (err error) {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", path, cerr))
		}
	}()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
