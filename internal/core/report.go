package core

import (
	"encoding/json"
	"fmt"
	"os"
)

// Fixed vocabulary of the report document.
const (
	ReportContext     = "https://w3id.org/everse/rsqa/0.0.1/"
	ReportType        = "SoftwareQualityAssessment"
	ReportLicense     = "https://creativecommons.org/publicdomain/zero/1.0/"
	checkResultType   = "CheckResult"
	personType        = "schema:Person"
	softwareType      = "schema:SoftwareApplication"
	reportNamePrefix  = "Quality assessment"
	maxReportFileSize = 16 << 20
)

// Report is the serialized assessment document consumed downstream.
// Field names and presence are part of the exchange format.
type Report struct {
	Context          string    `json:"@context"`
	Type             string    `json:"@type"`
	ID               string    `json:"@id"`
	Name             string    `json:"name"`
	DateCreated      string    `json:"dateCreated"`
	License          Ref       `json:"license"`
	Creator          *Person   `json:"creator,omitempty"`
	AssessedSoftware *Software `json:"assessedSoftware,omitempty"`
	Checks           []Check   `json:"checks"`
}

// Ref is a JSON-LD node reference.
type Ref struct {
	ID string `json:"@id"`
}

type Person struct {
	Type  string `json:"@type"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Software describes either the assessed software or a checking tool.
type Software struct {
	Type       string `json:"@type"`
	Name       string `json:"name,omitempty"`
	ID         string `json:"@id,omitempty"`
	Version    string `json:"softwareVersion,omitempty"`
	URL        string `json:"url,omitempty"`
	Identifier string `json:"schema:identifier,omitempty"`
}

// Check is one indicator verdict in the report.
type Check struct {
	Type              string   `json:"@type"`
	AssessesIndicator Ref      `json:"assessesIndicator"`
	CheckingSoftware  Software `json:"checkingSoftware"`
	Process           string   `json:"process"`
	Status            Ref      `json:"status"`
	Output            string   `json:"output"`
	Evidence          string   `json:"evidence"`
}

// ReadReport loads a report written by Summary.Persist.
func ReadReport(path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxReportFileSize {
		return nil, fmt.Errorf("%s exceeds maximum size (%d bytes > %d byte limit)", path, info.Size(), maxReportFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", path, err)
	}
	return &report, nil
}
