package sbom

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	"github.com/spdx/tools-golang/spdx"
	"github.com/spdx/tools-golang/spdx/v2/common"
	spdx23 "github.com/spdx/tools-golang/spdx/v2/v2_3"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/purl"
	"github.com/EmundoT/git-assess/internal/types"
	"github.com/EmundoT/git-assess/internal/version"
)

// Format represents supported export formats
type Format string

const (
	// FormatCycloneDX is the CycloneDX JSON format
	FormatCycloneDX Format = "cyclonedx"
	// FormatSPDX is the SPDX 2.3 JSON format
	FormatSPDX Format = "spdx"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCycloneDX, FormatSPDX:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want %s or %s)", s, FormatCycloneDX, FormatSPDX)
}

const propertyPrefix = "git-assess:"

// Exporter converts an assessment report into a bill of materials.
type Exporter struct {
	Now     func() time.Time
	NewUUID func() string
}

// NewExporter returns an Exporter using the wall clock and random UUIDs.
func NewExporter() *Exporter {
	return &Exporter{Now: time.Now, NewUUID: uuid.NewString}
}

// Export renders report in the given format.
func (e *Exporter) Export(report *core.Report, format Format) ([]byte, error) {
	subject := subjectOf(report)
	tools := toolsOf(report)
	switch format {
	case FormatCycloneDX:
		return e.cycloneDX(report, subject, tools)
	case FormatSPDX:
		return e.spdx(report, subject, tools)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// subject is the assessed software.
type subject struct {
	Identity
	URL string
}

func subjectOf(report *core.Report) subject {
	var s subject
	if sw := report.AssessedSoftware; sw != nil {
		s = subject{Identity: Identity{Name: sw.Name, Version: sw.Version, Ref: sw.Identifier}, URL: sw.URL}
	}
	s.Name = ValidateProjectName(s.Name)
	return s
}

// tool is one checking software together with the checks it produced.
type tool struct {
	Software core.Software
	Checks   []core.Check
}

// toolsOf groups checks by checking software in first-seen order.
func toolsOf(report *core.Report) []*tool {
	var out []*tool
	index := make(map[string]*tool)
	for _, c := range report.Checks {
		key := c.CheckingSoftware.ID + "\x00" + c.CheckingSoftware.Name + "\x00" + c.CheckingSoftware.Version
		t, ok := index[key]
		if !ok {
			t = &tool{Software: c.CheckingSoftware}
			index[key] = t
			out = append(out, t)
		}
		t.Checks = append(t.Checks, c)
	}
	return out
}

func (t *tool) identity() Identity {
	return Identity{Name: t.Software.Name, Version: t.Software.Version}
}

func (t *tool) comments() []string {
	lines := make([]string, 0, len(t.Checks))
	for _, c := range t.Checks {
		lines = append(lines, CheckComment(c.AssessesIndicator.ID, c.Process, c.Output))
	}
	return lines
}

func (e *Exporter) cycloneDX(report *core.Report, s subject, tools []*tool) ([]byte, error) {
	bom := cdx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + e.NewUUID()
	bom.Version = 1

	main := cdx.Component{
		Type:       cdx.ComponentTypeApplication,
		BOMRef:     GenerateBOMRef(s.Identity),
		Name:       s.Name,
		Version:    s.Version,
		PackageURL: purl.FromTarget(types.RepositoryTarget{URL: s.URL, Ref: s.Ref}, s.Name).String(),
	}
	if s.URL != "" {
		main.ExternalReferences = &[]cdx.ExternalReference{{Type: cdx.ERTypeVCS, URL: s.URL}}
	}
	if supplier := ExtractSupplier(s.URL); supplier != nil {
		main.Supplier = &cdx.OrganizationalEntity{Name: supplier.Name, URL: &[]string{supplier.URL}}
	}
	props := []cdx.Property{{Name: propertyPrefix + "report", Value: report.ID}}
	if s.Ref != "" {
		props = append(props, cdx.Property{Name: propertyPrefix + "ref", Value: s.Ref})
	}
	main.Properties = &props

	bom.Metadata = &cdx.Metadata{
		Timestamp: e.Now().UTC().Format(time.RFC3339),
		Tools: &cdx.ToolsChoice{
			Tools: &[]cdx.Tool{{Vendor: "git-assess", Name: "git-assess", Version: version.GetVersion()}},
		},
		Component: &main,
	}

	components := make([]cdx.Component, 0, len(tools))
	for _, t := range tools {
		c := cdx.Component{
			Type:    cdx.ComponentTypeApplication,
			BOMRef:  GenerateBOMRef(t.identity()),
			Name:    ValidateProjectName(t.Software.Name),
			Version: t.Software.Version,
		}
		if t.Software.ID != "" {
			c.ExternalReferences = &[]cdx.ExternalReference{{Type: cdx.ERTypeWebsite, URL: t.Software.ID}}
		}
		checks := make([]cdx.Property, 0, len(t.Checks))
		for _, line := range t.comments() {
			checks = append(checks, cdx.Property{Name: propertyPrefix + "check", Value: line})
		}
		c.Properties = &checks
		components = append(components, c)
	}
	bom.Components = &components

	var buf strings.Builder
	encoder := cdx.NewBOMEncoder(&buf, cdx.BOMFileFormatJSON)
	encoder.SetPretty(true)
	if err := encoder.Encode(bom); err != nil {
		return nil, fmt.Errorf("encode CycloneDX: %w", err)
	}
	return []byte(buf.String()), nil
}

func (e *Exporter) spdx(report *core.Report, s subject, tools []*tool) ([]byte, error) {
	doc := &spdx23.Document{
		SPDXVersion:       spdx.Version,
		DataLicense:       spdx.DataLicense,
		SPDXIdentifier:    common.ElementID(SPDXDocumentID),
		DocumentName:      s.Name + "-quality-assessment",
		DocumentNamespace: BuildSPDXNamespace("", SanitizeSPDXID(s.Name), e.NewUUID()),
		DocumentComment:   "Generated from assessment " + report.ID,
		CreationInfo: &spdx23.CreationInfo{
			Created: e.Now().UTC().Format(time.RFC3339),
			Creators: []common.Creator{
				{CreatorType: "Tool", Creator: "git-assess-" + version.GetVersion()},
			},
		},
	}

	mainID := common.ElementID(GenerateSPDXID(s.Identity))
	main := &spdx23.Package{
		PackageName:             s.Name,
		PackageSPDXIdentifier:   mainID,
		PackageVersion:          s.Version,
		PackageDownloadLocation: orNoAssertion(s.URL),
		FilesAnalyzed:           false,
		PackageLicenseConcluded: "NOASSERTION",
		PackageLicenseDeclared:  "NOASSERTION",
		PackageCopyrightText:    "NOASSERTION",
		PackageExternalReferences: []*spdx23.PackageExternalReference{{
			Category: common.CategoryPackageManager,
			RefType:  "purl",
			Locator:  purl.FromTarget(types.RepositoryTarget{URL: s.URL, Ref: s.Ref}, s.Name).String(),
		}},
	}
	if supplier := ExtractSupplier(s.URL); supplier != nil {
		main.PackageSupplier = &common.Supplier{SupplierType: "Organization", Supplier: supplier.Name}
	}

	doc.Packages = []*spdx23.Package{main}
	doc.Relationships = []*spdx23.Relationship{{
		RefA:         common.MakeDocElementID("", SPDXDocumentID),
		RefB:         common.MakeDocElementID("", string(mainID)),
		Relationship: "DESCRIBES",
	}}

	for _, t := range tools {
		id := common.ElementID(GenerateSPDXID(t.identity()))
		doc.Packages = append(doc.Packages, &spdx23.Package{
			PackageName:             ValidateProjectName(t.Software.Name),
			PackageSPDXIdentifier:   id,
			PackageVersion:          t.Software.Version,
			PackageDownloadLocation: orNoAssertion(t.Software.ID),
			FilesAnalyzed:           false,
			PackageLicenseConcluded: "NOASSERTION",
			PackageLicenseDeclared:  "NOASSERTION",
			PackageCopyrightText:    "NOASSERTION",
			PackageComment:          strings.Join(t.comments(), "\n"),
		})
		doc.Relationships = append(doc.Relationships, &spdx23.Relationship{
			RefA:         common.MakeDocElementID("", string(id)),
			RefB:         common.MakeDocElementID("", string(mainID)),
			Relationship: "TEST_TOOL_OF",
		})
	}

	// The library's struct tags and identifier marshalers produce SPDX 2.3 JSON.
	return json.MarshalIndent(doc, "", "  ")
}

func orNoAssertion(s string) string {
	if s == "" {
		return "NOASSERTION"
	}
	return s
}
