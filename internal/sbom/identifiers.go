// Package sbom exports assessment reports as CycloneDX and SPDX documents so
// quality verdicts can travel alongside other supply-chain metadata.
package sbom

import (
	"fmt"
	"strings"

	"github.com/EmundoT/git-assess/internal/hostdetect"
	"github.com/EmundoT/git-assess/internal/types"
)

// Identity is the identity of a software element in an exported document.
type Identity struct {
	Name    string
	Version string
	Ref     string // branch, tag or commit hash
}

// ShortRef returns the ref for display. Commit hashes are cut to 7 characters.
func (i Identity) ShortRef() string {
	if types.IsCommitHash(i.Ref) {
		return i.Ref[:7]
	}
	return i.Ref
}

// GenerateBOMRef creates a CycloneDX BOM reference.
// Format: {name}@{short-ref}, or {name}@{version} when no ref is known.
func GenerateBOMRef(i Identity) string {
	name := ValidateProjectName(i.Name)
	switch {
	case i.ShortRef() != "":
		return name + "@" + i.ShortRef()
	case i.Version != "":
		return name + "@" + i.Version
	}
	return name
}

// GenerateSPDXID creates an SPDX package identifier without the "SPDXRef-" prefix.
// Format: Package-{sanitized-name}[-{sanitized-short-ref}]
func GenerateSPDXID(i Identity) string {
	id := "Package-" + SanitizeSPDXID(i.Name)
	if ref := i.ShortRef(); ref != "" {
		id += "-" + SanitizeSPDXID(ref)
	}
	return id
}

// SanitizeSPDXID converts a string to a valid SPDX identifier component.
// SPDX IDs must match the pattern [a-zA-Z0-9.-]+
// Invalid characters are replaced with hyphens.
// Empty input returns "unknown" to prevent invalid IDs.
func SanitizeSPDXID(s string) string {
	if s == "" {
		return "unknown"
	}

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		if isValidSPDXChar(r) {
			result.WriteRune(r)
		} else {
			result.WriteRune('-')
		}
	}

	return result.String()
}

func isValidSPDXChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '.' ||
		r == '-'
}

// SPDXDocumentID is the standard SPDX document identifier.
const SPDXDocumentID = "DOCUMENT"

// FormatSPDXRef formats an SPDX element ID with the required "SPDXRef-" prefix.
func FormatSPDXRef(elementID string) string {
	return "SPDXRef-" + elementID
}

// SupplierInfo holds supplier information extracted from a repository URL.
type SupplierInfo struct {
	Name string // Owner/org name
	URL  string // Full repository URL
}

// ExtractSupplier returns the owner of a repository on a known hosting
// provider, or nil.
func ExtractSupplier(repoURL string) *SupplierInfo {
	info := hostdetect.FromURL(repoURL)
	if info == nil || !hostdetect.IsKnownProvider(info.Provider) {
		return nil
	}
	return &SupplierInfo{Name: info.Owner, URL: repoURL}
}

// CheckComment renders one check as a single line.
// Only includes fields that have values, avoiding empty placeholders.
func CheckComment(indicator, process, output string) string {
	var parts []string

	if indicator != "" {
		parts = append(parts, fmt.Sprintf("indicator=%s", indicator))
	}
	if process != "" {
		parts = append(parts, fmt.Sprintf("process=%s", process))
	}
	if output != "" {
		parts = append(parts, fmt.Sprintf("output=%s", output))
	}

	return strings.Join(parts, ", ")
}

// DefaultProjectName returns a fallback project name when none is provided.
const DefaultProjectName = "unknown-project"

// ValidateProjectName returns name, or DefaultProjectName if it is blank.
func ValidateProjectName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultProjectName
	}
	return name
}

// DefaultSPDXNamespace is the default domain for SPDX document namespaces.
const DefaultSPDXNamespace = "https://spdx.org/spdxdocs"

// BuildSPDXNamespace constructs a unique SPDX document namespace.
// Format: {baseURL}/{projectName}/{uuid}
func BuildSPDXNamespace(baseURL, projectName, uuid string) string {
	if baseURL == "" {
		baseURL = DefaultSPDXNamespace
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), projectName, uuid)
}
