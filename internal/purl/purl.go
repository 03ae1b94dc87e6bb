// Package purl builds Package URLs for assessed repositories.
// See: https://github.com/package-url/purl-spec
package purl

import (
	"net/url"
	"slices"
	"strings"

	"github.com/EmundoT/git-assess/internal/hostdetect"
	"github.com/EmundoT/git-assess/internal/types"
)

// Type represents the package type in a PURL
type Type string

// PURL type constants for common git hosting providers
const (
	TypeGitHub    Type = "github"
	TypeGitLab    Type = "gitlab"
	TypeBitbucket Type = "bitbucket"
	TypeGeneric   Type = "generic"
)

// PURL represents a parsed Package URL
type PURL struct {
	Type       Type
	Namespace  string // owner or org (may include nested groups for GitLab)
	Name       string
	Version    string // ref or commit hash
	Qualifiers map[string]string
	Subpath    string
}

// String formats the PURL. Qualifiers are written in key order.
func (p *PURL) String() string {
	if p.Type == "" || p.Name == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("pkg:")
	sb.WriteString(string(p.Type))
	sb.WriteRune('/')

	if p.Namespace != "" {
		// Nested GitLab groups keep their slashes escaped.
		sb.WriteString(url.PathEscape(p.Namespace))
		sb.WriteRune('/')
	}

	sb.WriteString(url.PathEscape(p.Name))

	if p.Version != "" {
		sb.WriteRune('@')
		sb.WriteString(url.PathEscape(p.Version))
	}

	if len(p.Qualifiers) > 0 {
		keys := make([]string, 0, len(p.Qualifiers))
		for k := range p.Qualifiers {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sb.WriteRune('?')
		for i, k := range keys {
			if i > 0 {
				sb.WriteRune('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteRune('=')
			sb.WriteString(url.QueryEscape(p.Qualifiers[k]))
		}
	}

	if p.Subpath != "" {
		sb.WriteRune('#')
		sb.WriteString(p.Subpath)
	}

	return sb.String()
}

// FromGitURL creates a PURL from a git repository URL and ref.
func FromGitURL(repoURL, version string) *PURL {
	info := hostdetect.FromURL(repoURL)
	if info == nil {
		return nil
	}

	return &PURL{
		Type:      providerToType(info.Provider),
		Namespace: info.Owner,
		Name:      info.Repo,
		Version:   version,
	}
}

// FromGitURLWithFallback creates a PURL from a git URL, falling back to the
// generic type with the given name if the URL cannot be parsed.
func FromGitURLWithFallback(repoURL, version, name string) *PURL {
	if purl := FromGitURL(repoURL, version); purl != nil {
		return purl
	}

	return &PURL{
		Type:    TypeGeneric,
		Name:    name,
		Version: version,
	}
}

// FromTarget creates the PURL of an assessed repository. Repositories outside
// the known hosting providers carry their location in a vcs_url qualifier.
func FromTarget(t types.RepositoryTarget, name string) *PURL {
	p := FromGitURLWithFallback(t.URL, t.Ref, name)
	if p.Type == TypeGeneric && t.URL != "" {
		p.Qualifiers = map[string]string{"vcs_url": "git+" + t.URL}
	}
	return p
}

func providerToType(p hostdetect.Provider) Type {
	switch p {
	case hostdetect.ProviderGitHub:
		return TypeGitHub
	case hostdetect.ProviderGitLab:
		return TypeGitLab
	case hostdetect.ProviderBitbucket:
		return TypeBitbucket
	default:
		return TypeGeneric
	}
}
