// Package types holds the data model shared by the executor, plugin and core packages.
package types

import "regexp"

var commitHashRegex = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsCommitHash reports whether ref is a full commit hash. Exactly 40 lowercase
// hexadecimal characters is a commit hash; anything else is a symbolic ref.
func IsCommitHash(ref string) bool {
	return commitHashRegex.MatchString(ref)
}

// RunContext is the read-only configuration shared by every plugin of a run.
type RunContext struct {
	GitHubToken string
}

// HasGitHubToken reports whether a code-hosting API token was supplied.
func (c RunContext) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// RepositoryTarget identifies what is being assessed.
type RepositoryTarget struct {
	URL string
	Ref string // branch, tag or full commit hash
}

// IsCommitHash reports whether the target's ref is a full commit hash.
func (t RepositoryTarget) IsCommitHash() bool {
	return IsCommitHash(t.Ref)
}

// TargetKey is the cache key of a RepositoryTarget.
type TargetKey struct {
	URL string
	Ref string
}

// Key returns the (url, ref) cache key.
func (t RepositoryTarget) Key() TargetKey {
	return TargetKey{URL: t.URL, Ref: t.Ref}
}

// CheckResult is the normalized verdict of one indicator evaluation.
// Success=false is the wrapped tool's negative verdict, not a failure to evaluate.
type CheckResult struct {
	Process  string
	StatusID string
	Output   string
	Evidence string
	Success  bool
}

// StatusCompleted is the status used by checks that ran to completion.
const StatusCompleted = "schema:CompletedActionStatus"

type IndicatorSpec struct {
	Name   string `yaml:"name" json:"name"`
	Plugin string `yaml:"plugin" json:"plugin"`
	ID     string `yaml:"@id" json:"@id"`
}

type AssessmentConfig struct {
	Indicators []IndicatorSpec `yaml:"indicators" json:"indicators"`
}

// SoftwareInfo describes the assessed software. Every field is optional.
type SoftwareInfo struct {
	Name    string
	Version string
	URL     string
	Author  string
	Email   string
	Ref     string
}

// PluginInfo describes the checking software.
type PluginInfo struct {
	Name    string
	ID      string
	Version string
}
