package core

import (
	"context"
	"fmt"
	"time"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/repo"
	"github.com/EmundoT/git-assess/internal/types"
)

// DefaultOutputFile is where the report is written when no path is given.
const DefaultOutputFile = "git-assess_summary.json"

// Verbose controls whether git commands are logged
var Verbose = false

// RepositoryResolver turns a URL and ref into an assessment target.
type RepositoryResolver interface {
	Resolve(ctx context.Context, url, ref string) (*repo.Resolution, error)
}

// AssessOptions configures one assessment run.
type AssessOptions struct {
	OutputPath       string
	GitHubToken      string
	Workers          int
	RunTimeout       time.Duration // per sandbox/container invocation
	IndicatorTimeout time.Duration
	ScratchDir       string
}

// AssessResult is what Manager.Assess produced.
type AssessResult struct {
	Report     *RunReport
	Summary    *Summary
	OutputPath string
}

// Manager provides the main API for git-assess operations
type Manager struct {
	Resolver RepositoryResolver
	Registry PluginRegistry
	// NewEnvironment builds plugin dependencies; tests replace it.
	NewEnvironment func(opts plugin.EnvironmentOptions) plugin.Environment
}

// NewManager creates a Manager with the built-in plugins and the git CLI.
// dir is the working copy inspected when no URL is given.
func NewManager(dir string) *Manager {
	return &Manager{
		Resolver:       &repo.Inspector{Dir: dir, Cloner: repo.GitCloner{Verbose: Verbose}},
		Registry:       plugin.DefaultRegistry(),
		NewEnvironment: plugin.NewEnvironment,
	}
}

// Prepare loads and validates the configuration at configPath (the built-in
// list when empty) without running anything.
func (m *Manager) Prepare(configPath string) (types.AssessmentConfig, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if err := m.Registry.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Resolve determines what is assessed.
func (m *Manager) Resolve(ctx context.Context, url, ref string) (*repo.Resolution, error) {
	return m.Resolver.Resolve(ctx, url, ref)
}

// Assess runs cfg against the resolved repository and persists the report.
// The report is written even when some indicators could not be evaluated.
func (m *Manager) Assess(ctx context.Context, res *repo.Resolution, cfg types.AssessmentConfig, opts AssessOptions, progress ProgressTracker) (*AssessResult, error) {
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputFile
	}
	runTimeout := opts.RunTimeout
	if runTimeout <= 0 {
		runTimeout = executor.DefaultRunTimeout
	}
	env := m.NewEnvironment(plugin.EnvironmentOptions{
		Cloner:           repo.GitCloner{Verbose: Verbose},
		HistoryCloner:    repo.GitCloner{Verbose: Verbose, FullHistory: true},
		ScratchDir:       opts.ScratchDir,
		RunTimeout:       runTimeout,
		ProvisionTimeout: executor.DefaultProvisionTimeout,
	})

	rc := types.RunContext{GitHubToken: opts.GitHubToken}
	summary := NewSummary(res.Software)
	assessor := NewAssessor(m.Registry, env, rc, AssessorOptions{
		Workers:          opts.Workers,
		IndicatorTimeout: opts.IndicatorTimeout,
	}, progress)

	report, err := assessor.Run(ctx, res.Target, cfg, summary)
	if err != nil {
		return nil, err
	}
	if err := summary.Persist(opts.OutputPath); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	return &AssessResult{Report: report, Summary: summary, OutputPath: opts.OutputPath}, nil
}

// Publish uploads the persisted report at path. A failure leaves the file untouched.
func (m *Manager) Publish(ctx context.Context, p Publisher, path string) error {
	return PublishReport(ctx, p, path)
}
