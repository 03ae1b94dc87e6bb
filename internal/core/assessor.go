package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EmundoT/git-assess/internal/logging"
	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/types"
)

// DefaultIndicatorTimeout bounds a single indicator evaluation, provisioning excluded.
const DefaultIndicatorTimeout = 20 * time.Minute

// PluginRegistry resolves plugin identifiers to constructed plugins.
type PluginRegistry interface {
	Validate(cfg types.AssessmentConfig) error
	New(ctx context.Context, id string, rc types.RunContext, env plugin.Environment) (plugin.Plugin, error)
}

// AssessorOptions tunes an Assessor.
type AssessorOptions struct {
	Workers          int           // 0 selects min(NumCPU, 8); 1 evaluates strictly sequentially
	IndicatorTimeout time.Duration // 0 selects DefaultIndicatorTimeout; negative disables
}

// IndicatorOutcome is the result of evaluating one configured indicator.
type IndicatorOutcome struct {
	Index     int
	Indicator types.IndicatorSpec
	Plugin    types.PluginInfo
	Results   []types.CheckResult
	Err       error
	Elapsed   time.Duration
}

// Passed reports whether the indicator was evaluated and every result was positive.
func (o IndicatorOutcome) Passed() bool {
	if o.Err != nil || len(o.Results) == 0 {
		return false
	}
	for _, r := range o.Results {
		if !r.Success {
			return false
		}
	}
	return true
}

// IndicatorFailure records an indicator that could not be evaluated.
type IndicatorFailure struct {
	Indicator types.IndicatorSpec
	Err       error
}

// RunReport summarizes one Assessor run.
type RunReport struct {
	Evaluated int
	Failed    []IndicatorFailure
	Outcomes  []IndicatorOutcome // configuration order
}

// ExitCode returns 0 when every configured indicator produced results,
// whatever their verdicts, and 1 otherwise.
func (r *RunReport) ExitCode() int {
	if len(r.Failed) > 0 {
		return ExitIndicatorFailed
	}
	return ExitSuccess
}

// Assessor drives the configured indicators through their plugins.
type Assessor struct {
	registry PluginRegistry
	env      plugin.Environment
	rc       types.RunContext
	opts     AssessorOptions
	progress ProgressTracker
	logger   *slog.Logger
}

// NewAssessor creates an Assessor. A nil progress tracker is replaced by a no-op.
func NewAssessor(registry PluginRegistry, env plugin.Environment, rc types.RunContext, opts AssessorOptions, progress ProgressTracker) *Assessor {
	if opts.IndicatorTimeout == 0 {
		opts.IndicatorTimeout = DefaultIndicatorTimeout
	}
	if progress == nil {
		progress = noopProgress{}
	}
	return &Assessor{
		registry: registry,
		env:      env,
		rc:       rc,
		opts:     opts,
		progress: progress,
		logger:   logging.New("assessor"),
	}
}

// pluginGroup holds the configuration indices served by one plugin.
type pluginGroup struct {
	id      string
	indices []int
}

// groupByPlugin groups indicator indices by plugin id in first-seen order.
func groupByPlugin(specs []types.IndicatorSpec) []pluginGroup {
	var groups []pluginGroup
	pos := make(map[string]int)
	for i, spec := range specs {
		g, ok := pos[spec.Plugin]
		if !ok {
			g = len(groups)
			pos[spec.Plugin] = g
			groups = append(groups, pluginGroup{id: spec.Plugin})
		}
		groups[g].indices = append(groups[g].indices, i)
	}
	return groups
}

func (a *Assessor) validate(cfg types.AssessmentConfig) error {
	if len(cfg.Indicators) == 0 {
		return fmt.Errorf("%w: no indicators configured", ErrInvalidConfig)
	}
	if err := a.registry.Validate(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Run evaluates every indicator of cfg against target and appends the results
// to summary in configuration order. Indicator and plugin failures are recorded
// in the returned report; only an invalid configuration or a sealed summary
// aborts the run.
func (a *Assessor) Run(ctx context.Context, target types.RepositoryTarget, cfg types.AssessmentConfig, summary *Summary) (*RunReport, error) {
	if err := a.validate(cfg); err != nil {
		a.progress.Fail(err)
		return nil, err
	}

	outcomes := make([]IndicatorOutcome, len(cfg.Indicators))
	groups := groupByPlugin(cfg.Indicators)

	var (
		mu      sync.Mutex
		plugins []plugin.Plugin
	)
	track := func(o IndicatorOutcome) {
		outcomes[o.Index] = o
		mu.Lock()
		defer mu.Unlock()
		a.progress.Increment(describeOutcome(o))
	}
	keep := func(p plugin.Plugin) {
		mu.Lock()
		defer mu.Unlock()
		plugins = append(plugins, p)
	}

	a.progress.SetTotal(len(cfg.Indicators))
	a.logger.Info("assessment started", "url", target.URL, "ref", target.Ref,
		"indicators", len(cfg.Indicators), "plugins", len(groups))

	pool := NewWorkerPool(a.opts.Workers)
	_ = pool.Run(ctx, len(groups), func(ctx context.Context, i int) error { //nolint:errcheck // failures are per indicator
		a.runGroup(ctx, target, cfg.Indicators, groups[i], track, keep)
		return nil
	})
	// Groups skipped after cancellation never reported their indicators.
	for idx := range outcomes {
		if outcomes[idx].Indicator.Name != "" {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		track(IndicatorOutcome{Index: idx, Indicator: cfg.Indicators[idx], Err: err})
	}

	for _, p := range plugins {
		if err := p.Close(); err != nil {
			a.logger.Warn("plugin release failed", "plugin", p.Info().Name, "error", err)
		}
	}

	report := &RunReport{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			report.Failed = append(report.Failed, IndicatorFailure{Indicator: o.Indicator, Err: o.Err})
			continue
		}
		report.Evaluated++
		for _, r := range o.Results {
			if err := summary.Add(o.Indicator, o.Plugin, r); err != nil {
				a.progress.Fail(err)
				return report, err
			}
		}
	}

	if len(report.Failed) > 0 {
		a.progress.Fail(fmt.Errorf("%d of %d indicators could not be evaluated", len(report.Failed), len(outcomes)))
	} else {
		a.progress.Complete()
	}
	a.logger.Info("assessment finished", "evaluated", report.Evaluated, "failed", len(report.Failed))
	return report, nil
}

// runGroup constructs the group's plugin and evaluates its indicators one at
// a time, so a plugin instance never serves two calls concurrently.
func (a *Assessor) runGroup(ctx context.Context, target types.RepositoryTarget, specs []types.IndicatorSpec, g pluginGroup,
	track func(IndicatorOutcome), keep func(plugin.Plugin)) {
	start := time.Now()
	p, err := a.registry.New(ctx, g.id, a.rc, a.env)
	if err != nil {
		a.logger.Error("plugin construction failed", "plugin", g.id, "error", err)
		err = fmt.Errorf("construct plugin %s: %w", g.id, err)
		for _, idx := range g.indices {
			track(IndicatorOutcome{Index: idx, Indicator: specs[idx], Err: err, Elapsed: time.Since(start)})
		}
		return
	}
	keep(p)
	a.logger.Debug("plugin ready", "plugin", g.id, "elapsed", time.Since(start))

	for _, idx := range g.indices {
		track(a.evaluate(ctx, p, target, idx, specs[idx]))
	}
}

func (a *Assessor) evaluate(ctx context.Context, p plugin.Plugin, target types.RepositoryTarget, idx int, spec types.IndicatorSpec) (out IndicatorOutcome) {
	out = IndicatorOutcome{Index: idx, Indicator: spec, Plugin: p.Info()}
	start := time.Now()
	defer func() { out.Elapsed = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	handler, ok := p.Handler(spec.Name)
	if !ok {
		out.Err = fmt.Errorf("%w: %s does not provide %q", plugin.ErrUnknownIndicator, spec.Plugin, spec.Name)
		return out
	}

	callCtx := ctx
	if a.opts.IndicatorTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.opts.IndicatorTimeout)
		defer cancel()
	}

	results, err := handler(callCtx, target)
	switch {
	case err != nil:
		out.Err = err
	case len(results) == 0:
		out.Err = fmt.Errorf("%s/%s: %w", spec.Plugin, spec.Name, ErrNoResults)
	default:
		out.Results = results
	}
	if out.Err != nil {
		a.logger.Error("indicator failed", "indicator", spec.Name, "plugin", spec.Plugin,
			"timeout", errors.Is(out.Err, context.DeadlineExceeded), "error", out.Err)
	}
	return out
}

func describeOutcome(o IndicatorOutcome) string {
	mark := "✔"
	if !o.Passed() {
		mark = "✖"
	}
	return fmt.Sprintf("%s/%s %s (%.1fs)", o.Indicator.Name, o.Indicator.Plugin, mark, o.Elapsed.Seconds())
}
