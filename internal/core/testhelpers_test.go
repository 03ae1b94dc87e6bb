package core

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/types"
)

// ============================================================================
// Fake plugins
// ============================================================================

// MockPlugin implements plugin.Plugin with per-indicator handler functions
type MockPlugin struct {
	info     types.PluginInfo
	handlers map[string]plugin.Handler

	mu       sync.Mutex
	calls    []string // indicator names in call order
	inFlight atomic.Int32
	overlap  atomic.Bool
	closed   atomic.Int32
}

func newMockPlugin(id string, handlers map[string]plugin.Handler) *MockPlugin {
	return &MockPlugin{
		info:     types.PluginInfo{Name: id + " tool", ID: "https://example.org/tools/" + id, Version: "1.0.0"},
		handlers: handlers,
	}
}

// Info implements plugin.Plugin
func (m *MockPlugin) Info() types.PluginInfo { return m.info }

// Handler implements plugin.Plugin and records every call
func (m *MockPlugin) Handler(indicator string) (plugin.Handler, bool) {
	h, ok := m.handlers[indicator]
	if !ok {
		return nil, false
	}
	return func(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
		if m.inFlight.Add(1) > 1 {
			m.overlap.Store(true)
		}
		defer m.inFlight.Add(-1)
		m.mu.Lock()
		m.calls = append(m.calls, indicator)
		m.mu.Unlock()
		return h(ctx, target)
	}, true
}

// Close implements plugin.Plugin
func (m *MockPlugin) Close() error {
	m.closed.Add(1)
	return nil
}

func (m *MockPlugin) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockRegistry builds a plugin.Registry over mock plugins. A plugin listed in
// failures fails construction with the given error.
type mockRegistry struct {
	*plugin.Registry
	constructed map[string]*atomic.Int32
}

func newMockRegistry(plugins map[string]*MockPlugin, failures map[string]error) *mockRegistry {
	r := &mockRegistry{Registry: plugin.NewRegistry(), constructed: make(map[string]*atomic.Int32)}

	ids := make([]string, 0, len(plugins)+len(failures))
	for id := range plugins {
		ids = append(ids, id)
	}
	for id := range failures {
		if _, ok := plugins[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		counter := &atomic.Int32{}
		r.constructed[id] = counter
		p := plugins[id]
		var indicators []string
		if p != nil {
			for name := range p.handlers {
				indicators = append(indicators, name)
			}
		}
		for _, name := range failureIndicators[id] {
			indicators = append(indicators, name)
		}
		ctorErr := failures[id]
		r.Register(id, plugin.Factory{
			Info:       types.PluginInfo{Name: id},
			Indicators: indicators,
			New: func(_ context.Context, _ types.RunContext, _ plugin.Environment) (plugin.Plugin, error) {
				counter.Add(1)
				if ctorErr != nil {
					return nil, ctorErr
				}
				return p, nil
			},
		})
	}
	return r
}

// failureIndicators declares indicators of plugins that never construct.
var failureIndicators = map[string][]string{
	"Broken": {"broken_one", "broken_two"},
}

func (r *mockRegistry) Constructed(id string) int {
	return int(r.constructed[id].Load())
}

// ============================================================================
// Result helpers
// ============================================================================

func verdict(output string, success bool) types.CheckResult {
	return types.CheckResult{
		Process:  "Runs the check.",
		StatusID: types.StatusCompleted,
		Output:   output,
		Evidence: "evidence for " + output,
		Success:  success,
	}
}

func returning(results ...types.CheckResult) plugin.Handler {
	return func(context.Context, types.RepositoryTarget) ([]types.CheckResult, error) {
		return results, nil
	}
}

func failing(err error) plugin.Handler {
	return func(context.Context, types.RepositoryTarget) ([]types.CheckResult, error) {
		return nil, err
	}
}

func spec(name, pluginID string) types.IndicatorSpec {
	return types.IndicatorSpec{Name: name, Plugin: pluginID, ID: "https://w3id.org/everse/i/indicators/" + name}
}

var testTarget = types.RepositoryTarget{URL: "https://github.com/org/project", Ref: "main"}

// ============================================================================
// Gomock Test Helpers
// ============================================================================

// setupMocks creates the gomock collaborators of the core package
func setupMocks(t *testing.T) (*gomock.Controller, *MockProgressTracker, *MockPublisher, *MockRepositoryResolver) {
	ctrl := gomock.NewController(t)
	return ctrl, NewMockProgressTracker(ctrl), NewMockPublisher(ctrl), NewMockRepositoryResolver(ctrl)
}

// newTestAssessor builds an Assessor over reg with an empty environment.
func newTestAssessor(reg PluginRegistry, opts AssessorOptions, progress ProgressTracker) *Assessor {
	return NewAssessor(reg, plugin.Environment{}, types.RunContext{}, opts, progress)
}
