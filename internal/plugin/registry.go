package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/EmundoT/git-assess/internal/types"
)

// Factory describes a plugin variant and builds instances of it.
type Factory struct {
	Info       types.PluginInfo
	Indicators []string
	New        func(ctx context.Context, rc types.RunContext, env Environment) (Plugin, error)
}

// Supports reports whether the factory declares indicator.
func (f Factory) Supports(indicator string) bool {
	return slices.Contains(f.Indicators, indicator)
}

// Registry maps plugin identifiers to factories. The set is fixed at startup.
type Registry struct {
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under id. It panics if id is already registered.
func (r *Registry) Register(id string, f Factory) {
	if _, dup := r.factories[id]; dup {
		panic("plugin: Register called twice for " + id)
	}
	r.factories[id] = f
	r.order = append(r.order, id)
}

// Lookup returns the factory registered under id.
func (r *Registry) Lookup(id string) (Factory, bool) {
	f, ok := r.factories[id]
	return f, ok
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.order)
}

// New constructs and provisions the plugin registered under id.
func (r *Registry) New(ctx context.Context, id string, rc types.RunContext, env Environment) (Plugin, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}
	return f.New(ctx, rc, env)
}

// Validate checks that every configured indicator names a registered plugin
// that declares it. All problems are reported together.
func (r *Registry) Validate(cfg types.AssessmentConfig) error {
	var errs []error
	for i, spec := range cfg.Indicators {
		f, ok := r.factories[spec.Plugin]
		if !ok {
			errs = append(errs, fmt.Errorf("indicator #%d %q: %w: %s", i+1, spec.Name, ErrUnknownPlugin, spec.Plugin))
			continue
		}
		if !f.Supports(spec.Name) {
			errs = append(errs, fmt.Errorf("indicator #%d: %w: %s does not provide %q", i+1, ErrUnknownIndicator, spec.Plugin, spec.Name))
		}
	}
	return errors.Join(errs...)
}

// Plugin identifiers used in assessment configurations.
const (
	IDHowFairIs        = "HowFairIs"
	IDCFFConvert       = "CFFConvert"
	IDGitleaks         = "Gitleaks"
	IDSuperLinter      = "SuperLinter"
	IDOpenSSFScorecard = "OpenSSFScorecard"
	IDRSFC             = "RSFC"
)

// DefaultRegistry returns a registry holding every built-in plugin.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(IDHowFairIs, howFairIsFactory)
	r.Register(IDCFFConvert, cffConvertFactory)
	r.Register(IDGitleaks, gitleaksFactory)
	r.Register(IDSuperLinter, superLinterFactory)
	r.Register(IDOpenSSFScorecard, scorecardFactory)
	r.Register(IDRSFC, rsfcFactory)
	return r
}
