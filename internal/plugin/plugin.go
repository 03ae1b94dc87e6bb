// Package plugin defines the indicator plugin contract, the registry of known
// plugins and the concrete plugins that wrap third-party assessment tools.
package plugin

import (
	"context"
	"errors"

	"github.com/EmundoT/git-assess/internal/types"
)

// Handler evaluates one indicator against a repository. Single-check plugins
// return one result; composite plugins may return several.
type Handler func(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error)

// Plugin is a constructed, provisioned checker. A Plugin owns its executor
// until Close. Calls into one Plugin must not overlap.
type Plugin interface {
	Info() types.PluginInfo
	Handler(indicator string) (Handler, bool)
	Close() error
}

// base carries the bookkeeping shared by every concrete plugin.
type base struct {
	info     types.PluginInfo
	handlers map[string]Handler
	release  []func() error
}

func (b *base) Info() types.PluginInfo {
	return b.info
}

func (b *base) Handler(indicator string) (Handler, bool) {
	h, ok := b.handlers[indicator]
	return h, ok
}

// Close releases every executor the plugin acquired, in reverse order.
func (b *base) Close() error {
	var errs []error
	for i := len(b.release) - 1; i >= 0; i-- {
		if err := b.release[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.release = nil
	return errors.Join(errs...)
}

func (b *base) handle(indicator string, h Handler) {
	if b.handlers == nil {
		b.handlers = make(map[string]Handler)
	}
	b.handlers[indicator] = h
}

func (b *base) fail(indicator string, err error) error {
	return invocationError(b.info.Name, indicator, err)
}

func single(r types.CheckResult) []types.CheckResult {
	return []types.CheckResult{r}
}
