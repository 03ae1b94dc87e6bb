package plugin

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration validation.
var (
	// ErrUnknownPlugin indicates a configured plugin identifier is not registered.
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrUnknownIndicator indicates a plugin does not declare the configured indicator.
	ErrUnknownIndicator = errors.New("unknown indicator")
)

// ErrNotInstalled indicates a sandbox install step succeeded but the package
// is not importable at the requested version.
var ErrNotInstalled = errors.New("package not installed")

// InvocationError reports that a wrapped tool could not be run or that its
// output did not have the expected shape. It is never used for a negative verdict.
type InvocationError struct {
	Plugin    string
	Indicator string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Plugin, e.Indicator, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func invocationError(plugin, indicator string, err error) error {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return err
	}
	return &InvocationError{Plugin: plugin, Indicator: indicator, Err: err}
}
