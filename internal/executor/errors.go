package executor

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for executor failure modes.
var (
	// ErrTimeout indicates a command exceeded its deadline and was killed.
	ErrTimeout = errors.New("execution timed out")

	// ErrNotProvisioned indicates Run or Install was called before Provision.
	ErrNotProvisioned = errors.New("executor not provisioned")
)

// ProvisioningError reports that an isolated environment could not be created.
type ProvisioningError struct {
	Resource string // "python sandbox" or the container image reference
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision %s: %v", e.Resource, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// DependencyInstallError reports that a package could not be installed into a sandbox.
type DependencyInstallError struct {
	Package string // requirement string, e.g. "howfairis==0.14.2"
	Err     error
}

func (e *DependencyInstallError) Error() string {
	return fmt.Sprintf("install %s: %v", e.Package, e.Err)
}

func (e *DependencyInstallError) Unwrap() error {
	return e.Err
}

// ExitStatusError describes a helper command that ran but exited non-zero.
// It is only produced for provisioning steps; tool runs report exit codes in Result.
type ExitStatusError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitStatusError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if s := lastLine(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func exitStatus(cmd Command, res Result) error {
	return &ExitStatusError{Command: cmd.Name, ExitCode: res.ExitCode, Stderr: res.Stderr}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
