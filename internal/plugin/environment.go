package plugin

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/EmundoT/git-assess/internal/executor"
)

// Sandbox is the part of executor.SandboxExecutor that plugins use.
type Sandbox interface {
	Provision(ctx context.Context) error
	Install(ctx context.Context, name, version string) error
	IsInstalled(ctx context.Context, name, version string) (bool, error)
	Run(ctx context.Context, script string) (executor.Result, error)
	Release() error
}

// Container is the part of executor.ContainerExecutor that plugins use.
type Container interface {
	Provision(ctx context.Context) error
	Run(ctx context.Context, command []string, opts executor.RunOptions) (executor.Result, error)
	Release() error
}

// Cloner checks out a repository into an existing empty directory. A non-empty
// ref is checked out after cloning.
type Cloner interface {
	Clone(ctx context.Context, url, ref, dir string) error
}

// Environment carries the construction dependencies of every plugin.
type Environment struct {
	NewSandbox   func() Sandbox
	NewContainer func(image executor.Image) Container
	Cloner       Cloner
	// HistoryCloner serves tools that read every past commit. Nil falls back to Cloner.
	HistoryCloner Cloner
	ScratchDir    string // parent for clones and tool output; "" means os.TempDir
	HostArch      string
}

func (e Environment) historyCloner() Cloner {
	if e.HistoryCloner != nil {
		return e.HistoryCloner
	}
	return e.Cloner
}

// EnvironmentOptions tunes NewEnvironment.
type EnvironmentOptions struct {
	Cloner           Cloner
	HistoryCloner    Cloner
	ScratchDir       string
	HostArch         string // default runtime.GOARCH
	RunTimeout       time.Duration
	ProvisionTimeout time.Duration
	Runner           executor.CommandRunner
}

// NewEnvironment returns an Environment backed by real python and docker executors.
func NewEnvironment(opts EnvironmentOptions) Environment {
	if opts.HostArch == "" {
		opts.HostArch = runtime.GOARCH
	}
	return Environment{
		NewSandbox: func() Sandbox {
			return executor.NewSandboxExecutor(executor.SandboxOptions{
				BaseDir:          opts.ScratchDir,
				RunTimeout:       opts.RunTimeout,
				ProvisionTimeout: opts.ProvisionTimeout,
				Runner:           opts.Runner,
			})
		},
		NewContainer: func(image executor.Image) Container {
			return executor.NewContainerExecutor(image, executor.ContainerOptions{
				HostArch:    opts.HostArch,
				RunTimeout:  opts.RunTimeout,
				PullTimeout: opts.ProvisionTimeout,
				Runner:      opts.Runner,
			})
		},
		Cloner:        opts.Cloner,
		HistoryCloner: opts.HistoryCloner,
		ScratchDir:    opts.ScratchDir,
		HostArch:      opts.HostArch,
	}
}

// provisionSandbox creates a sandbox, installs pkg into it and checks the
// installed version. The sandbox is released again if any step fails.
func provisionSandbox(ctx context.Context, env Environment, pkg, version string) (Sandbox, error) {
	sb := env.NewSandbox()
	if err := sb.Provision(ctx); err != nil {
		_ = sb.Release()
		return nil, err
	}
	if err := sb.Install(ctx, pkg, version); err != nil {
		_ = sb.Release()
		return nil, &executor.ProvisioningError{Resource: pkg, Err: err}
	}
	ok, err := sb.IsInstalled(ctx, pkg, version)
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s==%s missing after install", ErrNotInstalled, pkg, version)
	}
	if err != nil {
		_ = sb.Release()
		return nil, &executor.ProvisioningError{Resource: pkg, Err: err}
	}
	return sb, nil
}

// provisionContainer creates a container executor and pulls its image.
func provisionContainer(ctx context.Context, env Environment, image executor.Image) (Container, error) {
	c := env.NewContainer(image)
	if err := c.Provision(ctx); err != nil {
		_ = c.Release()
		return nil, err
	}
	return c, nil
}
