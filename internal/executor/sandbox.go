package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// SandboxOptions configures a SandboxExecutor. Zero values select defaults.
type SandboxOptions struct {
	Python           string        // interpreter used to create the environment (default "python3")
	BaseDir          string        // parent directory for the environment (default os.TempDir)
	RunTimeout       time.Duration // per-run deadline (default DefaultRunTimeout)
	ProvisionTimeout time.Duration // deadline for venv creation and installs (default DefaultProvisionTimeout)
	Runner           CommandRunner // default ExecRunner
}

// SandboxExecutor owns a private Python virtual environment in a temporary
// directory. The directory exists from Provision until Release.
type SandboxExecutor struct {
	opts SandboxOptions

	mu  sync.Mutex
	dir string
}

// NewSandboxExecutor creates an unprovisioned sandbox.
func NewSandboxExecutor(opts SandboxOptions) *SandboxExecutor {
	if opts.Python == "" {
		opts.Python = "python3"
	}
	if opts.RunTimeout == 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	if opts.ProvisionTimeout == 0 {
		opts.ProvisionTimeout = DefaultProvisionTimeout
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	return &SandboxExecutor{opts: opts}
}

// Dir returns the environment directory, or "" when not provisioned.
func (s *SandboxExecutor) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// Provision creates the virtual environment. Calling it on a provisioned
// sandbox is a no-op. On failure no directory is left behind.
func (s *SandboxExecutor) Provision(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		return nil
	}

	dir, err := os.MkdirTemp(s.opts.BaseDir, "git-assess-venv-")
	if err != nil {
		return &ProvisioningError{Resource: "python sandbox", Err: err}
	}

	cmd := Command{Name: s.opts.Python, Args: []string{"-m", "venv", dir}}
	if err := s.runStep(ctx, cmd); err != nil {
		_ = os.RemoveAll(dir)
		return &ProvisioningError{Resource: "python sandbox", Err: err}
	}

	s.dir = dir
	return nil
}

// Install installs a package into the sandbox. An empty version installs the latest.
func (s *SandboxExecutor) Install(ctx context.Context, name, version string) error {
	dir := s.Dir()
	if dir == "" {
		return ErrNotProvisioned
	}

	requirement := name
	if version != "" {
		requirement = name + "==" + version
	}

	cmd := Command{
		Name: s.bin(dir, "pip"),
		Args: []string{"install", "--disable-pip-version-check", "--quiet", requirement},
	}
	if err := s.runStep(ctx, cmd); err != nil {
		return &DependencyInstallError{Package: requirement, Err: err}
	}
	return nil
}

// IsInstalled reports whether name is installed in the sandbox. When version is
// non-empty the installed version must equal it or extend it by further
// dot-separated components ("0.2" matches "0.2.0").
func (s *SandboxExecutor) IsInstalled(ctx context.Context, name, version string) (bool, error) {
	res, err := s.Run(ctx, listDistributionsScript)
	if err != nil {
		return false, err
	}
	if res.ExitCode != 0 {
		return false, exitStatus(Command{Name: "python"}, res)
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		pkg, installed, ok := strings.Cut(strings.TrimSpace(line), "==")
		if !ok || !strings.EqualFold(normalizeDist(pkg), normalizeDist(name)) {
			continue
		}
		if version == "" || installed == version || strings.HasPrefix(installed, version+".") {
			return true, nil
		}
	}
	return false, nil
}

// Run executes a Python script with the sandbox interpreter. A non-zero exit
// status is reported in Result, not as an error.
func (s *SandboxExecutor) Run(ctx context.Context, script string) (Result, error) {
	dir := s.Dir()
	if dir == "" {
		return Result{}, ErrNotProvisioned
	}

	ctx, cancel := withTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	return s.opts.Runner.Run(ctx, Command{
		Name: s.bin(dir, "python"),
		Args: []string{"-c", Dedent(script)},
	})
}

// Release deletes the environment directory. It is safe to call more than once.
func (s *SandboxExecutor) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

func (s *SandboxExecutor) runStep(ctx context.Context, cmd Command) error {
	ctx, cancel := withTimeout(ctx, s.opts.ProvisionTimeout)
	defer cancel()

	res, err := s.opts.Runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return exitStatus(cmd, res)
	}
	return nil
}

func (s *SandboxExecutor) bin(dir, tool string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "Scripts", tool+".exe")
	}
	return filepath.Join(dir, "bin", tool)
}

func normalizeDist(name string) string {
	return strings.NewReplacer("_", "-", ".", "-").Replace(strings.TrimSpace(name))
}

const listDistributionsScript = `
import importlib.metadata
for dist in importlib.metadata.distributions():
    print(f"{dist.metadata['Name']}=={dist.version}")
`
