package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EmundoT/git-assess/internal/logging"
)

// removeTimeout bounds the forced removal of a container whose run was cut short.
const removeTimeout = 30 * time.Second

// Image identifies a container image and the platform it must run on.
type Image struct {
	Ref      string // e.g. "gcr.io/openssf/scorecard:v5.1.1"
	Platform string // e.g. "linux/amd64"; empty means the host default
}

// ContainerOptions configures a ContainerExecutor. Zero values select defaults.
type ContainerOptions struct {
	Docker      string        // container CLI binary (default "docker")
	HostArch    string        // GOARCH-style host architecture (default runtime.GOARCH)
	RunTimeout  time.Duration // default DefaultRunTimeout
	PullTimeout time.Duration // default DefaultProvisionTimeout
	Runner      CommandRunner // default ExecRunner
}

// Volume is a bind mount from the host into the container.
type Volume struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

func (v Volume) String() string {
	s := v.HostPath + ":" + v.ContainerPath
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// RunOptions carries per-invocation container settings.
type RunOptions struct {
	Env       map[string]string
	Volumes   []Volume
	ExtraArgs []string // inserted before the image reference
}

// ContainerExecutor runs a single image. Each Run uses a fresh container that
// is removed when it exits.
type ContainerExecutor struct {
	image Image
	opts  ContainerOptions

	mu     sync.Mutex
	pulled bool

	newName func() string
}

// NewContainerExecutor creates an executor for image. Nothing is pulled until Provision.
func NewContainerExecutor(image Image, opts ContainerOptions) *ContainerExecutor {
	if opts.Docker == "" {
		opts.Docker = "docker"
	}
	if opts.HostArch == "" {
		opts.HostArch = runtime.GOARCH
	}
	if opts.RunTimeout == 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	if opts.PullTimeout == 0 {
		opts.PullTimeout = DefaultProvisionTimeout
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	return &ContainerExecutor{image: image, opts: opts, newName: containerName}
}

// containerName returns a unique name so an abandoned container can be removed.
func containerName() string {
	return "git-assess-" + uuid.NewString()
}

// Image returns the image this executor runs.
func (c *ContainerExecutor) Image() Image {
	return c.image
}

// PlatformArgs returns the "--platform" flag needed to run an image built for
// required on a host with architecture hostArch, or nil when none is needed.
func PlatformArgs(required, hostArch string) []string {
	if required == "" {
		return nil
	}
	parts := strings.Split(required, "/")
	if len(parts) < 2 || parts[1] == hostArch {
		return nil
	}
	return []string{"--platform", required}
}

// Provision pulls the image. Subsequent calls after a successful pull are no-ops.
func (c *ContainerExecutor) Provision(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pulled {
		return nil
	}

	args := []string{"pull"}
	args = append(args, PlatformArgs(c.image.Platform, c.opts.HostArch)...)
	args = append(args, c.image.Ref)
	cmd := Command{Name: c.opts.Docker, Args: args}

	ctx, cancel := withTimeout(ctx, c.opts.PullTimeout)
	defer cancel()

	res, err := c.opts.Runner.Run(ctx, cmd)
	if err == nil && res.ExitCode != 0 {
		err = exitStatus(cmd, res)
	}
	if err != nil {
		return &ProvisioningError{Resource: c.image.Ref, Err: err}
	}

	c.pulled = true
	return nil
}

// RunArgs builds the argument list for "docker run" of a container called name.
// Environment variables are emitted in key order so invocations are reproducible.
func (c *ContainerExecutor) RunArgs(name string, command []string, opts RunOptions) []string {
	args := []string{"run", "--rm", "--name", name}
	args = append(args, PlatformArgs(c.image.Platform, c.opts.HostArch)...)

	keys := make([]string, 0, len(opts.Env))
	for k := range opts.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, opts.Env[k]))
	}

	for _, v := range opts.Volumes {
		args = append(args, "-v", v.String())
	}
	args = append(args, opts.ExtraArgs...)
	args = append(args, c.image.Ref)
	return append(args, command...)
}

// Run starts a container from the pulled image. A non-zero exit status is
// reported in Result, not as an error. When the run times out or is cancelled
// the container is force-removed, since killing the docker client leaves it
// running.
func (c *ContainerExecutor) Run(ctx context.Context, command []string, opts RunOptions) (Result, error) {
	c.mu.Lock()
	pulled := c.pulled
	c.mu.Unlock()
	if !pulled {
		return Result{}, ErrNotProvisioned
	}

	runCtx, cancel := withTimeout(ctx, c.opts.RunTimeout)
	defer cancel()

	name := c.newName()
	res, err := c.opts.Runner.Run(runCtx, Command{Name: c.opts.Docker, Args: c.RunArgs(name, command, opts)})
	if err != nil && (errors.Is(err, ErrTimeout) || runCtx.Err() != nil) {
		c.remove(name)
	}
	return res, err
}

// remove force-removes the named container on a context of its own.
func (c *ContainerExecutor) remove(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	cmd := Command{Name: c.opts.Docker, Args: []string{"rm", "-f", name}}
	res, err := c.opts.Runner.Run(ctx, cmd)
	if err == nil && res.ExitCode != 0 {
		err = exitStatus(cmd, res)
	}
	if err != nil {
		logging.New("executor").Warn("failed to remove container", "name", name, "error", err)
	}
}

// Release is a no-op: containers are started with --rm and pulled images are
// left in the local cache for later runs.
func (c *ContainerExecutor) Release() error {
	return nil
}
