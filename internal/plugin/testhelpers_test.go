package plugin

import (
	"context"
	"os"
	"testing"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/types"
	"github.com/golang/mock/gomock"
)

// mockEnv bundles an Environment whose executors and cloner are gomock mocks.
type mockEnv struct {
	env       Environment
	sandbox   *MockSandbox
	container *MockContainer
	cloner    *MockCloner
	images    []executor.Image
}

func setupEnv(t *testing.T) *mockEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &mockEnv{
		sandbox:   NewMockSandbox(ctrl),
		container: NewMockContainer(ctrl),
		cloner:    NewMockCloner(ctrl),
	}
	m.env = Environment{
		NewSandbox: func() Sandbox { return m.sandbox },
		NewContainer: func(image executor.Image) Container {
			m.images = append(m.images, image)
			return m.container
		},
		Cloner:     m.cloner,
		ScratchDir: t.TempDir(),
		HostArch:   "amd64",
	}
	return m
}

// expectSandboxReady allows a sandbox to provision, install, verify and release once.
func (m *mockEnv) expectSandboxReady(pkg, version string) {
	m.sandbox.EXPECT().Provision(gomock.Any()).Return(nil)
	m.sandbox.EXPECT().Install(gomock.Any(), pkg, version).Return(nil)
	m.sandbox.EXPECT().IsInstalled(gomock.Any(), pkg, version).Return(true, nil)
	m.sandbox.EXPECT().Release().Return(nil)
}

// expectContainerReady allows a container to pull and release once.
func (m *mockEnv) expectContainerReady() {
	m.container.EXPECT().Provision(gomock.Any()).Return(nil)
	m.container.EXPECT().Release().Return(nil)
}

// expectClone makes the cloner populate the checkout with a marker file.
func (m *mockEnv) expectClone(t *testing.T, target types.RepositoryTarget) *gomock.Call {
	t.Helper()
	return m.cloner.EXPECT().Clone(gomock.Any(), target.URL, target.Ref, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _, dir string) error {
			return os.WriteFile(dir+"/README.md", []byte("# repo\n"), 0o644)
		})
}

// assertScratchEmpty fails if anything was left in the scratch directory.
func (m *mockEnv) assertScratchEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(m.env.ScratchDir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("scratch entry left behind: %s", e.Name())
	}
}

func newPlugin(t *testing.T, id string, rc types.RunContext, env Environment) Plugin {
	t.Helper()
	p, err := DefaultRegistry().New(context.Background(), id, rc, env)
	if err != nil {
		t.Fatalf("New(%s) error = %v", id, err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func call(t *testing.T, p Plugin, indicator string, target types.RepositoryTarget) ([]types.CheckResult, error) {
	t.Helper()
	h, ok := p.Handler(indicator)
	if !ok {
		t.Fatalf("plugin %s has no handler for %s", p.Info().Name, indicator)
	}
	return h(context.Background(), target)
}

var testTarget = types.RepositoryTarget{URL: "https://github.com/org/project.git", Ref: "main"}
var testRunContext = types.RunContext{}
