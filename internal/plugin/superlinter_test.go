package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/types"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

func TestSuperLinter_HasNoLintingIssues(t *testing.T) {
	tests := []struct {
		name        string
		res         executor.Result
		wantOutput  string
		wantSuccess bool
		wantErr     bool
	}{
		{name: "clean", res: executor.Result{Stdout: "All files linted successfully"}, wantOutput: "valid", wantSuccess: true},
		{name: "lint errors", res: executor.Result{Stdout: "...\nSuper-linter detected linting errors\n", ExitCode: 1}, wantOutput: "invalid"},
		{name: "crash", res: executor.Result{Stderr: "panic", ExitCode: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupEnv(t)
			m.expectContainerReady()
			m.expectClone(t, testTarget)
			m.container.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, command []string, opts executor.RunOptions) (executor.Result, error) {
					if len(command) != 0 {
						t.Errorf("command = %q, want image default", command)
					}
					wantEnv := map[string]string{"RUN_LOCAL": "true", "DEFAULT_BRANCH": "main"}
					if diff := cmp.Diff(wantEnv, opts.Env); diff != "" {
						t.Errorf("env mismatch (-want +got):\n%s", diff)
					}
					if len(opts.Volumes) != 1 || opts.Volumes[0].ContainerPath != "/tmp/lint" {
						t.Errorf("volumes = %+v", opts.Volumes)
					}
					return tt.res, nil
				})

			p := newPlugin(t, IDSuperLinter, types.RunContext{}, m.env)
			results, err := call(t, p, "has_no_linting_issues", testTarget)
			if tt.wantErr {
				var invErr *InvocationError
				if !errors.As(err, &invErr) {
					t.Fatalf("error = %v, want *InvocationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("has_no_linting_issues error = %v", err)
			}
			if results[0].Output != tt.wantOutput || results[0].Success != tt.wantSuccess {
				t.Errorf("result = %+v", results[0])
			}
			m.assertScratchEmpty(t)
		})
	}
}

func TestSuperLinter_RequiresAMD64Image(t *testing.T) {
	m := setupEnv(t)
	m.expectContainerReady()

	newPlugin(t, IDSuperLinter, types.RunContext{}, m.env)

	want := executor.Image{Ref: "ghcr.io/super-linter/super-linter:v7.3.0", Platform: "linux/amd64"}
	if diff := cmp.Diff([]executor.Image{want}, m.images); diff != "" {
		t.Errorf("image mismatch (-want +got):\n%s", diff)
	}
}
