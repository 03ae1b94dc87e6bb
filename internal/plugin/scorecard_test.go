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

const scorecardJSON = `{
  "repo": {"name": "github.com/org/project"},
  "score": 6.1,
  "checks": [
    {"name": "CI-Tests", "score": 10, "reason": "30 out of 30 merged PRs checked by a CI test"},
    {"name": "Code-Review", "score": 3, "reason": "Found 3/10 approved changesets"},
    {"name": "Packaging", "score": -1, "reason": "packaging workflow not detected"}
  ]
}`

func TestScorecard_SingleScanForAllIndicators(t *testing.T) {
	m := setupEnv(t)
	m.expectContainerReady()
	m.container.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, command []string, opts executor.RunOptions) (executor.Result, error) {
			want := []string{"--repo", "https://github.com/org/project", "--format", "json"}
			if diff := cmp.Diff(want, command); diff != "" {
				t.Errorf("command mismatch (-want +got):\n%s", diff)
			}
			if opts.Env["GITHUB_AUTH_TOKEN"] != "ghp_test" {
				t.Errorf("GITHUB_AUTH_TOKEN = %q", opts.Env["GITHUB_AUTH_TOKEN"])
			}
			return executor.Result{Stdout: scorecardJSON}, nil
		}).Times(1)

	p := newPlugin(t, IDOpenSSFScorecard, types.RunContext{GitHubToken: "ghp_test"}, m.env)

	tests := []struct {
		indicator   string
		wantOutput  string
		wantSuccess bool
		wantProcess string
		wantEvid    string
	}{
		{"has_ci_tests", "true", true, "Calculates the CI-Tests score.", "CI-Tests score is 5 or higher (10)."},
		{"human_code_review_requirement", "false", false, "Calculates the Code-Review score.", "Code-Review score is less than 5 (3)."},
		{"has_published_package", "false", false, "Calculates the Packaging score.", "Packaging score is less than 5 (-1)."},
	}
	for _, tt := range tests {
		results, err := call(t, p, tt.indicator, testTarget)
		if err != nil {
			t.Fatalf("%s error = %v", tt.indicator, err)
		}
		want := types.CheckResult{
			Process:  tt.wantProcess,
			StatusID: types.StatusCompleted,
			Output:   tt.wantOutput,
			Evidence: tt.wantEvid,
			Success:  tt.wantSuccess,
		}
		if diff := cmp.Diff([]types.CheckResult{want}, results); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tt.indicator, diff)
		}
	}

	sc := p.(*scorecard)
	if sc.cache.Misses() != 1 || sc.cache.Hits() != 2 {
		t.Errorf("cache misses=%d hits=%d, want 1 and 2", sc.cache.Misses(), sc.cache.Hits())
	}
}

func TestScorecard_CommitHashAddsCommitFlag(t *testing.T) {
	m := setupEnv(t)
	m.expectContainerReady()

	target := types.RepositoryTarget{URL: "https://github.com/org/project", Ref: "0123456789abcdef0123456789abcdef01234567"}
	m.container.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, command []string, opts executor.RunOptions) (executor.Result, error) {
			want := []string{"--repo", "https://github.com/org/project", "--format", "json", "--commit", target.Ref}
			if diff := cmp.Diff(want, command); diff != "" {
				t.Errorf("command mismatch (-want +got):\n%s", diff)
			}
			if opts.Env != nil {
				t.Errorf("env = %v, want none without a token", opts.Env)
			}
			return executor.Result{Stdout: scorecardJSON}, nil
		})

	p := newPlugin(t, IDOpenSSFScorecard, types.RunContext{}, m.env)
	if _, err := call(t, p, "has_ci_tests", target); err != nil {
		t.Fatalf("has_ci_tests error = %v", err)
	}
}

func TestScorecard_Failures(t *testing.T) {
	tests := []struct {
		name string
		res  executor.Result
	}{
		{name: "non-zero exit", res: executor.Result{ExitCode: 1, Stderr: "GITHUB_AUTH_TOKEN not set"}},
		{name: "empty output", res: executor.Result{Stdout: "  \n"}},
		{name: "malformed json", res: executor.Result{Stdout: "{not json"}},
		{name: "no checks", res: executor.Result{Stdout: `{"checks": []}`}},
		{name: "check missing", res: executor.Result{Stdout: `{"checks": [{"name": "Maintained", "score": 10}]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupEnv(t)
			m.expectContainerReady()
			m.container.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.res, nil)

			p := newPlugin(t, IDOpenSSFScorecard, types.RunContext{}, m.env)
			_, err := call(t, p, "has_ci_tests", testTarget)

			var invErr *InvocationError
			if !errors.As(err, &invErr) {
				t.Fatalf("error = %v, want *InvocationError", err)
			}
			if invErr.Indicator != "has_ci_tests" {
				t.Errorf("Indicator = %q", invErr.Indicator)
			}
		})
	}
}

func TestScorecard_FailedScanIsRetried(t *testing.T) {
	m := setupEnv(t)
	m.expectContainerReady()
	gomock.InOrder(
		m.container.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(executor.Result{Stdout: "{"}, nil),
		m.container.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(executor.Result{Stdout: scorecardJSON}, nil),
	)

	p := newPlugin(t, IDOpenSSFScorecard, types.RunContext{}, m.env)
	if _, err := call(t, p, "has_ci_tests", testTarget); err == nil {
		t.Fatal("first call should fail")
	}
	if _, err := call(t, p, "has_ci_tests", testTarget); err != nil {
		t.Fatalf("second call error = %v", err)
	}
}

func TestScorecard_UnsupportedHost(t *testing.T) {
	m := setupEnv(t)
	m.expectContainerReady()

	p := newPlugin(t, IDOpenSSFScorecard, types.RunContext{}, m.env)
	_, err := call(t, p, "has_ci_tests", types.RepositoryTarget{URL: "https://bitbucket.org/org/project", Ref: "main"})

	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *InvocationError", err)
	}
}
