package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/types"
)

const indicatorHasNoLintingIssues = "has_no_linting_issues"

var superLinterInfo = types.PluginInfo{
	Name:    "SuperLinter",
	ID:      "https://w3id.org/everse/tools/superlinter",
	Version: "7.3.0",
}

var superLinterFactory = Factory{
	Info:       superLinterInfo,
	Indicators: []string{indicatorHasNoLintingIssues},
	New:        newSuperLinter,
}

const (
	superLinterMount  = "/tmp/lint"
	superLinterFailed = "Super-linter detected linting errors"
)

// superLinter runs super-linter over a scratch clone. The image is only
// published for linux/amd64.
type superLinter struct {
	base
	container  Container
	cloner     Cloner
	scratchDir string
}

func newSuperLinter(ctx context.Context, _ types.RunContext, env Environment) (Plugin, error) {
	info := superLinterInfo
	image := executor.Image{
		Ref:      "ghcr.io/super-linter/super-linter:v" + info.Version,
		Platform: "linux/amd64",
	}
	c, err := provisionContainer(ctx, env, image)
	if err != nil {
		return nil, err
	}

	p := &superLinter{base: base{info: info}, container: c, cloner: env.Cloner, scratchDir: env.ScratchDir}
	p.release = append(p.release, c.Release)
	p.handle(indicatorHasNoLintingIssues, p.hasNoLintingIssues)
	return p, nil
}

func (p *superLinter) hasNoLintingIssues(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
	branch := target.Ref
	if branch == "" {
		branch = "main"
	}

	var res executor.Result
	err := WithClone(ctx, p.cloner, p.scratchDir, target, func(dir string) error {
		var err error
		res, err = p.container.Run(ctx, nil, executor.RunOptions{
			Env: map[string]string{
				"RUN_LOCAL":      "true",
				"DEFAULT_BRANCH": branch,
			},
			Volumes: []executor.Volume{{HostPath: dir, ContainerPath: superLinterMount}},
		})
		return err
	})
	if err != nil {
		return nil, p.fail(indicatorHasNoLintingIssues, err)
	}

	result := types.CheckResult{
		Process:  "Searches for linting errors.",
		StatusID: types.StatusCompleted,
	}
	switch {
	case strings.Contains(res.Stdout, superLinterFailed):
		result.Output = "invalid"
		result.Evidence = "Linting errors have been detected."
	case res.ExitCode != 0:
		return nil, p.fail(indicatorHasNoLintingIssues,
			fmt.Errorf("super-linter exited with status %d without a verdict", res.ExitCode))
	default:
		result.Output = "valid"
		result.Evidence = "No linting errors have been detected."
		result.Success = true
	}
	return single(result), nil
}
