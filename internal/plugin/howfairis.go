package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/EmundoT/git-assess/internal/types"
)

const indicatorHasLicense = "has_license"

var howFairIsInfo = types.PluginInfo{
	Name:    "HowFairIs",
	ID:      "https://w3id.org/everse/tools/howfairis",
	Version: "0.14.2",
}

var howFairIsFactory = Factory{
	Info:       howFairIsInfo,
	Indicators: []string{indicatorHasLicense},
	New:        newHowFairIs,
}

// howFairIs runs the howfairis package in a python sandbox to detect a license file.
type howFairIs struct {
	base
	sandbox Sandbox
}

func newHowFairIs(ctx context.Context, _ types.RunContext, env Environment) (Plugin, error) {
	info := howFairIsInfo
	sb, err := provisionSandbox(ctx, env, "howfairis", info.Version)
	if err != nil {
		return nil, err
	}

	p := &howFairIs{base: base{info: info}, sandbox: sb}
	p.release = append(p.release, sb.Release)
	p.handle(indicatorHasLicense, p.hasLicense)
	return p, nil
}

func (p *howFairIs) hasLicense(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
	script := fmt.Sprintf(`
		from howfairis import Repo, Checker
		repo = Repo(%s, %s)
		checker = Checker(repo, is_quiet=True)
		print(checker.has_license())
	`, pyString(target.URL), pyString(target.Ref))

	res, err := p.sandbox.Run(ctx, script)
	if err != nil {
		return nil, p.fail(indicatorHasLicense, err)
	}
	if res.ExitCode != 0 {
		return nil, p.fail(indicatorHasLicense, scriptFailure(res))
	}

	result := types.CheckResult{
		Process:  "Searches for a file named 'LICENSE' or 'LICENSE.md' in the repository root.",
		StatusID: types.StatusCompleted,
	}
	if strings.TrimSpace(res.Stdout) == "True" {
		result.Output = "valid"
		result.Evidence = "Found license file: 'LICENSE'."
		result.Success = true
	} else {
		result.Output = "invalid"
		result.Evidence = "No license file found."
	}
	return single(result), nil
}
