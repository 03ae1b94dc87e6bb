package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/hostdetect"
	"github.com/EmundoT/git-assess/internal/types"
)

const (
	indicatorHasCITests                 = "has_ci_tests"
	indicatorHumanCodeReviewRequirement = "human_code_review_requirement"
	indicatorHasPublishedPackage        = "has_published_package"
)

// scorecardThreshold is the lowest check score counted as passing.
const scorecardThreshold = 5

var scorecardInfo = types.PluginInfo{
	Name:    "OpenSSF Scorecard",
	ID:      "https://github.com/ossf/scorecard",
	Version: "v5.1.1",
}

var scorecardFactory = Factory{
	Info: scorecardInfo,
	Indicators: []string{
		indicatorHasCITests,
		indicatorHumanCodeReviewRequirement,
		indicatorHasPublishedPackage,
	},
	New: newScorecard,
}

// scorecardChecks maps indicators to the scorecard check backing them.
var scorecardChecks = map[string]string{
	indicatorHasCITests:                 "CI-Tests",
	indicatorHumanCodeReviewRequirement: "Code-Review",
	indicatorHasPublishedPackage:        "Packaging",
}

type scorecardReport struct {
	Checks []scorecardCheck `json:"checks"`
}

type scorecardCheck struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// scorecard evaluates several indicators from a single OpenSSF Scorecard scan.
type scorecard struct {
	base
	container Container
	token     string
	cache     *ResultCache[scorecardReport]
}

func newScorecard(ctx context.Context, rc types.RunContext, env Environment) (Plugin, error) {
	info := scorecardInfo
	c, err := provisionContainer(ctx, env, executor.Image{Ref: "gcr.io/openssf/scorecard:" + info.Version})
	if err != nil {
		return nil, err
	}

	p := &scorecard{
		base:      base{info: info},
		container: c,
		token:     rc.GitHubToken,
		cache:     NewResultCache[scorecardReport](),
	}
	p.release = append(p.release, c.Release)
	for indicator, check := range scorecardChecks {
		p.handle(indicator, p.scoreHandler(indicator, check))
	}
	return p, nil
}

func (p *scorecard) scan(ctx context.Context, target types.RepositoryTarget) (scorecardReport, error) {
	return p.cache.GetOrLoad(ctx, target, func(ctx context.Context) (scorecardReport, error) {
		var report scorecardReport

		if info := hostdetect.FromURL(target.URL); info != nil && !hostdetect.SupportsScorecard(info.Provider) {
			return report, fmt.Errorf("scorecard supports GitHub and GitLab repositories, not %s", info.Host)
		}

		args := []string{"--repo", repoURL(target.URL), "--format", "json"}
		if target.IsCommitHash() {
			args = append(args, "--commit", target.Ref)
		}
		opts := executor.RunOptions{}
		if p.token != "" {
			opts.Env = map[string]string{"GITHUB_AUTH_TOKEN": p.token}
		}

		res, err := p.container.Run(ctx, args, opts)
		if err != nil {
			return report, err
		}
		if res.ExitCode != 0 {
			return report, fmt.Errorf("scorecard exited with status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
		}
		if strings.TrimSpace(res.Stdout) == "" {
			return report, errors.New("no output received from scorecard")
		}
		if err := json.Unmarshal([]byte(res.Stdout), &report); err != nil {
			return report, fmt.Errorf("parse scorecard output: %w", err)
		}
		if len(report.Checks) == 0 {
			return report, errors.New("no checks found in scorecard output")
		}
		return report, nil
	})
}

func (p *scorecard) scoreHandler(indicator, check string) Handler {
	return func(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
		report, err := p.scan(ctx, target)
		if err != nil {
			return nil, p.fail(indicator, err)
		}

		score, ok := 0, false
		for _, c := range report.Checks {
			if c.Name == check {
				score, ok = c.Score, true
				break
			}
		}
		if !ok {
			return nil, p.fail(indicator, fmt.Errorf("check %q not found in scorecard output", check))
		}

		result := types.CheckResult{
			Process:  fmt.Sprintf("Calculates the %s score.", check),
			StatusID: types.StatusCompleted,
		}
		if score >= scorecardThreshold {
			result.Output = "true"
			result.Evidence = fmt.Sprintf("%s score is %d or higher (%d).", check, scorecardThreshold, score)
			result.Success = true
		} else {
			result.Output = "false"
			result.Evidence = fmt.Sprintf("%s score is less than %d (%d).", check, scorecardThreshold, score)
		}
		return single(result), nil
	}
}
