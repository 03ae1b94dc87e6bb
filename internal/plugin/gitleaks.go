package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/types"
)

const indicatorHasNoSecurityLeak = "has_no_security_leak"

var gitleaksInfo = types.PluginInfo{
	Name:    "GitLeaks",
	ID:      "https://w3id.org/everse/tools/gitleaks",
	Version: "8.24.2",
}

var gitleaksFactory = Factory{
	Info:       gitleaksInfo,
	Indicators: []string{indicatorHasNoSecurityLeak},
	New:        newGitleaks,
}

const (
	gitleaksMount  = "/path"
	gitleaksReport = "report.json"
)

// gitleaks scans the full history of a scratch clone for leaked secrets.
type gitleaks struct {
	base
	container  Container
	cloner     Cloner
	scratchDir string
}

func newGitleaks(ctx context.Context, _ types.RunContext, env Environment) (Plugin, error) {
	info := gitleaksInfo
	c, err := provisionContainer(ctx, env, executor.Image{Ref: "ghcr.io/gitleaks/gitleaks:v" + info.Version})
	if err != nil {
		return nil, err
	}

	p := &gitleaks{base: base{info: info}, container: c, cloner: env.historyCloner(), scratchDir: env.ScratchDir}
	p.release = append(p.release, c.Release)
	p.handle(indicatorHasNoSecurityLeak, p.hasNoSecurityLeak)
	return p, nil
}

func (p *gitleaks) hasNoSecurityLeak(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
	var (
		res      executor.Result
		findings []json.RawMessage
	)
	err := WithClone(ctx, p.cloner, p.scratchDir, target, func(dir string) error {
		var err error
		res, err = p.container.Run(ctx,
			[]string{"git", gitleaksMount, "-r", gitleaksMount + "/" + gitleaksReport},
			executor.RunOptions{Volumes: []executor.Volume{{HostPath: dir, ContainerPath: gitleaksMount}}},
		)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filepath.Join(dir, gitleaksReport))
		if err != nil {
			return fmt.Errorf("read gitleaks report (exit status %d): %w", res.ExitCode, err)
		}
		if err := json.Unmarshal(data, &findings); err != nil {
			return fmt.Errorf("parse gitleaks report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, p.fail(indicatorHasNoSecurityLeak, err)
	}

	result := types.CheckResult{
		Process:  "Searches for security leaks in the full repository history.",
		StatusID: types.StatusCompleted,
	}
	if strings.Contains(res.Stderr, "no leaks found") && len(findings) == 0 {
		result.Output = "secure"
		result.Evidence = "No leaks have been found."
		result.Success = true
	} else {
		result.Output = "insecure"
		result.Evidence = "Leaks have been found."
	}
	return single(result), nil
}
