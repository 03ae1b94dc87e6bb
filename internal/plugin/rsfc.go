package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/EmundoT/git-assess/internal/executor"
	"github.com/EmundoT/git-assess/internal/types"
)

// rsfcTests maps each indicator to the RSFC test identifiers that answer it.
// Lookups are exact; an indicator is never matched by substring.
var rsfcTests = map[string][]string{
	"persistent_and_unique_identifier": {"RSFC-01-1"},
	"has_releases":                     {"RSFC-03-1"},
	"versioning_standards_use":         {"RSFC-03-3"},
	"descriptive_metadata":             {"RSFC-04-1"},
	"software_has_documentation":       {"RSFC-05-3"},
	"archived_in_software_heritage":    {"RSFC-08-1"},
	"requirements_specified":           {"RSFC-13-1"},
	"software_has_tests":               {"RSFC-14-1"},
	"software_has_license":             {"RSFC-15-1"},
	"version_control_use":              {"RSFC-17-2"},
	"software_has_citation":            {"RSFC-18-1"},
	"repository_workflows":             {"RSFC-19-1"},
}

var rsfcInfo = types.PluginInfo{
	Name:    "RSFC",
	ID:      "https://w3id.org/everse/tools/rsfc",
	Version: "0.0.4",
}

var rsfcFactory = Factory{
	Info:       rsfcInfo,
	Indicators: rsfcIndicators(),
	New:        newRSFC,
}

func rsfcIndicators() []string {
	names := make([]string, 0, len(rsfcTests))
	for name := range rsfcTests {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

const rsfcOutputMount = "/rsfc/outputs"

type rsfcCheck struct {
	TestID  string `json:"test_id"`
	Process string `json:"process"`
	Status  struct {
		ID string `json:"@id"`
	} `json:"status"`
	Output   json.RawMessage `json:"output"`
	Evidence string          `json:"evidence"`
}

// label returns the output as text, accepting either a JSON string or a bare
// JSON scalar such as true.
func (c rsfcCheck) label() string {
	var s string
	if err := json.Unmarshal(c.Output, &s); err == nil {
		return s
	}
	return string(c.Output)
}

// rsfc runs the Research Software FAIRness Checks container once per target
// and answers every RSFC indicator from that single report.
type rsfc struct {
	base
	container  Container
	scratchDir string
	cache      *ResultCache[map[string]rsfcCheck]
}

func newRSFC(ctx context.Context, _ types.RunContext, env Environment) (Plugin, error) {
	info := rsfcInfo
	c, err := provisionContainer(ctx, env, executor.Image{Ref: "docker.io/amonterodx/rsfc:" + info.Version})
	if err != nil {
		return nil, err
	}

	p := &rsfc{
		base:       base{info: info},
		container:  c,
		scratchDir: env.ScratchDir,
		cache:      NewResultCache[map[string]rsfcCheck](),
	}
	p.release = append(p.release, c.Release)
	for indicator, ids := range rsfcTests {
		p.handle(indicator, p.testHandler(indicator, ids))
	}
	return p, nil
}

func (p *rsfc) report(ctx context.Context, target types.RepositoryTarget) (map[string]rsfcCheck, error) {
	return p.cache.GetOrLoad(ctx, target, func(ctx context.Context) (map[string]rsfcCheck, error) {
		var checks map[string]rsfcCheck
		err := WithScratchDir(p.scratchDir, "git-assess-rsfc-", func(dir string) error {
			res, err := p.container.Run(ctx, []string{repoURL(target.URL)}, executor.RunOptions{
				Volumes: []executor.Volume{{HostPath: dir, ContainerPath: rsfcOutputMount}},
			})
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}
			if len(entries) != 1 {
				return fmt.Errorf("expected one RSFC output file, found %d (exit status %d)", len(entries), res.ExitCode)
			}

			data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
			if err != nil {
				return err
			}
			var doc struct {
				Checks []rsfcCheck `json:"checks"`
			}
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse RSFC report: %w", err)
			}

			checks = make(map[string]rsfcCheck, len(doc.Checks))
			for _, c := range doc.Checks {
				checks[c.TestID] = c
			}
			return nil
		})
		return checks, err
	})
}

func (p *rsfc) testHandler(indicator string, ids []string) Handler {
	return func(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
		checks, err := p.report(ctx, target)
		if err != nil {
			return nil, p.fail(indicator, err)
		}

		results := make([]types.CheckResult, 0, len(ids))
		for _, id := range ids {
			c, ok := checks[id]
			if !ok {
				return nil, p.fail(indicator, fmt.Errorf("test %s missing from RSFC report", id))
			}
			output := c.label()
			results = append(results, types.CheckResult{
				Process:  c.Process,
				StatusID: c.Status.ID,
				Output:   output,
				Evidence: c.Evidence,
				Success:  output == "true",
			})
		}
		return results, nil
	}
}
