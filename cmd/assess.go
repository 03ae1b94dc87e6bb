package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/tui"
)

// assessFlags configure one assessment run.
type assessFlags struct {
	url         string
	ref         string
	config      string
	output      string
	githubToken string
	workers     int
	timeout     time.Duration
	runTimeout  time.Duration
	scratchDir  string
	publish     publishFlags
	out         outputFlags
}

// newManager builds the Manager used by assess and watch; tests replace it.
var newManager = func() (*core.Manager, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return core.NewManager(dir), nil
}

func newAssessCommand() *cobra.Command {
	f := &assessFlags{}
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the configured indicators and write the assessment report",
		Example: `  git-assess assess
  git-assess assess -u https://github.com/owner/repo -b v1.2.0 -t $GITHUB_TOKEN
  git-assess assess -c git-assess.yml -o report.json --publish none --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd, f)
		},
	}
	f.bind(cmd, publishDashverse, "")
	return cmd
}

func (f *assessFlags) bind(cmd *cobra.Command, defaultPublish, defaultConfig string) {
	fs := cmd.Flags()
	fs.StringVarP(&f.url, "url", "u", "", "Repository URL (default: the working copy's origin)")
	fs.StringVarP(&f.ref, "ref", "b", "", "Branch, tag or commit hash (default: HEAD commit)")
	fs.StringVarP(&f.config, "config", "c", defaultConfig, "Indicator configuration file (empty: built-in list)")
	fs.StringVarP(&f.output, "output", "o", core.DefaultOutputFile, "Report output file")
	fs.StringVarP(&f.githubToken, "github-token", "t", "", "GitHub API token (default $GITHUB_TOKEN)")
	fs.IntVar(&f.workers, "workers", 0, "Plugins evaluated in parallel (default: min(NumCPU, 8))")
	fs.DurationVar(&f.timeout, "timeout", core.DefaultIndicatorTimeout, "Time limit per indicator (0 disables)")
	fs.DurationVar(&f.runTimeout, "run-timeout", 0, "Time limit per tool invocation (default: executor default)")
	fs.StringVar(&f.scratchDir, "scratch-dir", "", "Parent directory for clones and sandboxes")
	f.publish.bind(cmd, defaultPublish)
	f.out.bind(cmd)
}

func (f *assessFlags) options() core.AssessOptions {
	timeout := f.timeout
	if timeout == 0 {
		timeout = -1
	}
	return core.AssessOptions{
		OutputPath:       f.output,
		GitHubToken:      firstNonEmpty(f.githubToken, lookupEnv("GITHUB_TOKEN")),
		Workers:          f.workers,
		RunTimeout:       f.runTimeout,
		IndicatorTimeout: timeout,
		ScratchDir:       f.scratchDir,
	}
}

// assessData is the JSON payload of a finished assessment.
type assessData struct {
	Output       string          `json:"output"`
	Evaluated    int             `json:"evaluated"`
	Failed       []failureData   `json:"failed,omitempty"`
	Indicators   []indicatorData `json:"indicators"`
	Published    bool            `json:"published"`
	PublishError string          `json:"publish_error,omitempty"`
}

type indicatorData struct {
	Name    string  `json:"name"`
	Plugin  string  `json:"plugin"`
	Passed  bool    `json:"passed"`
	Seconds float64 `json:"seconds"`
	Error   string  `json:"error,omitempty"`
}

type failureData struct {
	Indicator string `json:"indicator"`
	Plugin    string `json:"plugin"`
	Error     string `json:"error"`
}

func runAssess(cmd *cobra.Command, f *assessFlags) error {
	ctx := cmd.Context()
	r := newReporter(cmd, &f.out)

	target, err := parsePublishTarget(f.publish.target)
	if err != nil {
		return r.invalid("Invalid Publish Target", err)
	}
	if f.workers < 0 {
		return r.invalid("Invalid Workers", fmt.Errorf("--workers must not be negative, got %d", f.workers))
	}

	mgr, err := newManager()
	if err != nil {
		return r.fail("Assessment Failed", err)
	}
	cfg, err := mgr.Prepare(f.config)
	if err != nil {
		return r.fail("Invalid Configuration", err)
	}
	res, err := mgr.Resolve(ctx, f.url, f.ref)
	if err != nil {
		return r.fail("Repository Not Found", err)
	}

	opts := f.options()
	if r.styled() {
		tui.PrintAssessmentHeader(res.Software, opts.GitHubToken != "")
	}

	progress := tui.NewProgressTracker(r.mode, len(cfg.Indicators), "Checking indicators")
	result, err := mgr.Assess(ctx, res, cfg, opts, progress)
	if err != nil {
		return r.fail("Assessment Failed", err)
	}

	data := assessData{
		Output:     result.OutputPath,
		Evaluated:  result.Report.Evaluated,
		Indicators: indicatorsData(result.Report),
	}
	for _, failure := range result.Report.Failed {
		data.Failed = append(data.Failed, failureData{
			Indicator: failure.Indicator.Name,
			Plugin:    failure.Indicator.Plugin,
			Error:     failure.Err.Error(),
		})
		if r.mode != core.OutputJSON {
			r.ui.ShowWarning(fmt.Sprintf("%s/%s not evaluated", failure.Indicator.Name, failure.Indicator.Plugin), failure.Err.Error())
		}
	}
	if r.mode != core.OutputJSON {
		r.ui.ShowSuccess(fmt.Sprintf("Summary has been written to %s", result.OutputPath))
	}

	published, perr := f.publish.publish(ctx, target, res.Software.Name, result.OutputPath)
	data.Published = published
	switch {
	case perr != nil:
		data.PublishError = perr.Error()
		if r.mode != core.OutputJSON {
			r.ui.ShowError("Publishing Failed", perr.Error())
		}
	case published && r.mode != core.OutputJSON:
		r.ui.ShowSuccess("Summary published to " + target)
	}

	if r.mode == core.OutputJSON {
		r.success("", data)
	}
	if code := result.Report.ExitCode(); code != core.ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}

func indicatorsData(report *core.RunReport) []indicatorData {
	out := make([]indicatorData, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		d := indicatorData{
			Name:    o.Indicator.Name,
			Plugin:  o.Indicator.Plugin,
			Passed:  o.Passed(),
			Seconds: o.Elapsed.Seconds(),
		}
		if o.Err != nil {
			d.Error = o.Err.Error()
		}
		out = append(out, d)
	}
	return out
}
