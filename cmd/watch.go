package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/tui"
)

func newWatchCommand() *cobra.Command {
	f := &assessFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the assessment whenever the configuration file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, f)
		},
	}
	f.bind(cmd, publishNone, core.ConfigName)
	return cmd
}

func runWatch(cmd *cobra.Command, f *assessFlags) error {
	r := newReporter(cmd, &f.out)
	if r.mode == core.OutputJSON {
		return r.invalid("Invalid Output", errors.New("watch does not support --json"))
	}
	target, err := parsePublishTarget(f.publish.target)
	if err != nil {
		return r.invalid("Invalid Publish Target", err)
	}

	mgr, err := newManager()
	if err != nil {
		return r.fail("Watch Failed", err)
	}
	res, err := mgr.Resolve(cmd.Context(), f.url, f.ref)
	if err != nil {
		return r.fail("Repository Not Found", err)
	}

	run := func(ctx context.Context) error {
		cfg, err := mgr.Prepare(f.config)
		if err != nil {
			return err
		}
		progress := tui.NewProgressTracker(r.mode, len(cfg.Indicators), "Checking indicators")
		result, err := mgr.Assess(ctx, res, cfg, f.options(), progress)
		if err != nil {
			return err
		}
		if _, err := f.publish.publish(ctx, target, res.Software.Name, result.OutputPath); err != nil {
			r.ui.ShowError("Publishing Failed", err.Error())
		}
		if n := len(result.Report.Failed); n > 0 {
			return fmt.Errorf("%d of %d indicators not evaluated", n, len(cfg.Indicators))
		}
		return nil
	}

	if r.styled() {
		tui.PrintInfo(fmt.Sprintf("Watching %s (Ctrl+C to stop)", f.config))
	}
	if err := run(cmd.Context()); err != nil {
		r.ui.ShowError("Assessment Failed", err.Error())
	}
	if err := core.NewConfigWatcher(f.config, r.ui).Watch(cmd.Context(), run); err != nil {
		return r.fail("Watch Failed", err)
	}
	return nil
}
