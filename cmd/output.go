package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/tui"
)

// outputFlags are the non-interactive switches shared by several commands.
type outputFlags struct {
	quiet bool
	json  bool
	yes   bool
}

func (f *outputFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Only report errors")
	fs.BoolVar(&f.json, "json", false, "Emit a JSON response instead of styled output")
	fs.BoolVarP(&f.yes, "yes", "y", false, "Answer yes to confirmation prompts")
	cmd.MarkFlagsMutuallyExclusive("quiet", "json")
}

func (f *outputFlags) nonInteractive() core.NonInteractiveFlags {
	flags := core.NonInteractiveFlags{Yes: f.yes}
	switch {
	case f.json:
		flags.Mode = core.OutputJSON
	case f.quiet:
		flags.Mode = core.OutputQuiet
	}
	return flags
}

// reporter routes command results to the styled, plain or JSON surface.
type reporter struct {
	ui   core.UICallback
	mode core.OutputMode
	out  io.Writer
}

func newReporter(cmd *cobra.Command, f *outputFlags) *reporter {
	flags := f.nonInteractive()
	return &reporter{ui: tui.NewCallback(flags), mode: flags.Mode, out: cmd.OutOrStdout()}
}

func (r *reporter) styled() bool {
	return r.mode == core.OutputNormal
}

// fail reports err and returns the ExitError for it.
func (r *reporter) fail(title string, err error) error {
	code := core.CLIExitCodeForError(err)
	if r.mode == core.OutputJSON {
		_ = core.WriteCLIResponse(r.out, core.CLIResponse{
			Error: &core.CLIErrorDetail{Code: core.CLIErrorCodeForError(err), Message: err.Error()},
		})
	} else {
		r.ui.ShowError(title, err.Error())
	}
	return &ExitError{Code: code}
}

// invalid reports a usage problem detected after flag parsing.
func (r *reporter) invalid(title string, err error) error {
	if r.mode == core.OutputJSON {
		_ = core.WriteCLIResponse(r.out, core.CLIResponse{
			Error: &core.CLIErrorDetail{Code: core.ErrCodeInvalidArguments, Message: err.Error()},
		})
	} else {
		r.ui.ShowError(title, err.Error())
	}
	return &ExitError{Code: core.ExitInvalidArguments}
}

// success emits data in JSON mode and message otherwise.
func (r *reporter) success(message string, data any) {
	if r.mode == core.OutputJSON {
		_ = core.WriteCLIResponse(r.out, core.CLIResponse{Success: true, Data: data})
		return
	}
	r.ui.ShowSuccess(message)
}
