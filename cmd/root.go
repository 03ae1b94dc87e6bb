// Package cmd implements the git-assess command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/logging"
	"github.com/EmundoT/git-assess/internal/version"
)

// ExitError ends a command with a specific exit code. A nil Err means the
// command already reported the problem to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// lookupEnv reads credential fallbacks; tests replace it.
var lookupEnv = os.Getenv

var rootFlags struct {
	logLevel  string
	logFormat string
	verbose   bool
}

// NewRootCommand builds the git-assess command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "git-assess",
		Short: "Assess software repositories against quality indicators",
		Long: "git-assess runs quality indicators (license, citation, secret scanning,\n" +
			"OpenSSF Scorecard, linting, metadata) against a git repository, writes a\n" +
			"JSON-LD assessment report and optionally publishes it to a collector.",
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
			core.Verbose = rootFlags.verbose
		},
	}
	root.SetVersionTemplate("git-assess {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log git commands as they run")

	root.AddCommand(
		newAssessCommand(),
		newIndicatorsCommand(),
		newInitCommand(),
		newExportCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(root),
	)
	return root
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	return run(ctx, NewRootCommand(), args)
}

func run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return core.ExitSuccess
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", exit.Err)
		}
		return exit.Code
	}
	// Flag and argument errors from cobra.
	fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	return core.ExitInvalidArguments
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "git-assess %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:       "completion <bash|zsh|fish|powershell>",
		Short:     "Generate shell completion script",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
