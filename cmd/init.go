package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/tui"
	"github.com/EmundoT/git-assess/internal/types"
)

func newInitCommand() *cobra.Command {
	var (
		out      outputFlags
		path     string
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an indicator configuration file",
		Long: "init writes an indicator configuration. On a terminal it starts an\n" +
			"interactive wizard; with --defaults, --yes, --quiet or --json it writes\n" +
			"the built-in indicator list.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, &out, path, defaults)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", core.ConfigName, "Configuration file to write (.yml, .yaml or .json)")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Write the built-in indicator list without prompting")
	out.bind(cmd)
	return cmd
}

func runInit(cmd *cobra.Command, out *outputFlags, path string, defaults bool) error {
	r := newReporter(cmd, out)

	current := core.DefaultConfig()
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists {
		if cfg, err := core.LoadConfig(path); err == nil {
			current = cfg
		}
	}

	cfg := current
	if _, interactive := r.ui.(*tui.TUICallback); interactive && !defaults {
		var err error
		cfg, path, err = tui.RunInitWizard(plugin.DefaultRegistry(), current, path)
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return &ExitError{Code: core.ExitGeneralError}
		}
		if err != nil {
			return r.fail("Wizard Failed", err)
		}
		_, statErr = os.Stat(path)
		exists = statErr == nil
	}

	if exists && !r.ui.AskConfirmation("Overwrite "+path+"?", "The existing configuration will be replaced.") {
		return &ExitError{Code: core.ExitGeneralError}
	}
	if err := saveConfig(path, cfg); err != nil {
		return r.fail("Write Failed", err)
	}
	r.success(fmt.Sprintf("Wrote %d indicators to %s", len(cfg.Indicators), path), map[string]any{
		"config":     path,
		"indicators": len(cfg.Indicators),
	})
	return nil
}

func saveConfig(path string, cfg types.AssessmentConfig) error {
	if err := plugin.DefaultRegistry().Validate(cfg); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, err)
	}
	return core.NewFileConfigStore(path).Save(cfg)
}
