package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/sbom"
)

func newExportCommand() *cobra.Command {
	var (
		out    outputFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [report]",
		Short: "Convert an assessment report to CycloneDX or SPDX",
		Example: `  git-assess export                              # CycloneDX to stdout
  git-assess export --format spdx -o assessment.spdx.json
  git-assess export report.json --format cyclonedx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newReporter(cmd, &out)
			f, err := sbom.ParseFormat(format)
			if err != nil {
				return r.invalid("Invalid Format", err)
			}
			path := core.DefaultOutputFile
			if len(args) == 1 {
				path = args[0]
			}

			report, err := core.ReadReport(path)
			if err != nil {
				return r.fail("Read Failed", err)
			}
			data, err := sbom.NewExporter().Export(report, f)
			if err != nil {
				return r.fail("Export Failed", err)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return r.fail("Write Failed", err)
			}
			r.success(fmt.Sprintf("%s written to %s", f, output), map[string]any{"format": f, "output": output})
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(sbom.FormatCycloneDX), "Output format: cyclonedx or spdx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	out.bind(cmd)
	return cmd
}
