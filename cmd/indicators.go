package cmd

import (
	"github.com/spf13/cobra"

	"github.com/EmundoT/git-assess/internal/core"
	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/tui"
)

type pluginData struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Version    string   `json:"version,omitempty"`
	IRI        string   `json:"@id,omitempty"`
	Indicators []string `json:"indicators"`
}

func newIndicatorsCommand() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "List the available plugins and the indicators they provide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := newReporter(cmd, &out)
			reg := plugin.DefaultRegistry()
			switch r.mode {
			case core.OutputJSON:
				r.success("", catalogData(reg))
			case core.OutputNormal:
				tui.PrintIndicatorCatalog(reg)
			}
			return nil
		},
	}
	out.bind(cmd)
	return cmd
}

func catalogData(cat tui.Catalog) []pluginData {
	var out []pluginData
	for _, id := range cat.IDs() {
		f, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		out = append(out, pluginData{
			ID:         id,
			Name:       f.Info.Name,
			Version:    f.Info.Version,
			IRI:        f.Info.ID,
			Indicators: f.Indicators,
		})
	}
	return out
}
