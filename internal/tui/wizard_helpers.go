package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/types"
)

// Catalog is the read side of a plugin registry.
type Catalog interface {
	IDs() []string
	Lookup(id string) (plugin.Factory, bool)
}

// catalogEntry is one selectable (plugin, indicator) pair.
type catalogEntry struct {
	Key       string
	Plugin    string
	Indicator string
	Label     string
}

// optionKey joins a plugin id and an indicator name into a selection key.
func optionKey(pluginID, indicator string) string {
	return pluginID + "/" + indicator
}

// catalogEntries lists every indicator of every plugin in registration order.
func catalogEntries(cat Catalog) []catalogEntry {
	var entries []catalogEntry
	for _, id := range cat.IDs() {
		f, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		for _, name := range f.Indicators {
			entries = append(entries, catalogEntry{
				Key:       optionKey(id, name),
				Plugin:    id,
				Indicator: name,
				Label:     fmt.Sprintf("%s (%s)", name, id),
			})
		}
	}
	return entries
}

// selectedKeys returns the selection keys of the indicators in cfg.
func selectedKeys(cfg types.AssessmentConfig) []string {
	keys := make([]string, 0, len(cfg.Indicators))
	for _, spec := range cfg.Indicators {
		keys = append(keys, optionKey(spec.Plugin, spec.Name))
	}
	return keys
}

// indicatorIDs maps selection keys of cfg to their @id.
func indicatorIDs(cfg types.AssessmentConfig) map[string]string {
	ids := make(map[string]string, len(cfg.Indicators))
	for _, spec := range cfg.Indicators {
		ids[optionKey(spec.Plugin, spec.Name)] = spec.ID
	}
	return ids
}

// defaultIndicatorID returns the @id already known for key, or the
// placeholder used by indicators without a published identifier.
func defaultIndicatorID(key string, known map[string]string) string {
	if id := known[key]; id != "" {
		return id
	}
	return "missing"
}

// buildConfig assembles the selected entries, in catalog order, into a config.
func buildConfig(entries []catalogEntry, selected []string, ids map[string]string) types.AssessmentConfig {
	chosen := make(map[string]bool, len(selected))
	for _, k := range selected {
		chosen[k] = true
	}
	var cfg types.AssessmentConfig
	for _, e := range entries {
		if !chosen[e.Key] {
			continue
		}
		cfg.Indicators = append(cfg.Indicators, types.IndicatorSpec{
			Name:   e.Indicator,
			Plugin: e.Plugin,
			ID:     defaultIndicatorID(e.Key, ids),
		})
	}
	return cfg
}

// validateSelection requires at least one indicator.
func validateSelection(keys []string) error {
	if len(keys) == 0 {
		return errors.New("select at least one indicator")
	}
	return nil
}

// validateIndicatorID accepts "missing" or an absolute IRI.
func validateIndicatorID(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return errors.New("@id cannot be empty")
	case s == "missing":
		return nil
	case !strings.Contains(s, "://"):
		return errors.New("@id must be an absolute IRI or \"missing\"")
	}
	return nil
}

// validateConfigPath accepts paths ending in .yml, .yaml or .json.
func validateConfigPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("path cannot be empty")
	}
	switch strings.ToLower(filepath.Ext(s)) {
	case ".yml", ".yaml", ".json":
		return nil
	}
	return errors.New("path must end in .yml, .yaml or .json")
}

// formatTokenStatus renders the GitHub token presence line.
func formatTokenStatus(present bool) string {
	if present {
		return "GitHub token: ✔"
	}
	return "GitHub token: ✖"
}

// softwareLines lists the known metadata of the assessed software.
func softwareLines(sw types.SoftwareInfo) []string {
	fields := []struct{ label, value string }{
		{"Name", sw.Name},
		{"Version", sw.Version},
		{"URL", sw.URL},
		{"Ref", sw.Ref},
		{"Author", sw.Author},
		{"Email", sw.Email},
	}
	var lines []string
	for _, f := range fields {
		if f.value != "" {
			lines = append(lines, fmt.Sprintf("%-8s %s", f.label+":", f.value))
		}
	}
	return lines
}

// formatPluginHeader renders the heading line of a plugin in the catalog listing.
func formatPluginHeader(id string, info types.PluginInfo) string {
	head := id
	if info.Version != "" {
		head += " " + info.Version
	}
	if info.Name != "" && info.Name != id {
		head += fmt.Sprintf(" (%s)", info.Name)
	}
	return head
}

// formatIndicatorCount returns a human-readable indicator count.
func formatIndicatorCount(count int) string {
	if count == 1 {
		return "1 indicator"
	}
	return fmt.Sprintf("%d indicators", count)
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
