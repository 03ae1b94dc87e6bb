package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/EmundoT/git-assess/internal/types"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleCard    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("238"))
)

// ErrAborted is returned when the user cancels a wizard.
var ErrAborted = errors.New("aborted")

// --- INIT WIZARD ---

// RunInitWizard lets the user pick indicators and their @id values. current
// preselects indicators and supplies known identifiers. It returns the new
// configuration and the path to write it to.
func RunInitWizard(cat Catalog, current types.AssessmentConfig, path string) (types.AssessmentConfig, string, error) {
	entries := catalogEntries(cat)
	options := make([]huh.Option[string], 0, len(entries))
	for _, e := range entries {
		options = append(options, huh.NewOption(e.Label, e.Key))
	}

	selected := selectedKeys(current)
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Indicators").
				Description("Space to toggle, Enter to confirm").
				Options(options...).
				Value(&selected).
				Validate(validateSelection),
			huh.NewInput().
				Title("Config file").
				Value(&path).
				Validate(validateConfigPath),
		),
	).Run()
	if err != nil {
		return types.AssessmentConfig{}, "", wizardError(err)
	}

	known := indicatorIDs(current)
	ids := make(map[string]string, len(selected))
	for _, key := range selected {
		id := defaultIndicatorID(key, known)
		err := huh.NewInput().
			Title(fmt.Sprintf("@id for %s", key)).
			Description(`Indicator IRI, or "missing"`).
			Value(&id).
			Validate(validateIndicatorID).
			Run()
		if err != nil {
			return types.AssessmentConfig{}, "", wizardError(err)
		}
		ids[key] = strings.TrimSpace(id)
	}

	return buildConfig(entries, selected, ids), path, nil
}

func wizardError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// --- OUTPUT HELPERS ---

// PrintError displays an error message with styling to the terminal.
func PrintError(title, msg string) { fmt.Println(styleErr.Render("✖ " + title)); fmt.Println(msg) }

// PrintSuccess displays a success message with styling to the terminal.
func PrintSuccess(msg string) { fmt.Println(styleSuccess.Render("✔ " + msg)) }

// PrintInfo displays an informational message to the terminal.
func PrintInfo(msg string) {
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(msg))
}

// PrintWarning displays a warning message with styling to the terminal.
func PrintWarning(title, msg string) { fmt.Println(styleWarn.Render("! " + title)); fmt.Println(msg) }

// StyleTitle applies title styling to the given text string.
func StyleTitle(text string) string { return styleTitle.Render(text) }

// PrintAssessmentHeader shows what is about to be assessed.
func PrintAssessmentHeader(sw types.SoftwareInfo, hasToken bool) {
	fmt.Println(StyleTitle("Assessing " + displayName(sw)))
	lines := softwareLines(sw)
	if len(lines) > 0 {
		fmt.Println(styleCard.Render(strings.Join(lines, "\n")))
	}
	if hasToken {
		fmt.Println(styleSuccess.Render(formatTokenStatus(true)))
	} else {
		fmt.Println(styleWarn.Render(formatTokenStatus(false)))
	}
	fmt.Println()
}

func displayName(sw types.SoftwareInfo) string {
	switch {
	case sw.Name != "":
		return sw.Name
	case sw.URL != "":
		return sw.URL
	}
	return "working copy"
}

// PrintIndicatorCatalog lists every registered plugin and its indicators.
func PrintIndicatorCatalog(cat Catalog) {
	for _, id := range cat.IDs() {
		f, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		fmt.Println(StyleTitle(formatPluginHeader(id, f.Info)) + " " +
			styleDim.Render(formatIndicatorCount(len(f.Indicators))))
		if f.Info.ID != "" {
			fmt.Println(styleDim.Render("  " + truncate(f.Info.ID, 72)))
		}
		for _, name := range f.Indicators {
			fmt.Printf("  • %s\n", name)
		}
	}
}
