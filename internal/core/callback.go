package core

// OutputMode controls how output is displayed
type OutputMode int

// OutputMode constants define available output formatting modes.
const (
	OutputNormal OutputMode = iota // Default: styled output
	OutputQuiet                    // Minimal output
	OutputJSON                     // Structured JSON
)

// NonInteractiveFlags groups all non-interactive options
type NonInteractiveFlags struct {
	Yes  bool       // Auto-approve prompts
	Mode OutputMode // Output formatting mode
}

// JSONOutput represents structured output
type JSONOutput struct {
	Status  string         `json:"status"`            // "success", "error", "warning"
	Message string         `json:"message,omitempty"` // Optional message
	Data    map[string]any `json:"data,omitempty"`    // Command-specific data
	Error   *JSONError     `json:"error,omitempty"`   // Error details
}

// JSONError represents error information in JSON output
type JSONError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// UICallback handles user interaction during an assessment
type UICallback interface {
	ShowError(title, message string)
	ShowSuccess(message string)
	ShowWarning(title, message string)
	AskConfirmation(title, message string) bool
	StyleTitle(title string) string

	GetOutputMode() OutputMode
	IsAutoApprove() bool
	FormatJSON(output JSONOutput) error
}

// SilentUICallback is a no-op implementation (for testing/CI)
type SilentUICallback struct{}

func (s *SilentUICallback) ShowError(_, _ string)            {}
func (s *SilentUICallback) ShowSuccess(_ string)             {}
func (s *SilentUICallback) ShowWarning(_, _ string)          {}
func (s *SilentUICallback) AskConfirmation(_, _ string) bool { return false }
func (s *SilentUICallback) StyleTitle(title string) string   { return title }
func (s *SilentUICallback) GetOutputMode() OutputMode        { return OutputQuiet }
func (s *SilentUICallback) IsAutoApprove() bool              { return true }
func (s *SilentUICallback) FormatJSON(_ JSONOutput) error    { return nil }

// ProgressTracker receives cosmetic progress updates from the Assessor.
// Implementations never influence the outcome of a run.
type ProgressTracker interface {
	SetTotal(total int)
	Increment(message string)
	Complete()
	Fail(err error)
}

type noopProgress struct{}

func (noopProgress) SetTotal(int)     {}
func (noopProgress) Increment(string) {}
func (noopProgress) Complete()        {}
func (noopProgress) Fail(error)       {}
