package core

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/repo"
)

// CLIResponse is the structured JSON output of commands run with --json.
//
// Schema:
//
//	{
//	  "success": true|false,
//	  "data": { ... },          // Command-specific payload (omitted on error)
//	  "error": {                 // Present only on failure
//	    "code": "CONFIG_ERROR",
//	    "message": "Human-readable description"
//	  }
//	}
type CLIResponse struct {
	Success bool            `json:"success"`
	Data    any             `json:"data,omitempty"`
	Error   *CLIErrorDetail `json:"error,omitempty"`
}

// CLIErrorDetail contains machine-readable error code and human-readable message.
type CLIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CLI exit codes.
const (
	ExitSuccess          = 0
	ExitIndicatorFailed  = 1 // at least one indicator could not be evaluated
	ExitConfigError      = 2
	ExitNoRepository     = 3
	ExitInvalidArguments = 4
	ExitGeneralError     = 5
)

// CLI error codes for structured JSON error responses.
const (
	ErrCodeConfigError      = "CONFIG_ERROR"
	ErrCodeNoRepository     = "NO_REPOSITORY"
	ErrCodeInvalidArguments = "INVALID_ARGUMENTS"
	ErrCodeIndicatorFailed  = "INDICATOR_FAILED"
	ErrCodePublishFailed    = "PUBLISH_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// WriteCLIResponse writes resp as indented JSON to w.
func WriteCLIResponse(w io.Writer, resp CLIResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// CLIExitCodeForError maps run-level errors to CLI exit codes.
func CLIExitCodeForError(err error) int {
	switch {
	case isConfigError(err):
		return ExitConfigError
	case errors.Is(err, repo.ErrNoRepository):
		return ExitNoRepository
	default:
		return ExitGeneralError
	}
}

// CLIErrorCodeForError maps run-level errors to CLI error code strings.
func CLIErrorCodeForError(err error) string {
	switch {
	case isConfigError(err):
		return ErrCodeConfigError
	case errors.Is(err, repo.ErrNoRepository):
		return ErrCodeNoRepository
	case errors.As(err, new(*PublishError)):
		return ErrCodePublishFailed
	default:
		return ErrCodeInternalError
	}
}

func isConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, plugin.ErrUnknownPlugin) ||
		errors.Is(err, plugin.ErrUnknownIndicator)
}
