package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for common error conditions.
// These can be used with errors.Is() for error type checking.
var (
	// ErrInvalidConfig indicates the assessment configuration cannot drive a run
	ErrInvalidConfig = errors.New("invalid assessment configuration")

	// ErrMissingToken indicates a publisher that needs a credential was given none
	ErrMissingToken = errors.New("missing authentication token")

	// ErrSummarySealed indicates a result was added after the summary was serialized
	ErrSummarySealed = errors.New("summary already serialized")

	// ErrNoResults indicates a handler returned neither results nor an error
	ErrNoResults = errors.New("indicator produced no results")
)

// PublishError reports a failed upload of an assessment report.
// A non-zero StatusCode means the collector answered with a non-2xx response.
type PublishError struct {
	Target     string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("publish to %s: request failed with %s", e.Target, e.Status)
		if body := strings.TrimSpace(e.Body); body != "" {
			msg += ": " + body
		}
		return msg
	}
	return fmt.Sprintf("publish to %s: %v", e.Target, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the failure is authentication related: no credential
// was available, or the collector rejected the one that was sent.
func (e *PublishError) IsAuth() bool {
	if errors.Is(e.Err, ErrMissingToken) {
		return true
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err carries an authentication-classified PublishError.
func IsAuthError(err error) bool {
	var pubErr *PublishError
	return errors.As(err, &pubErr) && pubErr.IsAuth()
}
