package plugin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EmundoT/git-assess/internal/executor"
)

// pyString renders s as a Python string literal, or None when s is empty.
func pyString(s string) string {
	if s == "" {
		return "None"
	}
	return strconv.Quote(s)
}

// scriptFailure describes a sandbox script that exited non-zero.
func scriptFailure(res executor.Result) error {
	msg := strings.TrimSpace(res.Stderr)
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = strings.TrimSpace(msg[i+1:])
	}
	if msg == "" {
		return fmt.Errorf("script exited with status %d", res.ExitCode)
	}
	return fmt.Errorf("script exited with status %d: %s", res.ExitCode, msg)
}

// repoURL strips a trailing ".git" so tools receive the browsable project URL.
func repoURL(url string) string {
	return strings.TrimSuffix(url, ".git")
}

// treeURL builds the web URL of a revision, e.g. https://github.com/o/r/tree/main.
func treeURL(url, ref string) string {
	u := strings.TrimSuffix(repoURL(url), "/")
	if ref == "" {
		return u
	}
	return u + "/tree/" + ref
}
