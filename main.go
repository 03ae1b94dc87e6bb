// Package main implements the git-assess CLI for assessing software repositories
// against quality indicators.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/EmundoT/git-assess/cmd"
)

// Version information is managed in the internal/version package.
// GoReleaser injects it via ldflags.

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
