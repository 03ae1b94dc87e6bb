package git

import (
	"context"
	"fmt"
)

// Describe returns the nearest tag reachable from HEAD, falling back to the
// abbreviated commit hash when the repository has no tags.
func (g *Git) Describe(ctx context.Context) (string, error) {
	return g.Run(ctx, "describe", "--tags", "--always")
}

// ShowHead formats the HEAD commit with a --pretty format string, e.g. "%an".
func (g *Git) ShowHead(ctx context.Context, format string) (string, error) {
	return g.Run(ctx, "show", "-s", "--pretty=format:"+format, "HEAD")
}

// RemoteURL returns the configured URL of the named remote.
func (g *Git) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := g.ConfigGet(ctx, fmt.Sprintf("remote.%s.url", name))
	if err != nil {
		return "", fmt.Errorf("remote %q: %w", name, ErrRefNotFound)
	}
	return out, nil
}
