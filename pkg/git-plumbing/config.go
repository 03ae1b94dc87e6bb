package git

import "context"

// ConfigGet reads a git config value.
func (g *Git) ConfigGet(ctx context.Context, key string) (string, error) {
	return g.Run(ctx, "config", key)
}
