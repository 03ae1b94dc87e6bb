package git

import "context"

// HEAD returns the full SHA of the current HEAD commit.
func (g *Git) HEAD(ctx context.Context) (string, error) {
	return g.Run(ctx, "rev-parse", "HEAD")
}
