package plugin

import (
	"context"
	"fmt"
	"os"

	"github.com/EmundoT/git-assess/internal/logging"
	"github.com/EmundoT/git-assess/internal/types"
)

// WithScratchDir creates a private directory under parent, calls fn with it and
// removes the directory afterwards on every path.
func WithScratchDir(parent, pattern string, fn func(dir string) error) error {
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logging.New("plugin").Warn("failed to remove scratch dir", "dir", dir, "error", rmErr)
		}
	}()
	return fn(dir)
}

// WithClone clones target into a scratch directory, calls fn with the checkout
// and removes the checkout afterwards, whether fn succeeds or not.
func WithClone(ctx context.Context, cloner Cloner, scratchDir string, target types.RepositoryTarget, fn func(dir string) error) error {
	return WithScratchDir(scratchDir, "git-assess-clone-", func(dir string) error {
		if err := cloner.Clone(ctx, target.URL, target.Ref, dir); err != nil {
			return fmt.Errorf("clone %s: %w", target.URL, err)
		}
		return fn(dir)
	})
}
