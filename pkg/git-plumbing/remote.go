package git

import "context"

// CloneOpts configures a clone operation.
type CloneOpts struct {
	Filter string // e.g., "blob:none" for a blobless clone
}

// AddRemote adds a named remote.
func (g *Git) AddRemote(ctx context.Context, name, url string) error {
	return g.RunSilent(ctx, "remote", "add", name, url)
}

// Clone clones a repository into this directory.
func (g *Git) Clone(ctx context.Context, url string, opts *CloneOpts) error {
	args := []string{"clone"}
	if opts != nil {
		if opts.Filter != "" {
			args = append(args, "--filter="+opts.Filter)
		}
	}
	args = append(args, url, ".")
	return g.RunSilent(ctx, args...)
}

// Checkout checks out a ref (branch, tag, or commit hash).
func (g *Git) Checkout(ctx context.Context, ref string) error {
	return g.RunSilent(ctx, "checkout", ref)
}
