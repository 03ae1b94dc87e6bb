// Package repo resolves the repository under assessment and provides scratch
// clones for tools that need a checkout.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"

	git "github.com/EmundoT/git-plumbing"

	"github.com/EmundoT/git-assess/internal/hostdetect"
	"github.com/EmundoT/git-assess/internal/logging"
	"github.com/EmundoT/git-assess/internal/types"
)

// ErrNoRepository indicates no repository could be resolved for assessment.
var ErrNoRepository = errors.New("no git repository to assess")

// GitCloner clones repositories with the git CLI.
type GitCloner struct {
	Verbose bool
	// FullHistory fetches every blob up front. Otherwise the clone is
	// blobless and contents outside the checked out tree are fetched on demand.
	FullHistory bool
}

// Clone clones url into dir and checks out ref when it is non-empty.
func (c GitCloner) Clone(ctx context.Context, url, ref, dir string) error {
	g := &git.Git{Dir: dir, Verbose: c.Verbose}
	if err := g.Clone(ctx, url, c.cloneOpts()); err != nil {
		return err
	}
	if ref == "" {
		return nil
	}
	if err := g.Checkout(ctx, ref); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

func (c GitCloner) cloneOpts() *git.CloneOpts {
	if c.FullHistory {
		return nil
	}
	return &git.CloneOpts{Filter: "blob:none"}
}

// Resolution is the outcome of resolving a repository.
type Resolution struct {
	Target   types.RepositoryTarget
	Software types.SoftwareInfo
}

// Inspector reads repository metadata either from a local working copy or
// from a temporary clone of a remote URL.
type Inspector struct {
	Dir        string // working copy inspected when no URL is given
	ScratchDir string // parent of temporary clones; "" means os.TempDir
	Cloner     GitCloner
}

// Resolve determines the target and software metadata. With an empty url the
// working copy at Dir is inspected and must have an origin remote. An empty
// ref resolves to the HEAD commit.
func (i *Inspector) Resolve(ctx context.Context, url, ref string) (*Resolution, error) {
	if url == "" {
		res, err := i.inspect(ctx, i.Dir, ref)
		if err != nil {
			return nil, err
		}
		if res.Target.URL == "" {
			return nil, fmt.Errorf("%w: %s has no origin remote", ErrNoRepository, i.Dir)
		}
		return res, nil
	}

	dir, err := os.MkdirTemp(i.ScratchDir, "git-assess-inspect-")
	if err != nil {
		return nil, fmt.Errorf("create inspection dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logging.New("repo").Warn("failed to remove inspection clone", "dir", dir, "error", rmErr)
		}
	}()

	if err := i.Cloner.Clone(ctx, url, ref, dir); err != nil {
		return nil, fmt.Errorf("%w: clone %s: %v", ErrNoRepository, url, err)
	}
	res, err := i.inspect(ctx, dir, ref)
	if err != nil {
		return nil, err
	}
	if res.Target.URL == "" {
		res.Target.URL = hostdetect.ToHTTPS(url)
		res.Software.URL = res.Target.URL
		res.Software.Name = hostdetect.ProjectName(url)
	}
	return res, nil
}

func (i *Inspector) inspect(ctx context.Context, dir, ref string) (*Resolution, error) {
	g := &git.Git{Dir: dir, Verbose: i.Cloner.Verbose}

	head, err := g.HEAD(ctx)
	if err != nil {
		if git.IsNotRepo(err) {
			return nil, fmt.Errorf("%w: %s is not a git repository", ErrNoRepository, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	if ref == "" {
		ref = head
	}

	info := types.SoftwareInfo{Ref: ref}
	if remote, err := g.RemoteURL(ctx, "origin"); err == nil {
		info.URL = hostdetect.ToHTTPS(remote)
		info.Name = hostdetect.ProjectName(remote)
	}
	// Metadata is best effort: a shallow or tagless history still yields a target.
	info.Author, _ = g.ShowHead(ctx, "%an")
	info.Email, _ = g.ShowHead(ctx, "%ae")
	info.Version, _ = g.Describe(ctx)

	return &Resolution{
		Target:   types.RepositoryTarget{URL: info.URL, Ref: ref},
		Software: info,
	}, nil
}
