package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/arjpeg/helix/pkg/driver"
)

// gitFetcher clones git dependencies into <cache>/pkg/src/<name>/<version>.
type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir}
}

func (g *gitFetcher) Fetch(ctx context.Context, name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, fmt.Errorf("git URL required")
	}

	baseDir := filepath.Join(g.cacheDir, "pkg", "src", sanitizePathSegment(name))
	version, commit, err := ensureGitCheckout(ctx, baseDir, url, spec)
	if err != nil {
		return nil, err
	}
	return &driver.LockedPackage{
		Name:    name,
		Version: version,
		Source:  fmt.Sprintf("git+%s@%s", url, commit),
		Path:    filepath.Join(baseDir, sanitizePathSegment(version)),
	}, nil
}

// ensureGitCheckout clones url, checks out the revision spec asks for and
// moves the worktree into place. It returns the pinned version and the
// resolved commit.
func ensureGitCheckout(ctx context.Context, baseDir, url string, spec *driver.DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor := gitDescriptor(spec)

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		cleanup()
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		cleanup()
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		cleanup()
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		cleanup()
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		cleanup()
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		cleanup()
		return "", "", err
	}
	return version, hash.String(), nil
}

// gitDescriptor maps a dependency's rev, tag or branch to a revision go-git
// can resolve. Without any of them the remote's HEAD is used.
func gitDescriptor(spec *driver.DependencySpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch
	}
	return plumbing.Revision(plumbing.HEAD), ""
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, segment)
}
