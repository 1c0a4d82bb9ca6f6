// Package vcs reads source revision metadata for artifact stamping.
package vcs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShortLength is the number of hex digits kept in a short revision.
const ShortLength = 8

// ErrNoRevision is returned when dir is not inside a repository with a commit.
var ErrNoRevision = errors.New("no source revision")

// Revision describes the commit checked out in a working tree.
type Revision struct {
	Hash  string
	Dirty bool
}

// Short returns the abbreviated hash with a "-dirty" suffix for modified trees.
func (r Revision) Short() string {
	s := r.Hash
	if len(s) > ShortLength {
		s = s[:ShortLength]
	}
	if r.Dirty {
		s += "-dirty"
	}
	return s
}

// Head opens the repository containing dir (searching parent directories)
// and returns its HEAD revision.
func Head(dir string) (*Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s is not in a repository", ErrNoRevision, dir)
		}
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%w: repository has no commits", ErrNoRevision)
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := &Revision{Hash: ref.Hash().String()}

	if wt, werr := repo.Worktree(); werr == nil {
		if st, serr := wt.Status(); serr == nil {
			rev.Dirty = !st.IsClean()
		}
	}
	return rev, nil
}

// Describe returns the short revision of dir, or "" when none is available.
func Describe(dir string) string {
	rev, err := Head(dir)
	if err != nil {
		return ""
	}
	return rev.Short()
}
