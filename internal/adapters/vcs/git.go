// Package vcs compares the working tree against HEAD for the
// file.changed condition helper.
package vcs

import (
	"github.com/go-git/go-git/v5"
	"go.trai.ch/zerr"
)

// GitChecker implements condition.VCSChangeChecker using go-git. If root
// is not inside a git work tree, ChangedFiles returns an empty list and
// a nil error, so file.changed reports no change.
type GitChecker struct{}

// NewGitChecker returns a GitChecker.
func NewGitChecker() *GitChecker {
	return &GitChecker{}
}

// ChangedFiles returns paths (relative to the repository root) that
// differ between the working tree and HEAD, including untracked files.
func (c *GitChecker) ChangedFiles(root string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil //nolint:nilerr // no repository is not a hard failure
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open git worktree")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to compute git status")
	}

	var changed []string
	for path, s := range status {
		if s.Worktree != git.Unmodified || s.Staging != git.Unmodified {
			changed = append(changed, path)
		}
	}
	return changed, nil
}
