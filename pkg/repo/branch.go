package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
)

// CreateBranch creates or repoints refs/heads/<name> at target.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if err := r.UpdateRef(branchRefPrefix+name, Direct(target)); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// ListBranches returns every branch with its target, sorted by name.
func (r *Repo) ListBranches() ([]NamedRef, error) {
	return r.listRefsUnder(branchRefPrefix)
}

// CurrentBranch returns the branch name if HEAD is a symbolic ref to
// refs/heads/<name>, e.g. "main" for "ref: refs/heads/main". If HEAD is
// detached it returns "".
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.ReadRef(HeadRef, false)
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if head.Symbolic && strings.HasPrefix(head.Value, branchRefPrefix) {
		return strings.TrimPrefix(head.Value, branchRefPrefix), nil
	}
	return "", nil
}

// SwitchBranch points HEAD symbolically at an existing branch and replaces
// the working directory with the branch's snapshot.
func (r *Repo) SwitchBranch(name string) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("switch branch: %w", err)
	}
	ref := branchRefPrefix + name
	v, err := r.GetRef(ref)
	if err != nil {
		return fmt.Errorf("switch branch: %w", err)
	}
	if v.IsAbsent() {
		return fmt.Errorf("switch branch: branch %q does not exist: %w", name, ErrInvalidName)
	}
	c, err := r.GetCommit(v.Hash())
	if err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	if err := r.ReadTree(c.TreeHash); err != nil {
		return fmt.Errorf("switch branch %q: %w", name, err)
	}
	return r.SetSymbolicRef(HeadRef, ref)
}

func validateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name is required: %w", ErrInvalidName)
	}
	if err := validateRefName(branchRefPrefix + name); err != nil {
		return fmt.Errorf("invalid branch name %q: %w", name, ErrInvalidName)
	}
	return nil
}
