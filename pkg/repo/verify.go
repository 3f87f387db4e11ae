package repo

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/object"
)

// VerifySummary reports the outcome of Repo.Verify.
type VerifySummary struct {
	Objects   int // objects whose bytes re-hash to their id
	Refs      int // refs that resolve to a value
	Reachable int // objects reachable from those refs
}

// Verify checks every stored object against its id, then walks everything
// reachable from the refs and fails if any referenced object is missing or
// unreadable.
func (r *Repo) Verify() (*VerifySummary, error) {
	stored, err := r.Store.Verify()
	if err != nil {
		return nil, err
	}

	refs, err := r.IterRefs()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	summary := &VerifySummary{Objects: stored.Objects}
	var roots []object.Hash
	for _, ref := range refs {
		if ref.Value.IsAbsent() {
			continue
		}
		summary.Refs++
		roots = append(roots, ref.Value.Hash())
	}

	reachable, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	summary.Reachable = len(reachable)
	return summary, nil
}
