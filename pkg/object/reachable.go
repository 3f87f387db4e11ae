package object

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// VerifySummary reports the outcome of Store.Verify.
type VerifySummary struct {
	Objects int
}

// ListHashes returns the ids of every object file in the store, sorted.
// Stray files whose names are not object ids are skipped.
func (s *Store) ListHashes() ([]Hash, error) {
	entries, err := os.ReadDir(s.objectsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}
	out := make([]Hash, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsHash(e.Name()) {
			continue
		}
		out = append(out, Hash(e.Name()))
	}
	return out, nil
}

// Verify re-reads every stored object from disk, checking its envelope and
// that its content still hashes to its id.
func (s *Store) Verify() (*VerifySummary, error) {
	hashes, err := s.ListHashes()
	if err != nil {
		return nil, err
	}
	report := &VerifySummary{}
	for _, h := range hashes {
		if _, _, err := s.readFile(h); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		report.Objects++
	}
	return report, nil
}

// ReachableSet returns all object hashes reachable from roots by following
// tree entries and commit tree/parent links. Roots and every object they
// reference must exist; a dangling reference is reported with ErrNotFound.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]struct{}, error) {
	roots = uniqueNormalizedHashes(roots)
	out := make(map[Hash]struct{}, len(roots))

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := out[h]; ok {
			continue
		}

		objType, data, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("reachable set: %w", err)
		}
		out[h] = struct{}{}

		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}

	return out, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	switch objType {
	case TypeBlob:
		return nil, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(data)
		if err != nil {
			return nil, err
		}
		refs := []Hash{commit.TreeHash}
		if commit.Parent != "" {
			refs = append(refs, commit.Parent)
		}
		return refs, nil
	case TypeTree:
		tree, err := UnmarshalTree(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			refs = append(refs, e.Hash)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unsupported object type %q: %w", objType, ErrCorrupt)
	}
}

func uniqueNormalizedHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		h = Hash(strings.TrimSpace(string(h)))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
