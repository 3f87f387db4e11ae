package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

// ReadTree replaces the working directory with the contents of a tree.
//
//  1. Expand the tree into path -> blob hash; nothing on disk is touched if
//     this fails. An entry under a DefaultIgnored name is ErrCorruption;
//     one matching only a configured pattern is skipped with a warning.
//  2. Remove every non-ignored file, then every non-ignored directory that
//     is left empty, deepest first.
//  3. Write each blob, creating parent directories.
//
// ReadTree is not transactional: a failure during step 2 or 3 leaves a mix
// of old and new files behind.
func (r *Repo) ReadTree(h object.Hash) error {
	files, err := r.GetTree(h, "")
	if err != nil {
		return fmt.Errorf("read tree: %w", err)
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		if isReservedPath(p) {
			return fmt.Errorf("read tree %s: entry %q lies in a reserved path: %w", h, p, ErrCorruption)
		}
		if r.ignore.IgnoresPath(p) {
			// Committed before a core.ignore pattern matched it.
			r.logger.Warn("skipping ignored tree entry", zap.String("tree", string(h)), zap.String("path", p))
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if err := r.clearDir(r.RootDir); err != nil {
		return fmt.Errorf("read tree: %w", err)
	}

	for _, p := range paths {
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(p))

		// Create parent directories.
		dir := filepath.Dir(absPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("read tree: mkdir %q: %w", dir, err)
		}

		// Read blob from store and write to disk.
		blob, err := r.Store.ReadBlob(files[p])
		if err != nil {
			return fmt.Errorf("read tree: read blob for %q: %w", p, err)
		}
		if err := os.WriteFile(absPath, blob.Data, 0o644); err != nil {
			return fmt.Errorf("read tree: write %q: %w", p, err)
		}
	}
	r.logger.Debug("working directory replaced", zap.String("tree", string(h)), zap.Int("files", len(paths)))
	return nil
}

// clearDir removes every non-ignored file below dir, then every non-ignored
// directory that has become empty. Ignored entries and anything beneath them
// are left alone, so a directory holding one survives.
func (r *Repo) clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}

	var subdirs []string
	for _, e := range entries {
		if r.ignore.Ignores(e.Name()) {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		if err := os.Remove(full); err != nil {
			return fmt.Errorf("clear: remove %s: %w", full, err)
		}
	}

	for _, sub := range subdirs {
		if err := r.clearDir(sub); err != nil {
			return err
		}
		remaining, err := os.ReadDir(sub)
		if err != nil {
			return fmt.Errorf("clear %s: %w", sub, err)
		}
		if len(remaining) > 0 {
			continue
		}
		if err := os.Remove(sub); err != nil {
			return fmt.Errorf("clear: remove %s: %w", sub, err)
		}
	}
	return nil
}

// Checkout replaces the working directory with the snapshot of a commit and
// points HEAD directly at it. HEAD becomes detached; a branch it used to
// alias keeps its old value.
func (r *Repo) Checkout(h object.Hash) error {
	c, err := r.GetCommit(h)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.ReadTree(c.TreeHash); err != nil {
		return fmt.Errorf("checkout %s: %w", h, err)
	}
	if err := r.UpdateRef(HeadRef, Direct(h)); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}
