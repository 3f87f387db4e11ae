package repo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/odvcencio/ugit/pkg/object"
)

// WriteTree snapshots dir recursively into tree objects and returns the root
// tree's hash. Regular files become blobs and directories become subtrees;
// ignored names, symlinks and other special files are skipped. An empty
// directory yields the empty tree.
func (r *Repo) WriteTree(dir string) (object.Hash, error) {
	return r.writeTreeDir(dir)
}

func (r *Repo) writeTreeDir(dir string) (object.Hash, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}

	entries := make([]object.TreeEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if r.ignore.Ignores(name) {
			continue
		}
		full := filepath.Join(dir, name)

		switch {
		case de.Type().IsRegular():
			data, err := os.ReadFile(full)
			if err != nil {
				return "", fmt.Errorf("write tree: read %s: %w", full, err)
			}
			h, err := r.Store.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return "", fmt.Errorf("write tree: %s: %w", full, err)
			}
			entries = append(entries, object.TreeEntry{Type: object.TypeBlob, Hash: h, Name: name})
		case de.IsDir():
			h, err := r.writeTreeDir(full)
			if err != nil {
				return "", err
			}
			entries = append(entries, object.TreeEntry{Type: object.TypeTree, Hash: h, Name: name})
		}
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("write tree %s: %w", dir, err)
	}
	return h, nil
}

// GetTree expands a tree recursively into a map from slash-separated file
// path to blob hash. Paths are joined onto base when it is non-empty.
func (r *Repo) GetTree(h object.Hash, base string) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	if err := r.getTreeRec(h, base, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) getTreeRec(h object.Hash, prefix string, out map[string]object.Hash) error {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return fmt.Errorf("get tree: read %s: %w", h, err)
	}

	for _, entry := range treeObj.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		switch entry.Type {
		case object.TypeTree:
			if err := r.getTreeRec(entry.Hash, fullPath, out); err != nil {
				return err
			}
		case object.TypeBlob:
			out[fullPath] = entry.Hash
		}
	}
	return nil
}
