package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Init creates a ugit repository at path, or completes a partial one. It
// creates .ugit/objects, .ugit/refs/heads and .ugit/refs/tags, writes a
// default config.toml when none exists, and points HEAD at the default
// branch when HEAD does not exist yet. Running Init on an existing
// repository changes nothing.
func Init(path string, opts ...Option) (*Repo, error) {
	o := newOptions(opts)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	ugitDir := filepath.Join(abs, DirName)
	if info, err := os.Stat(ugitDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("init: %s exists and is not a directory", ugitDir)
	}

	dirs := []string{
		filepath.Join(ugitDir, "objects"),
		filepath.Join(ugitDir, "refs", "heads"),
		filepath.Join(ugitDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	if _, err := os.Stat(configPath(ugitDir)); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(ugitDir, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
	}

	r, err := load(abs, ugitDir, o)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.Store.Init(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	if _, err := os.Stat(r.refPath(HeadRef)); errors.Is(err, os.ErrNotExist) {
		if err := r.SetSymbolicRef(HeadRef, branchRefPrefix+r.Config.Core.DefaultBranch); err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
	}

	o.logger.Debug("repository initialized", zap.String("dir", ugitDir))
	return r, nil
}

// Open searches upward from path for a .ugit/ directory and opens the
// repository. Returns an error if no .ugit/ directory is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := newOptions(opts)

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		ugitDir := filepath.Join(cur, DirName)
		info, err := os.Stat(ugitDir)
		if err == nil && info.IsDir() {
			r, err := load(cur, ugitDir, o)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .ugit/.
			return nil, fmt.Errorf("open: not a ugit repository (or any parent up to /)")
		}
		cur = parent
	}
}
