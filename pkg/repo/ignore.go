package repo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultIgnored lists the entry names that are never snapshotted and never
// removed from the working directory: the repository directory itself,
// other VCS directories, caches, and OS/editor artifacts.
var DefaultIgnored = []string{
	DirName,
	".git",
	"__pycache__",
	".venv",
	".mypy_cache",
	".DS_Store",
	".python-version",
}

// IgnoreSet decides which directory entries are excluded. Patterns match a
// single entry name, either literally or as a filepath.Match glob; an
// ignored directory excludes everything beneath it.
type IgnoreSet struct {
	exact    map[string]struct{}
	wildcard []string
}

// NewIgnoreSet returns the default ignore set extended with extra patterns.
func NewIgnoreSet(extra ...string) (*IgnoreSet, error) {
	s := &IgnoreSet{exact: make(map[string]struct{}, len(DefaultIgnored)+len(extra))}
	for _, name := range DefaultIgnored {
		s.exact[name] = struct{}{}
	}
	for _, p := range extra {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			return nil, fmt.Errorf("ignore pattern %q: patterns match single names and cannot contain '/'", p)
		}
		if isLiteralPattern(p) {
			s.exact[p] = struct{}{}
			continue
		}
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		s.wildcard = append(s.wildcard, p)
	}
	return s, nil
}

// Ignores reports whether a single entry name is excluded.
func (s *IgnoreSet) Ignores(name string) bool {
	if _, ok := s.exact[name]; ok {
		return true
	}
	for _, p := range s.wildcard {
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}

// IgnoresPath reports whether any component of a slash-separated relative
// path is excluded.
func (s *IgnoreSet) IgnoresPath(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if part != "" && s.Ignores(part) {
			return true
		}
	}
	return false
}

// isReservedPath reports whether any component of a slash-separated relative
// path is one of DefaultIgnored. Configured patterns do not count.
func isReservedPath(relPath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		for _, name := range DefaultIgnored {
			if part == name {
				return true
			}
		}
	}
	return false
}

func isLiteralPattern(pattern string) bool {
	return !strings.ContainsAny(pattern, `*?[\`)
}
