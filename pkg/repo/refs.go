package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

const (
	// HeadRef is the ref marking the current checkout position.
	HeadRef = "HEAD"

	refsPrefix      = "refs/"
	branchRefPrefix = "refs/heads/"
	tagRefPrefix    = "refs/tags/"
	symbolicPrefix  = "ref:"

	// maxRefDepth bounds symbolic indirection; longer chains are treated as
	// cycles.
	maxRefDepth = 10
)

// RefValue is the content of a ref: a direct object id, the name of another
// ref, or nothing. The zero value is Absent.
type RefValue struct {
	Symbolic bool
	Value    string
}

// Absent is the value of a ref that does not exist.
var Absent = RefValue{}

// Direct returns a value pointing straight at an object.
func Direct(h object.Hash) RefValue {
	return RefValue{Value: string(h)}
}

// Symbolic returns a value pointing at another ref.
func Symbolic(target string) RefValue {
	return RefValue{Symbolic: true, Value: target}
}

// IsAbsent reports whether v holds nothing.
func (v RefValue) IsAbsent() bool {
	return v.Value == ""
}

// Hash returns the object id of a direct value, or "" otherwise.
func (v RefValue) Hash() object.Hash {
	if v.Symbolic {
		return ""
	}
	return object.Hash(v.Value)
}

func (v RefValue) String() string {
	if v.Symbolic {
		return symbolicPrefix + " " + v.Value
	}
	return v.Value
}

// NamedRef pairs a ref name with its value.
type NamedRef struct {
	Name  string
	Value RefValue
}

// validateRefName accepts HEAD-style root refs (upper case and underscores)
// and slash-separated names under refs/. Segments must be non-empty, must
// not start with '.', and must not contain whitespace or control bytes.
func validateRefName(name string) error {
	if name == "" {
		return fmt.Errorf("empty ref name: %w", ErrInvalidName)
	}
	if !strings.HasPrefix(name, refsPrefix) {
		for i := 0; i < len(name); i++ {
			c := name[i]
			if (c < 'A' || c > 'Z') && c != '_' {
				return fmt.Errorf("ref name %q: %w", name, ErrInvalidName)
			}
		}
		return nil
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") || strings.HasSuffix(seg, ".lock") {
			return fmt.Errorf("ref name %q: %w", name, ErrInvalidName)
		}
		for i := 0; i < len(seg); i++ {
			if c := seg[i]; c <= ' ' || c == 0x7f {
				return fmt.Errorf("ref name %q: %w", name, ErrInvalidName)
			}
		}
	}
	return nil
}

func (r *Repo) refPath(name string) string {
	return filepath.Join(r.UgitDir, filepath.FromSlash(name))
}

// readRawRef reads one ref file without following symbolic values.
func (r *Repo) readRawRef(name string) (RefValue, error) {
	data, err := os.ReadFile(r.refPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Absent, nil
		}
		if isDir(r.refPath(name)) {
			// A namespace directory such as refs/heads is not a ref.
			return Absent, nil
		}
		return Absent, fmt.Errorf("read ref %q: %w", name, err)
	}
	return parseRefValue(name, string(data))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func parseRefValue(name, raw string) (RefValue, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return Absent, nil
	}
	if strings.HasPrefix(content, symbolicPrefix) {
		target := strings.TrimSpace(strings.TrimPrefix(content, symbolicPrefix))
		if err := validateRefName(target); err != nil {
			return Absent, fmt.Errorf("ref %q: bad symbolic target %q: %w", name, target, ErrCorruption)
		}
		return Symbolic(target), nil
	}
	if !object.IsHash(content) {
		return Absent, fmt.Errorf("ref %q: content %q is not an object id: %w", name, content, ErrCorruption)
	}
	return Direct(object.Hash(content)), nil
}

// resolveRef follows symbolic values from name. It returns the last ref in
// the chain together with its value, which is either Direct or, when the
// last ref does not exist, Absent. When deref is false only name itself is
// read.
func (r *Repo) resolveRef(name string, deref bool) (string, RefValue, error) {
	if err := validateRefName(name); err != nil {
		return "", Absent, err
	}
	cur := name
	for depth := 0; ; depth++ {
		v, err := r.readRawRef(cur)
		if err != nil {
			return "", Absent, err
		}
		if !v.Symbolic || !deref {
			return cur, v, nil
		}
		if depth >= maxRefDepth {
			return "", Absent, fmt.Errorf("ref %q: symbolic chain longer than %d (cycle?): %w", name, maxRefDepth, ErrCorruption)
		}
		cur = v.Value
	}
}

// GetRef returns the fully resolved value of the named ref. A ref that does
// not exist, or a symbolic chain ending at one, yields Absent and no error.
func (r *Repo) GetRef(name string) (RefValue, error) {
	_, v, err := r.resolveRef(name, true)
	return v, err
}

// ReadRef returns the value of the named ref. With deref set it behaves like
// GetRef; without it a symbolic value is returned as stored.
func (r *Repo) ReadRef(name string, deref bool) (RefValue, error) {
	_, v, err := r.resolveRef(name, deref)
	return v, err
}

// UpdateRef writes a direct object id to the named ref, creating parent
// directories as needed. Symbolic values are rejected with ErrPrecondition;
// use SetSymbolicRef for those. An absent value leaves the ref untouched.
// Writing HEAD replaces HEAD itself even if it is currently symbolic.
func (r *Repo) UpdateRef(name string, v RefValue) error {
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("update ref: %w", err)
	}
	if v.Symbolic {
		return fmt.Errorf("update ref %q: symbolic value %q: %w", name, v.Value, ErrPrecondition)
	}
	if v.IsAbsent() {
		return nil
	}
	if !object.IsHash(v.Value) {
		return fmt.Errorf("update ref %q: %q is not an object id: %w", name, v.Value, ErrInvalidName)
	}
	if err := r.writeRefFile(name, v.Value+"\n"); err != nil {
		return err
	}
	r.logger.Debug("ref updated", zap.String("ref", name), zap.String("oid", v.Value))
	return nil
}

// SetSymbolicRef points name at the ref target. A target that exists as a
// namespace directory, such as refs/heads, is ErrPrecondition.
func (r *Repo) SetSymbolicRef(name, target string) error {
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("set symbolic ref: %w", err)
	}
	if err := validateRefName(target); err != nil {
		return fmt.Errorf("set symbolic ref %q: target: %w", name, err)
	}
	if name == target {
		return fmt.Errorf("set symbolic ref %q: ref cannot point at itself: %w", name, ErrPrecondition)
	}
	if isDir(r.refPath(target)) {
		return fmt.Errorf("set symbolic ref %q: target %q is a ref namespace: %w", name, target, ErrPrecondition)
	}
	if err := r.writeRefFile(name, symbolicPrefix+" "+target+"\n"); err != nil {
		return err
	}
	r.logger.Debug("symbolic ref updated", zap.String("ref", name), zap.String("target", target))
	return nil
}

func (r *Repo) writeRefFile(name, content string) error {
	refPath := r.refPath(name)
	if isDir(refPath) {
		return fmt.Errorf("update ref %q: name is a ref namespace: %w", name, ErrPrecondition)
	}
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}
	if err := renameio.WriteFile(refPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	return nil
}

// IterRefs returns HEAD followed by every ref stored under refs/, in lexical
// path order, each fully resolved.
func (r *Repo) IterRefs() ([]NamedRef, error) {
	names := []string{HeadRef}
	root := filepath.Join(r.UgitDir, "refs")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.UgitDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if validateRefName(name) != nil {
			// Leftover temp files and the like.
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("iter refs: %w", err)
	}

	refs := make([]NamedRef, 0, len(names))
	for _, name := range names {
		v, err := r.GetRef(name)
		if err != nil {
			return nil, fmt.Errorf("iter refs: %w", err)
		}
		refs = append(refs, NamedRef{Name: name, Value: v})
	}
	return refs, nil
}
