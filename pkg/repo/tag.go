package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
)

// CreateTag creates or repoints a lightweight tag ref under refs/tags/.
func (r *Repo) CreateTag(name string, target object.Hash) error {
	name = strings.TrimSpace(name)
	if err := validateTagName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if strings.TrimSpace(string(target)) == "" {
		return fmt.Errorf("create tag: target hash is required: %w", ErrInvalidName)
	}
	if err := r.UpdateRef(tagRefPrefix+name, Direct(target)); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// ListTags returns every tag with its target, sorted by name.
func (r *Repo) ListTags() ([]NamedRef, error) {
	return r.listRefsUnder(tagRefPrefix)
}

// listRefsUnder returns the refs below prefix with the prefix stripped from
// their names.
func (r *Repo) listRefsUnder(prefix string) ([]NamedRef, error) {
	refs, err := r.IterRefs()
	if err != nil {
		return nil, err
	}
	var out []NamedRef
	for _, ref := range refs {
		if !strings.HasPrefix(ref.Name, prefix) {
			continue
		}
		out = append(out, NamedRef{Name: strings.TrimPrefix(ref.Name, prefix), Value: ref.Value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name is required: %w", ErrInvalidName)
	}
	if err := validateRefName(tagRefPrefix + name); err != nil {
		return fmt.Errorf("invalid tag name %q: %w", name, ErrInvalidName)
	}
	return nil
}
