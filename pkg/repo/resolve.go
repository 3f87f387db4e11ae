package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
)

// HeadAlias is shorthand for HEAD accepted wherever a name is resolved.
const HeadAlias = "@"

// GetOid resolves a human-supplied name to an object id. It tries, in order,
// the ref name itself, refs/<name>, refs/tags/<name> and refs/heads/<name>;
// the first present ref wins, so a tag shadows a branch of the same name.
// Failing that, a 40-character hex name is taken as an object id. Anything
// else is ErrInvalidName.
func (r *Repo) GetOid(name string) (object.Hash, error) {
	if name == HeadAlias {
		name = HeadRef
	}

	candidates := []string{
		name,
		refsPrefix + name,
		tagRefPrefix + name,
		branchRefPrefix + name,
	}
	for _, candidate := range candidates {
		if validateRefName(candidate) != nil {
			continue
		}
		v, err := r.GetRef(candidate)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		if !v.IsAbsent() {
			return v.Hash(), nil
		}
	}

	if lower := strings.ToLower(name); object.IsHash(lower) {
		return object.Hash(lower), nil
	}
	return "", fmt.Errorf("resolve %q: unknown ref or object id: %w", name, ErrInvalidName)
}
