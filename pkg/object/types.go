package object

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the known object types.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Type is TypeBlob for files and
// TypeTree for subdirectories.
type TreeEntry struct {
	Type ObjectType
	Hash Hash
	Name string
}

// TreeObj holds the entries of one directory, sorted by (Type, Hash, Name)
// once marshaled.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree, an optional parent, and
// a free-form message.
type CommitObj struct {
	TreeHash Hash
	Parent   Hash // empty on root commits
	Message  string
}
