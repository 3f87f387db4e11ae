package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Each entry is one line:
//
//	type oid name
//
// Lines are sorted by (type, oid, name) so the output, and therefore the
// tree's hash, never depends on the order entries were collected in.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	SortTreeEntries(sorted)

	seen := make(map[string]struct{}, len(sorted))
	var buf bytes.Buffer
	for _, e := range sorted {
		if err := validateTreeEntry(e); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("marshal tree: duplicate entry name %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		fmt.Fprintf(&buf, "%s %s %s\n", e.Type, e.Hash, e.Name)
	}
	return buf.Bytes(), nil
}

// SortTreeEntries orders entries by (Type, Hash, Name).
func SortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Hash != b.Hash {
			return a.Hash < b.Hash
		}
		return a.Name < b.Name
	})
}

// UnmarshalTree parses a TreeObj from its serialized form. Any malformed
// line, unknown entry type, or repeated name is reported as ErrCorrupt.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := string(data)
	if text == "" {
		return tr, nil
	}
	if !strings.HasSuffix(text, "\n") {
		return nil, fmt.Errorf("unmarshal tree: missing final newline: %w", ErrCorrupt)
	}

	seen := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: malformed entry %q: %w", line, ErrCorrupt)
		}
		entry := TreeEntry{
			Type: ObjectType(parts[0]),
			Hash: Hash(parts[1]),
			Name: parts[2],
		}
		if err := validateTreeEntry(entry); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %v: %w", err, ErrCorrupt)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("unmarshal tree: duplicate entry name %q: %w", entry.Name, ErrCorrupt)
		}
		seen[entry.Name] = struct{}{}
		tr.Entries = append(tr.Entries, entry)
	}
	return tr, nil
}

func validateTreeEntry(e TreeEntry) error {
	if e.Type != TypeBlob && e.Type != TypeTree {
		return fmt.Errorf("entry %q has unsupported type %q", e.Name, e.Type)
	}
	if !IsHash(string(e.Hash)) {
		return fmt.Errorf("entry %q has malformed id %q", e.Name, e.Hash)
	}
	if e.Name == "" || e.Name == "." || e.Name == ".." || strings.ContainsAny(e.Name, "/\n\x00") {
		return fmt.Errorf("invalid entry name %q", e.Name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (optional)
//
//	message
//
// A single newline terminates the message.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form. The first
// blank line ends the header; everything after it, blank lines included, is
// the message.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator: %w", ErrCorrupt)
	}
	header := string(data[:idx])
	message := strings.TrimSuffix(string(data[idx+2:]), "\n")

	c := &CommitObj{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q: %w", line, ErrCorrupt)
		}
		if !IsHash(val) {
			return nil, fmt.Errorf("unmarshal commit: %s has malformed id %q: %w", key, val, ErrCorrupt)
		}
		switch key {
		case "tree":
			if c.TreeHash != "" {
				return nil, fmt.Errorf("unmarshal commit: repeated tree header: %w", ErrCorrupt)
			}
			c.TreeHash = Hash(val)
		case "parent":
			if c.Parent != "" {
				return nil, fmt.Errorf("unmarshal commit: repeated parent header: %w", ErrCorrupt)
			}
			c.Parent = Hash(val)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q: %w", key, ErrCorrupt)
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: missing tree header: %w", ErrCorrupt)
	}
	return c, nil
}
