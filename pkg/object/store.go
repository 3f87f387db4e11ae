package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of decoded objects a Store keeps in memory
// unless configured otherwise.
const DefaultCacheSize = 256

// Store is a content-addressed object store with a flat layout:
// objects/<40-hex-sha1>. Each file holds "type\0content".
type Store struct {
	root   string
	cache  *lru.Cache // Hash -> cachedObject, nil when disabled
	logger *zap.Logger
}

type cachedObject struct {
	objType ObjectType
	data    []byte
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCacheSize sets how many objects are cached after their first read.
// A size of zero or less disables the cache.
func WithCacheSize(size int) StoreOption {
	return func(s *Store) {
		s.cache = nil
		if size <= 0 {
			return
		}
		if c, err := lru.New(size); err == nil {
			s.cache = c
		}
	}
}

// WithStoreLogger sets the logger used for debug output.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created by Init or lazily on first write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{root: root, logger: zap.NewNop()}
	WithCacheSize(DefaultCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the objects directory. It is safe to call on an existing
// store.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.objectsDir(), 0o755); err != nil {
		return fmt.Errorf("object store init: %w", err)
	}
	return nil
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !IsHash(string(h)) {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Writing the same
// type and content again returns the same hash and leaves the stored bytes
// untouched. New objects are written atomically.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if !objType.Valid() {
		return "", fmt.Errorf("object write: unknown type %q", objType)
	}
	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	if err := os.MkdirAll(s.objectsDir(), 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	raw := make([]byte, 0, len(objType)+1+len(data))
	raw = append(raw, objType...)
	raw = append(raw, 0)
	raw = append(raw, data...)

	if err := renameio.WriteFile(s.objectPath(h), raw, 0o644); err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}
	s.logger.Debug("object written", zap.String("oid", string(h)), zap.String("type", string(objType)), zap.Int("size", len(data)))
	return h, nil
}

// Read retrieves an object by hash, returning its type and content with the
// type tag stripped. The stored bytes are verified against the hash.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !IsHash(string(h)) {
		return "", nil, fmt.Errorf("object read %q: malformed id: %w", h, ErrNotFound)
	}
	if s.cache != nil {
		if v, ok := s.cache.Get(h); ok {
			obj := v.(cachedObject)
			return obj.objType, bytes.Clone(obj.data), nil
		}
	}

	objType, content, err := s.readFile(h)
	if err != nil {
		return "", nil, err
	}
	if s.cache != nil {
		s.cache.Add(h, cachedObject{objType: objType, data: bytes.Clone(content)})
	}
	return objType, content, nil
}

// readFile reads and verifies an object file, bypassing the cache.
func (s *Store) readFile(h Hash) (ObjectType, []byte, error) {
	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	// Parse envelope: "type\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: no type separator: %w", h, ErrCorrupt)
	}
	objType := ObjectType(raw[:nulIdx])
	if !objType.Valid() {
		return "", nil, fmt.Errorf("object read %s: unknown type %q: %w", h, objType, ErrCorrupt)
	}
	content := raw[nulIdx+1:]
	if got := HashObject(objType, content); got != h {
		return "", nil, fmt.Errorf("object read %s: content hashes to %s: %w", h, got, ErrCorrupt)
	}
	return objType, content, nil
}

// ReadExpect reads an object and fails with ErrTypeMismatch unless its
// stored type equals want.
func (s *Store) ReadExpect(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: want}
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.ReadExpect(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.ReadExpect(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.ReadExpect(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
