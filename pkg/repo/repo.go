package repo

import (
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

// DirName is the name of the repository directory inside the working root.
const DirName = ".ugit"

// Repo represents an opened ugit repository.
type Repo struct {
	RootDir string        // working directory root
	UgitDir string        // .ugit/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config

	ignore *IgnoreSet
	logger *zap.Logger
}

// Option configures how a repository is opened.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger the repository and its object store write
// debug output to. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// load builds a Repo for an existing .ugit directory, reading its config.
func load(rootDir, ugitDir string, o *options) (*Repo, error) {
	cfg, err := readConfig(ugitDir, o.logger)
	if err != nil {
		return nil, err
	}
	ignore, err := NewIgnoreSet(cfg.Core.Ignore...)
	if err != nil {
		return nil, err
	}
	return &Repo{
		RootDir: rootDir,
		UgitDir: ugitDir,
		Store: object.NewStore(ugitDir,
			object.WithCacheSize(cfg.Core.CacheSize),
			object.WithStoreLogger(o.logger.Named("object")),
		),
		Config: cfg,
		ignore: ignore,
		logger: o.logger,
	}, nil
}

// Ignores reports whether a slash-separated path relative to the working
// root is excluded from snapshots and checkout clearing.
func (r *Repo) Ignores(relPath string) bool {
	return r.ignore.IgnoresPath(relPath)
}
