package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

// DefaultBranch is the branch HEAD points at in a fresh repository.
const DefaultBranch = "main"

const configFileName = "config.toml"

// Config stores repository-local settings, persisted as .ugit/config.toml.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig holds the [core] table.
type CoreConfig struct {
	// DefaultBranch is the branch init points HEAD at.
	DefaultBranch string `toml:"default_branch"`
	// Ignore lists extra basename globs excluded from snapshots.
	Ignore []string `toml:"ignore,omitempty"`
	// CacheSize bounds the object read cache; zero disables it.
	CacheSize int `toml:"cache_size"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			DefaultBranch: DefaultBranch,
			CacheSize:     object.DefaultCacheSize,
		},
	}
}

func configPath(ugitDir string) string {
	return filepath.Join(ugitDir, configFileName)
}

// readConfig reads .ugit/config.toml. A missing file yields DefaultConfig;
// keys absent from the file keep their defaults.
func readConfig(ugitDir string, logger *zap.Logger) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(configPath(ugitDir), cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unknown config key", zap.String("key", key.String()))
	}

	cfg.Core.DefaultBranch = strings.TrimSpace(cfg.Core.DefaultBranch)
	if cfg.Core.DefaultBranch == "" {
		cfg.Core.DefaultBranch = DefaultBranch
	}
	if err := validateBranchName(cfg.Core.DefaultBranch); err != nil {
		return nil, fmt.Errorf("read config: core.default_branch: %w", err)
	}
	if cfg.Core.CacheSize < 0 {
		return nil, fmt.Errorf("read config: core.cache_size must not be negative, got %d", cfg.Core.CacheSize)
	}
	return cfg, nil
}

// writeConfig atomically writes .ugit/config.toml.
func writeConfig(ugitDir string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := renameio.WriteFile(configPath(ugitDir), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
