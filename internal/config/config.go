// Package config loads project configuration: exclusions for the file
// walker, the recursion-depth budget handed to extractors and the spider
// traversal, and the optional external type-cache path. Config is read
// with viper so a project can supply it as JSON, YAML or TOML without any
// extra code here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the project config's base name, without extension. viper
// discovers whichever supported extension (.yaml, .yml, .json, .toml) is
// actually present.
const FileName = ".rocketindex"

// Config is a single project's on-disk configuration, all fields optional.
type Config struct {
	// Exclude lists doublestar glob patterns, matched against paths
	// relative to the workspace root, that the file walker skips.
	Exclude []string `mapstructure:"exclude"`

	// MaxDepth bounds both the extractor's tree recursion and the spider's
	// traversal depth when a request doesn't specify its own.
	MaxDepth int `mapstructure:"max_depth"`

	// TypeCachePath, if set, points at a JSON file produced by an external
	// build-time type extractor (see internal/typecache).
	TypeCachePath string `mapstructure:"type_cache_path"`

	// Languages restricts indexing to this set; empty means all supported
	// languages.
	Languages []string `mapstructure:"languages"`

	// ExtractorCommand, if set, is the external type-extractor's command
	// line (program followed by any fixed arguments) for a compiler-driven
	// tool producing the typecache JSON the typecache package loads. Unset
	// means `extract-types` has nothing to shell out to.
	ExtractorCommand []string `mapstructure:"extractor_command"`
}

// DefaultMaxDepth is used when a project config omits max_depth.
const DefaultMaxDepth = 64

// DefaultExclude is applied in addition to whatever a project configures:
// the directories any filesystem walker over a source tree should skip.
var DefaultExclude = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/target/**",
	"**/bin/**",
	"**/obj/**",
}

// Load reads project config from root, falling back to defaults if no
// config file is present — an absent config file is not an error.
func Load(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(FileName)
	v.AddConfigPath(root)
	v.SetDefault("max_depth", DefaultMaxDepth)

	cfg := &Config{MaxDepth: DefaultMaxDepth}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config at %s: %w", root, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config at %s: %w", root, err)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg, nil
}

// ResolveTypeCachePath returns the configured type cache path, made
// absolute against root, or "" if unset.
func (c *Config) ResolveTypeCachePath(root string) string {
	if c.TypeCachePath == "" {
		return ""
	}
	if filepath.IsAbs(c.TypeCachePath) {
		return c.TypeCachePath
	}
	return filepath.Join(root, c.TypeCachePath)
}

// LanguageAllowed reports whether lang should be indexed under this config.
func (c *Config) LanguageAllowed(lang string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// AllExcludes merges the project's configured exclusions with the built-in
// defaults.
func (c *Config) AllExcludes() []string {
	return append(append([]string{}, DefaultExclude...), c.Exclude...)
}

// fileExists is a small helper used by callers deciding whether to offer
// "rocketindex setup" (write a starter config) versus "rocketindex doctor"
// complaining about a missing one.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exists reports whether a project config file is present under root in
// any of viper's supported extensions.
func Exists(root string) bool {
	for _, ext := range []string{"yaml", "yml", "json", "toml"} {
		if fileExists(filepath.Join(root, FileName+"."+ext)) {
			return true
		}
	}
	return false
}
