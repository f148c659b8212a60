// Package config provides configuration types, defaults and validation for entrypoints.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/flags"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/paths"
	"github.com/zjrosen/entrypoints/internal/tracing"
)

// Registry sources.
const (
	SourceManifest = "manifest" // built-in and user manifests, read on startup
	SourceIndex    = "index"    // SQLite index built by `entrypoints index`
)

// GroupConfig maps one entry point group to the module namespace implementing it.
// Groups are configured as a list because their names contain dots.
type GroupConfig struct {
	Group  string `mapstructure:"group" yaml:"group"`
	Module string `mapstructure:"module" yaml:"module"`
}

// CacheConfig controls the cached provider.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Config holds all configuration options for entrypoints.
type Config struct {
	Source     string          `mapstructure:"source"`
	PluginDirs []string        `mapstructure:"plugin_dirs"`
	IndexPath  string          `mapstructure:"index_path"`
	Catalog    []GroupConfig   `mapstructure:"catalog"`
	Cache      CacheConfig     `mapstructure:"cache"`
	Debounce   time.Duration   `mapstructure:"debounce"`
	Tracing    tracing.Config  `mapstructure:"tracing"`
	Flags      map[string]bool `mapstructure:"flags"`
	Debug      bool            `mapstructure:"debug"`
}

// DefaultPluginDir returns ~/.entrypoints, or "" if the home dir is unavailable.
func DefaultPluginDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".entrypoints")
}

// DefaultIndexPath returns ~/.entrypoints/index.db, or "" if the home dir is unavailable.
func DefaultIndexPath() string {
	dir := DefaultPluginDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "index.db")
}

// DefaultTracesFilePath returns ~/.config/entrypoints/traces/traces.jsonl, or ""
// if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "entrypoints", "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	var dirs []string
	if dir := DefaultPluginDir(); dir != "" {
		dirs = []string{dir}
	}

	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		Source:     SourceManifest,
		PluginDirs: dirs,
		IndexPath:  DefaultIndexPath(),
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Debounce: 500 * time.Millisecond,
		Tracing:  tr,
		Flags:    flags.Defaults(),
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GroupCatalog builds the group catalog: the built-in groups with configured
// groups added or overriding their module namespace.
func (c Config) GroupCatalog() *entrypoint.Catalog {
	groups := entrypoint.DefaultGroups()
	for _, g := range c.Catalog {
		groups[g.Group] = g.Module
	}
	return entrypoint.NewCatalog(groups)
}

// ResolvedPluginDirs returns PluginDirs with "~" expanded, each entry normalized
// to its plugin root, and empty entries dropped.
func (c Config) ResolvedPluginDirs() []string {
	dirs := make([]string, 0, len(c.PluginDirs))
	for _, d := range c.PluginDirs {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, paths.ResolvePluginRoot(ExpandHome(d)))
		}
	}
	return dirs
}

// FeatureFlags returns the feature flags with defaults for unset flags.
func (c Config) FeatureFlags() *flags.Registry {
	return flags.New(c.Flags)
}

// ResolvedIndexPath returns IndexPath with "~" expanded.
func (c Config) ResolvedIndexPath() string {
	return ExpandHome(c.IndexPath)
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	switch cfg.Source {
	case "", SourceManifest:
	case SourceIndex:
		if cfg.IndexPath == "" {
			return fmt.Errorf("index_path is required when source is %q", SourceIndex)
		}
	default:
		return fmt.Errorf("source must be %q or %q, got %q", SourceManifest, SourceIndex, cfg.Source)
	}

	if err := ValidateCatalog(cfg.Catalog); err != nil {
		return err
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cfg.Cache.TTL)
	}
	if cfg.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", cfg.Debounce)
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateCatalog checks configured catalog groups.
func ValidateCatalog(groups []GroupConfig) error {
	seen := make(map[string]bool, len(groups))
	for i, g := range groups {
		if g.Group == "" {
			return fmt.Errorf("catalog %d: group is required", i)
		}
		if strings.Contains(g.Group, entrypoint.Separator) {
			return fmt.Errorf("catalog %d: group %q must not contain %q", i, g.Group, entrypoint.Separator)
		}
		if g.Module == "" {
			return fmt.Errorf("catalog %d: module is required for group %q", i, g.Group)
		}
		if seen[g.Group] {
			return fmt.Errorf("catalog %d: duplicate group %q", i, g.Group)
		}
		seen[g.Group] = true
	}
	return nil
}

// ValidateTracing checks tracing configuration. Empty values use defaults.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}
	if !tracing.ValidExporter(tr.Exporter) {
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}
	if tr.Enabled {
		if tr.Exporter == tracing.ExporterFile && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# entrypoints configuration

# Where registrations are read from:
#   manifest - built-in manifests plus plugins/*/entry_points.yaml under plugin_dirs
#   index    - the SQLite index written by 'entrypoints index'
source: manifest

# Roots holding user plugins as plugins/<package>/entry_points.yaml
plugin_dirs:
  - ~/.entrypoints

# SQLite index location (used by 'entrypoints index' and source: index)
index_path: ~/.entrypoints/index.db

# Extra or overriding catalog groups. Built-in groups are always present.
# catalog:
#   - group: ns.transports
#     module: example.com/acme/transports

# Cache provider reads between reloads
cache:
  enabled: true
  ttl: 5m

# Quiet period before 'entrypoints watch' reloads changed manifests
debounce: 500ms

# Feature flags
#   go-plugins      load goplugin entries from shared objects
#   minimal-search  resolve bare names by searching every catalog group
flags:
  go-plugins: true
  minimal-search: true

# Tracing of resolve/load/reverse lookups
# tracing:
#   enabled: false
#   exporter: file               # none, file, stdout, otlp
#   file_path: ~/.config/entrypoints/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath with default settings
// and comments, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
