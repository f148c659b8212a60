package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/flags"
	"github.com/zjrosen/entrypoints/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, SourceManifest, cfg.Source)
	require.True(t, cfg.Cache.Enabled)
	require.True(t, cfg.Flags[flags.FlagGoPlugins])
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, Validate(cfg))

	fl := cfg.FeatureFlags()
	require.True(t, fl.Enabled(flags.FlagGoPlugins))
	require.True(t, fl.Enabled(flags.FlagMinimalSearch))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty source", mutate: func(c *Config) { c.Source = "" }},
		{name: "index source", mutate: func(c *Config) { c.Source = SourceIndex }},
		{name: "index source without path", mutate: func(c *Config) { c.Source = SourceIndex; c.IndexPath = "" }, wantErr: "index_path is required"},
		{name: "unknown source", mutate: func(c *Config) { c.Source = "registry" }, wantErr: "source must be"},
		{name: "negative ttl", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: "cache.ttl"},
		{name: "negative debounce", mutate: func(c *Config) { c.Debounce = -time.Second }, wantErr: "debounce"},
		{name: "bad exporter", mutate: func(c *Config) { c.Tracing.Exporter = "jaeger" }, wantErr: "tracing.exporter"},
		{name: "bad sample rate", mutate: func(c *Config) { c.Tracing.SampleRate = 1.5 }, wantErr: "sample_rate"},
		{
			name: "enabled file tracing without path",
			mutate: func(c *Config) {
				c.Tracing = tracing.Config{Enabled: true, Exporter: tracing.ExporterFile}
			},
			wantErr: "file_path is required",
		},
		{
			name: "enabled otlp without endpoint",
			mutate: func(c *Config) {
				c.Tracing = tracing.Config{Enabled: true, Exporter: tracing.ExporterOTLP}
			},
			wantErr: "otlp_endpoint is required",
		},
		{name: "catalog group missing", mutate: func(c *Config) { c.Catalog = []GroupConfig{{Module: "m"}} }, wantErr: "group is required"},
		{name: "catalog module missing", mutate: func(c *Config) { c.Catalog = []GroupConfig{{Group: "ns.x"}} }, wantErr: "module is required"},
		{name: "catalog group with separator", mutate: func(c *Config) { c.Catalog = []GroupConfig{{Group: "ns:x", Module: "m"}} }, wantErr: "must not contain"},
		{
			name: "catalog duplicate",
			mutate: func(c *Config) {
				c.Catalog = []GroupConfig{{Group: "ns.x", Module: "a"}, {Group: "ns.x", Module: "b"}}
			},
			wantErr: "duplicate group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGroupCatalog(t *testing.T) {
	cfg := Config{Catalog: []GroupConfig{
		{Group: "ns.transports", Module: "example.com/acme/transports"},
		{Group: "ns.extras", Module: "example.com/acme/extras"},
	}}

	catalog := cfg.GroupCatalog()
	require.Equal(t, len(entrypoint.DefaultGroups())+1, catalog.Len())

	module, ok := catalog.ModulePath("ns.transports")
	require.True(t, ok)
	require.Equal(t, "example.com/acme/transports", module)
	require.True(t, catalog.Has("ns.extras"))
	require.True(t, catalog.Has("ns.calculations"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".entrypoints"), ExpandHome("~/.entrypoints"))
	require.Equal(t, home, ExpandHome("~"))
	require.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	require.Equal(t, "~user/x", ExpandHome("~user/x"))

	cfg := Config{PluginDirs: []string{"~/acme", " ", "/opt/acme/plugins"}, IndexPath: "~/index.db"}
	require.Equal(t, []string{filepath.Join(home, "acme"), "/opt/acme"}, cfg.ResolvedPluginDirs())
	require.Equal(t, filepath.Join(home, "index.db"), cfg.ResolvedIndexPath())
}

func TestWriteDefaultConfig_LoadsWithViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".entrypoints", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, SourceManifest, cfg.Source)
	require.Equal(t, []string{"~/.entrypoints"}, cfg.PluginDirs)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 500*time.Millisecond, cfg.Debounce)
	require.True(t, cfg.Cache.Enabled)
	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigTemplate_OnlyKnownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	known := map[string]bool{}
	typ := reflect.TypeOf(Config{})
	for i := 0; i < typ.NumField(); i++ {
		known[typ.Field(i).Tag.Get("mapstructure")] = true
	}
	for key := range v.AllSettings() {
		require.True(t, known[key], "template key %q is not a config field", key)
	}
	require.False(t, v.IsSet("watch"))
}

func TestWriteDefaultConfig_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := WriteDefaultConfig(filepath.Join(blocker, "config.yaml"))
	require.ErrorContains(t, err, "creating config directory")
}
