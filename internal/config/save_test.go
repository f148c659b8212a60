package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSaveCatalog_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	groups := []GroupConfig{{Group: "ns.transports", Module: "example.com/transports"}}

	require.NoError(t, SaveCatalog(path, groups))
	require.Equal(t, groups, loadConfig(t, path).Catalog)
}

func TestSaveCatalog_PreservesOtherConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveCatalog(path, []GroupConfig{{Group: "ns.extras", Module: "example.com/extras"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# entrypoints configuration", "comments survive")

	cfg := loadConfig(t, path)
	require.Equal(t, SourceManifest, cfg.Source)
	require.Len(t, cfg.Catalog, 1)
	require.True(t, cfg.GroupCatalog().Has("ns.extras"))
}

func TestSaveCatalog_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := SaveCatalog(path, []GroupConfig{{Group: "ns.x"}})
	require.ErrorContains(t, err, "module is required")

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestSetCatalogGroup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	existing := []GroupConfig{
		{Group: "ns.a", Module: "old"},
		{Group: "ns.b", Module: "b"},
	}

	require.NoError(t, SetCatalogGroup(path, existing, GroupConfig{Group: "ns.a", Module: "new"}))
	require.NoError(t, SetCatalogGroup(path, loadConfig(t, path).Catalog, GroupConfig{Group: "ns.c", Module: "c"}))

	cfg := loadConfig(t, path)
	require.Equal(t, []GroupConfig{
		{Group: "ns.a", Module: "new"},
		{Group: "ns.b", Module: "b"},
		{Group: "ns.c", Module: "c"},
	}, cfg.Catalog)
	require.Equal(t, "old", existing[0].Module, "input slice is not modified")
}

func TestAddPluginDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg := loadConfig(t, path)
	require.NoError(t, AddPluginDir(path, cfg.PluginDirs, "/opt/plugins"))
	require.NoError(t, AddPluginDir(path, loadConfig(t, path).PluginDirs, "/opt/plugins"))

	require.Equal(t, []string{"~/.entrypoints", "/opt/plugins"}, loadConfig(t, path).PluginDirs)
}

func TestSaveKey_AtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, AddPluginDir(path, nil, "/a"))
	require.NoError(t, AddPluginDir(path, []string{"/a"}, "/b"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.Contains(e.Name(), ".tmp."), "temp file left behind: %s", e.Name())
	}
}

func TestSaveKey_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unclosed\n"), 0o600))

	err := AddPluginDir(path, nil, "/a")
	require.ErrorContains(t, err, "parsing config")
}
