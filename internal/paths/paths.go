// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
)

const (
	pluginsDir   = "plugins"
	manifestFile = "entry_points.yaml"
)

// ResolvePluginRoot resolves a plugin root from user input. Manifests live at
// <root>/plugins/<package>/entry_points.yaml, and users may name any of those
// directories.
//
// Input normalization:
//   - "/path/to/root" -> "/path/to/root"
//   - "/path/to/root/plugins" -> "/path/to/root"
//   - "/path/to/root/plugins/acme" (containing entry_points.yaml) -> "/path/to/root"
//   - "" -> "."
func ResolvePluginRoot(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if filepath.Base(path) == pluginsDir {
		return filepath.Dir(path)
	}

	parent := filepath.Dir(path)
	if filepath.Base(parent) == pluginsDir && hasManifest(path) {
		return filepath.Dir(parent)
	}
	return path
}

func hasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, manifestFile))
	return err == nil && !info.IsDir()
}
