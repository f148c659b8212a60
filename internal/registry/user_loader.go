package registry

import (
	"os"
	"path/filepath"

	"github.com/zjrosen/entrypoints/internal/log"
)

// UserSource returns a lenient manifest source rooted at baseDir, which should
// contain a "plugins" subdirectory. ok is false when baseDir or its plugins
// directory does not exist; that is not an error, there are just no user plugins.
func UserSource(baseDir string) (src ManifestSource, ok bool) {
	if baseDir == "" {
		return ManifestSource{}, false
	}

	info, err := os.Stat(baseDir)
	if err != nil || !info.IsDir() {
		return ManifestSource{}, false
	}

	info, err = os.Stat(filepath.Join(baseDir, PluginsDir))
	if err != nil || !info.IsDir() {
		return ManifestSource{}, false
	}

	return ManifestSource{
		FS:      os.DirFS(baseDir),
		BaseDir: baseDir,
		Origin:  baseDir,
		Lenient: true,
	}, true
}

func warnSkipped(src ManifestSource, path string, err error) {
	log.Warn(log.CatRegistry, "skipping invalid manifest",
		"manifest", path,
		"origin", src.Origin,
		"error", err.Error())
}
