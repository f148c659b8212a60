package templates

import (
	"embed"
	"io/fs"
)

// builtinManifests embeds the manifests of the bundled plugins.
// The structure is:
//   - plugins/<package>/entry_points.yaml
//
//go:embed plugins
var builtinManifests embed.FS

// ManifestFS returns the embedded filesystem holding the bundled plugin manifests.
func ManifestFS() fs.FS {
	return builtinManifests
}
