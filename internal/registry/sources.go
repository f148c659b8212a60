package registry

import (
	"github.com/zjrosen/entrypoints/internal/loader"
	"github.com/zjrosen/entrypoints/internal/templates"
)

// OriginBuiltin labels entries declared by the embedded manifests.
const OriginBuiltin = "builtin"

// BuiltinSource returns the embedded manifests of the bundled plugins.
func BuiltinSource() ManifestSource {
	return ManifestSource{
		FS:     templates.ManifestFS(),
		Origin: OriginBuiltin,
	}
}

// Sources returns the builtin source followed by every existing user plugin
// directory, in the order given.
func Sources(pluginDirs []string) []ManifestSource {
	sources := []ManifestSource{BuiltinSource()}
	for _, dir := range pluginDirs {
		if src, ok := UserSource(dir); ok {
			sources = append(sources, src)
		}
	}
	return sources
}

// NewDefaultProvider returns a manifest provider over the bundled plugins and
// the user plugin directories.
func NewDefaultProvider(pluginDirs []string, factory *loader.Factory) (*ManifestProvider, error) {
	return NewManifestProvider(factory, Sources(pluginDirs)...)
}
