// Package registry discovers entry points declared in YAML manifests and serves
// them to the resolver, optionally through a cache, with tracing and events.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	stdpath "path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/loader"
)

const (
	// PluginsDir is the directory scanned for package manifests.
	PluginsDir = "plugins"
	// ManifestFile is the manifest file name inside each package directory.
	ManifestFile = "entry_points.yaml"
)

// ErrNoManifests is returned when a strict scan finds no manifest at all.
var ErrNoManifests = errors.New("no entry point manifests found in plugins/*/" + ManifestFile)

// ManifestFileDef is the root structure of entry_points.yaml.
type ManifestFileDef struct {
	Package     string          `yaml:"package"`
	EntryPoints []EntryPointDef `yaml:"entry_points"`
}

// EntryPointDef declares a single entry point in YAML.
type EntryPointDef struct {
	Group   string   `yaml:"group"`   // e.g., "ns.schedulers"
	Name    string   `yaml:"name"`    // e.g., "slurm"
	Module  string   `yaml:"module"`  // Go import path of the implementing package
	Symbols []string `yaml:"symbols"` // Exported symbols, the first one is loaded
	Kind    string   `yaml:"kind"`    // builtin | goplugin
	Path    string   `yaml:"path"`    // Shared object for goplugin, relative to the manifest dir
}

// Declaration is an entry point read from a manifest, bound to its group.
type Declaration struct {
	Group    string
	Entry    *entrypoint.Entry
	Package  string
	Manifest string // manifest path inside the scanned filesystem
	Kind     loader.Kind
	Path     string
	Dir      string // directory the manifest lives in, "" for embedded manifests
}

// ManifestSource is a filesystem holding plugins/*/entry_points.yaml.
type ManifestSource struct {
	FS fs.FS
	// BaseDir is the on-disk root of FS. It anchors relative goplugin paths and is
	// empty for embedded filesystems.
	BaseDir string
	// Origin labels the entries, for example "builtin" or a user directory.
	Origin string
	// Lenient sources log and skip invalid manifests instead of failing the scan.
	Lenient bool
}

// LoadManifests scans src for manifests and returns their declarations in
// discovery order (lexical by package directory, then file order).
func LoadManifests(src ManifestSource, factory *loader.Factory) ([]Declaration, error) {
	var all []Declaration
	found := 0

	err := fs.WalkDir(src.FS, PluginsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != ManifestFile {
			return nil
		}
		// Only plugins/<package>/entry_points.yaml, one level deep.
		if stdpath.Dir(stdpath.Dir(path)) != PluginsDir {
			return nil
		}
		found++

		decls, err := loadManifest(src, path, factory)
		if err != nil {
			if src.Lenient {
				warnSkipped(src, path, err)
				return nil
			}
			return err
		}
		all = append(all, decls...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan entry point manifests: %w", err)
	}

	if found == 0 && !src.Lenient {
		return nil, ErrNoManifests
	}
	return all, nil
}

func loadManifest(src ManifestSource, path string, factory *loader.Factory) ([]Declaration, error) {
	content, err := fs.ReadFile(src.FS, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file ManifestFileDef
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Use path.Dir (not filepath.Dir) since fs.FS always uses forward slashes
	manifestDir := stdpath.Dir(path)
	var diskDir string
	if src.BaseDir != "" {
		diskDir = filepath.Join(src.BaseDir, filepath.FromSlash(manifestDir))
	}

	decls := make([]Declaration, 0, len(file.EntryPoints))
	for i, def := range file.EntryPoints {
		decl, err := buildDeclaration(def, file.Package, path, diskDir, src.Origin, factory)
		if err != nil {
			return nil, fmt.Errorf("entry point %d (%s) in %s: %w", i, def.Name, path, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// buildDeclaration validates def and binds a load function to it.
func buildDeclaration(def EntryPointDef, pkg, manifest, diskDir, origin string, factory *loader.Factory) (Declaration, error) {
	if def.Group == "" {
		return Declaration{}, entrypoint.ErrEmptyGroup
	}
	kind, err := loader.ParseKind(def.Kind)
	if err != nil {
		return Declaration{}, err
	}
	if kind == loader.KindGoPlugin && def.Path == "" {
		return Declaration{}, loader.ErrNoPluginPath
	}

	load := factory.LoadFunc(loader.Spec{
		Kind:    kind,
		Module:  def.Module,
		Symbols: def.Symbols,
		Path:    def.Path,
		BaseDir: diskDir,
	})

	opts := []entrypoint.EntryOption{}
	if origin != "" {
		opts = append(opts, entrypoint.WithOrigin(origin))
	}
	entry, err := entrypoint.NewEntry(def.Name, def.Module, def.Symbols, load, opts...)
	if err != nil {
		return Declaration{}, err
	}

	return Declaration{
		Group:    def.Group,
		Entry:    entry,
		Package:  pkg,
		Manifest: manifest,
		Kind:     kind,
		Path:     def.Path,
		Dir:      diskDir,
	}, nil
}
