package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// SaveCatalog writes the catalog section of the config file, leaving comments
// and other sections untouched.
func SaveCatalog(configPath string, groups []GroupConfig) error {
	if err := ValidateCatalog(groups); err != nil {
		return err
	}
	return saveKey(configPath, "catalog", groups)
}

// SetCatalogGroup adds or updates one group in the config file's catalog section.
func SetCatalogGroup(configPath string, existing []GroupConfig, group GroupConfig) error {
	groups := slices.Clone(existing)
	i := slices.IndexFunc(groups, func(g GroupConfig) bool { return g.Group == group.Group })
	if i >= 0 {
		groups[i] = group
	} else {
		groups = append(groups, group)
	}
	return SaveCatalog(configPath, groups)
}

// AddPluginDir appends dir to plugin_dirs in the config file unless already present.
func AddPluginDir(configPath string, existing []string, dir string) error {
	if slices.Contains(existing, dir) {
		return nil
	}
	dirs := append(slices.Clone(existing), dir)
	return saveKey(configPath, "plugin_dirs", dirs)
}

// saveKey replaces (or appends) a top-level key in the YAML document at configPath.
func saveKey(configPath, key string, value any) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	root := doc.Content[0]
	replaced := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = &valueNode
			replaced = true
			break
		}
	}
	if !replaced {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&valueNode,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// writeAtomic writes data to a temp file beside path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".entrypoints.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
