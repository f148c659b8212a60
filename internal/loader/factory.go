package loader

import (
	"fmt"
	"path/filepath"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/log"
)

// Kind selects the load mechanism of an entry point.
type Kind string

const (
	KindBuiltin  Kind = "builtin"
	KindGoPlugin Kind = "goplugin"
)

// ParseKind maps a manifest kind to a Kind. The empty string means builtin.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindBuiltin:
		return KindBuiltin, nil
	case KindGoPlugin:
		return KindGoPlugin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Spec describes how to load one entry point. The first symbol is the one loaded.
type Spec struct {
	Kind    Kind
	Module  string
	Symbols []string
	// Path is the shared object of a goplugin entry, relative to BaseDir unless absolute.
	Path    string
	BaseDir string
}

// Factory builds load functions for specs.
type Factory struct {
	table *Table
	open  OpenFunc
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithTable uses table instead of the process-wide builtin table.
func WithTable(table *Table) FactoryOption {
	return func(f *Factory) { f.table = table }
}

// WithOpenFunc replaces plugin.Open.
func WithOpenFunc(open OpenFunc) FactoryOption {
	return func(f *Factory) { f.open = open }
}

// NewFactory creates a factory over the process-wide builtin table.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		table: builtins,
		open:  openPlugin,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// LoadFunc returns the load function for spec. Nothing is opened or looked up
// until the returned function runs.
func (f *Factory) LoadFunc(spec Spec) entrypoint.LoadFunc {
	return func() (any, error) {
		if len(spec.Symbols) == 0 {
			return nil, ErrNoSymbol
		}
		symbol := spec.Symbols[0]

		switch spec.Kind {
		case KindBuiltin, "":
			log.Debug(log.CatLoad, "loading builtin", "module", spec.Module, "symbol", symbol)
			return f.table.Lookup(spec.Module, symbol)
		case KindGoPlugin:
			if spec.Path == "" {
				return nil, ErrNoPluginPath
			}
			path := spec.Path
			if !filepath.IsAbs(path) && spec.BaseDir != "" {
				path = filepath.Join(spec.BaseDir, path)
			}
			log.Debug(log.CatLoad, "loading goplugin", "path", path, "symbol", symbol)
			return lookupPlugin(f.open, path, spec.Module, symbol)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
		}
	}
}
