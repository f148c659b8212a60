package loader

import (
	"fmt"
	"plugin"
)

// OpenFunc opens a shared object. plugin.Open by default.
type OpenFunc func(path string) (Lookuper, error)

// Lookuper is the part of *plugin.Plugin the loader needs.
type Lookuper interface {
	Lookup(symbol string) (plugin.Symbol, error)
}

func openPlugin(path string) (Lookuper, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DisabledOpen is an OpenFunc that refuses every shared object.
func DisabledOpen(string) (Lookuper, error) {
	return nil, ErrPluginDisabled
}

// lookupPlugin opens path and looks up symbol. Pointer symbols (exported
// variables) are returned as is; functions returning a value are called.
func lookupPlugin(open OpenFunc, path, module, symbol string) (any, error) {
	p, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrPluginOpen, path, err)
	}

	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, &SymbolNotFoundError{Module: module, Symbol: symbol}
	}

	switch fn := sym.(type) {
	case func() any:
		return fn(), nil
	case func() (any, error):
		return fn()
	default:
		return sym, nil
	}
}
