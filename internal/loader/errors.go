// Package loader turns manifest declarations into entry point load functions.
// Implementations are either compiled in (registered from init functions) or
// opened from Go plugin shared objects.
package loader

import (
	"errors"
	"fmt"
)

var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrUnknownKind    = errors.New("unknown loader kind")
	ErrNoSymbol       = errors.New("entry point declares no symbols")
	ErrPluginOpen     = errors.New("cannot open plugin")
	ErrNoPluginPath   = errors.New("goplugin entry point requires a path")
	ErrPluginDisabled = errors.New("goplugin loading is disabled")
)

// SymbolNotFoundError reports a symbol missing from a module.
type SymbolNotFoundError struct {
	Module string
	Symbol string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol %s not found in module %s", e.Symbol, e.Module)
}

func (e *SymbolNotFoundError) Unwrap() error { return ErrSymbolNotFound }
