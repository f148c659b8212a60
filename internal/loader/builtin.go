package loader

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/zjrosen/entrypoints/internal/log"
)

// Constructor creates a fresh instance of a compiled-in implementation.
type Constructor func() any

type symbolKey struct {
	module string
	symbol string
}

// Table maps (module, symbol) to the constructors of compiled-in implementations.
type Table struct {
	mu    sync.RWMutex
	ctors map[symbolKey]Constructor
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{ctors: make(map[symbolKey]Constructor)}
}

// Register adds the constructor for symbol in module.
// Registering the same (module, symbol) twice panics.
func (t *Table) Register(module, symbol string, ctor Constructor) {
	if module == "" || symbol == "" {
		panic(fmt.Sprintf("builtin registration needs module and symbol, got %q and %q", module, symbol))
	}
	if ctor == nil {
		panic(fmt.Sprintf("builtin '%s.%s' registered with nil constructor", module, symbol))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := symbolKey{module: module, symbol: symbol}
	if _, exists := t.ctors[key]; exists {
		panic(fmt.Sprintf("builtin '%s.%s' already registered", module, symbol))
	}
	log.Debug(log.CatLoad, "Registering builtin.", "module", module, "symbol", symbol)
	t.ctors[key] = ctor
}

// Lookup returns a new instance of symbol from module.
func (t *Table) Lookup(module, symbol string) (any, error) {
	t.mu.RLock()
	ctor, ok := t.ctors[symbolKey{module: module, symbol: symbol}]
	t.mu.RUnlock()

	if !ok {
		return nil, &SymbolNotFoundError{Module: module, Symbol: symbol}
	}
	return ctor(), nil
}

// Has reports whether symbol from module is registered.
func (t *Table) Has(module, symbol string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ctors[symbolKey{module: module, symbol: symbol}]
	return ok
}

// Symbols returns "module.symbol" for every registration, sorted.
func (t *Table) Symbols() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.ctors))
	for key := range t.ctors {
		out = append(out, key.module+"."+key.symbol)
	}
	sort.Strings(out)
	return out
}

// builtins is the process-wide table filled from init functions of plugin packages.
var builtins = NewTable()

// RegisterBuiltin registers ctor in the process-wide table.
func RegisterBuiltin(module, symbol string, ctor Constructor) {
	builtins.Register(module, symbol, ctor)
}

// RegisterType registers the named type T under its own package path and type
// name, so loaded values map back to the same symbol through reflection.
func RegisterType[T any](ctor func() *T) {
	typ := reflect.TypeFor[T]()
	RegisterBuiltin(typ.PkgPath(), typ.Name(), func() any { return ctor() })
}
