package entrypoint

import "sort"

// LoadFunc produces the implementation registered under an entry point.
type LoadFunc func() (any, error)

// Entry is a registered implementation: a name, the module that contains it, the
// symbols it exposes and the operation that loads it. Entries are owned by a Provider.
type Entry struct {
	name    string
	module  string
	symbols []string
	symSet  map[string]struct{}
	load    LoadFunc
	origin  string
}

// EntryOption configures optional Entry metadata.
type EntryOption func(*Entry)

// WithOrigin records where the entry was declared (manifest path, index, ...).
func WithOrigin(origin string) EntryOption {
	return func(e *Entry) {
		e.origin = origin
	}
}

// NewEntry creates an entry. Symbols are deduplicated and kept in first-seen order.
// A nil load function is accepted; loading such an entry fails with ErrNoLoader.
func NewEntry(name, module string, symbols []string, load LoadFunc, opts ...EntryOption) (*Entry, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	e := &Entry{
		name:    name,
		module:  module,
		symbols: make([]string, 0, len(symbols)),
		symSet:  make(map[string]struct{}, len(symbols)),
		load:    load,
	}
	for _, s := range symbols {
		if _, seen := e.symSet[s]; seen {
			continue
		}
		e.symSet[s] = struct{}{}
		e.symbols = append(e.symbols, s)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustEntry is NewEntry for statically known entries; it panics on error.
func MustEntry(name, module string, symbols []string, load LoadFunc, opts ...EntryOption) *Entry {
	e, err := NewEntry(name, module, symbols, load, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the entry point name.
func (e *Entry) Name() string {
	return e.name
}

// Module returns the path of the module containing the implementation.
func (e *Entry) Module() string {
	return e.module
}

// Symbols returns the exposed symbol names in declaration order.
func (e *Entry) Symbols() []string {
	out := make([]string, len(e.symbols))
	copy(out, e.symbols)
	return out
}

// SortedSymbols returns the exposed symbol names sorted alphabetically.
func (e *Entry) SortedSymbols() []string {
	out := e.Symbols()
	sort.Strings(out)
	return out
}

// HasSymbol reports whether the entry exposes symbol.
func (e *Entry) HasSymbol(symbol string) bool {
	_, ok := e.symSet[symbol]
	return ok
}

// Origin returns where the entry was declared, if known.
func (e *Entry) Origin() string {
	return e.origin
}

// CanLoad reports whether the entry carries a load function.
func (e *Entry) CanLoad() bool {
	return e.load != nil
}
