package entrypoint

import (
	"reflect"
	"strings"
)

// WrapperPrefix marks a generated wrapper symbol. The remainder of the symbol is the
// dotted path of the wrapped implementation, e.g. "JobProcess_pkg/calc.JobCalculation".
const WrapperPrefix = "JobProcess_"

// WrapperSymbol returns the wrapper symbol name for the implementation symbol in module.
func WrapperSymbol(module, symbol string) string {
	return WrapperPrefix + module + "." + symbol
}

// unwrap rewrites a wrapper symbol into the wrapped (module, symbol).
// ok is false when symbol is a wrapper whose payload has no '.'.
func unwrap(module, symbol string) (string, string, bool) {
	payload, isWrapper := strings.CutPrefix(symbol, WrapperPrefix)
	if !isWrapper {
		return module, symbol, true
	}
	i := strings.LastIndex(payload, ".")
	if i < 0 {
		return "", "", false
	}
	return payload[:i], payload[i+1:], true
}

// FindIdentifierFor returns the group and entry that register symbol from module.
// Groups and entries are searched in provider order and the first match wins.
// Absence is reported with found == false.
func (r *Resolver) FindIdentifierFor(module, symbol string) (group string, entry *Entry, found bool) {
	module, symbol, ok := unwrap(module, symbol)
	if !ok {
		return "", nil, false
	}

	for _, g := range r.provider.ListGroups() {
		for _, e := range r.provider.ListEntries(g) {
			if e != nil && e.Module() == module && e.HasSymbol(symbol) {
				return g, e, true
			}
		}
	}
	return "", nil, false
}

// ToIdentifierString returns the FULL identifier that resolves to symbol in module.
func (r *Resolver) ToIdentifierString(module, symbol string) (string, bool) {
	group, entry, found := r.FindIdentifierFor(module, symbol)
	if !found {
		return "", false
	}
	return group + Separator + entry.Name(), true
}

// FindIdentifierForValue looks up the entry for a value's named type.
// Pointers are dereferenced; unnamed types are never found.
func (r *Resolver) FindIdentifierForValue(v any) (group string, entry *Entry, found bool) {
	module, symbol, ok := TypeSymbol(v)
	if !ok {
		return "", nil, false
	}
	return r.FindIdentifierFor(module, symbol)
}

// TypeSymbol returns the package path and type name of v's named type.
func TypeSymbol(v any) (module, symbol string, ok bool) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return "", "", false
	}
	return t.PkgPath(), t.Name(), true
}
