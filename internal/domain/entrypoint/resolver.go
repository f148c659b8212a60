package entrypoint

import (
	"fmt"
	"sort"
)

// Resolver resolves identifiers against a Provider and loads the resolved entries.
// It holds no mutable state: every call re-queries the provider.
type Resolver struct {
	provider Provider
	catalog  *Catalog
}

// NewResolver creates a resolver over provider. A nil catalog selects DefaultCatalog.
func NewResolver(provider Provider, catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{
		provider: provider,
		catalog:  catalog,
	}
}

// Provider returns the provider the resolver queries.
func (r *Resolver) Provider() Provider {
	return r.provider
}

// Catalog returns the group catalog.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve returns the single entry named name in group.
// Zero matches yield a NotFoundError and more than one an AmbiguousMatchError.
func (r *Resolver) Resolve(group, name string) (*Entry, error) {
	var match *Entry
	count := 0
	for _, entry := range r.provider.ListEntries(group) {
		if entry == nil || entry.Name() != name {
			continue
		}
		count++
		match = entry
	}

	switch {
	case count == 0:
		return nil, &NotFoundError{Group: group, Name: name}
	case count > 1:
		return nil, &AmbiguousMatchError{Group: group, Name: name, Count: count}
	}
	return match, nil
}

// ListGroups returns the catalog's groups, sorted. This is the static catalog,
// not the set of groups the provider currently has registrations for.
func (r *Resolver) ListGroups() []string {
	return r.catalog.Groups()
}

// ListNames returns the names of every entry in group, duplicates included.
func (r *Resolver) ListNames(group string, sorted bool) []string {
	entries := r.provider.ListEntries(group)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		names = append(names, entry.Name())
	}
	if sorted {
		sort.Strings(names)
	}
	return names
}

// ListEntries returns the provider's entries for group.
func (r *Resolver) ListEntries(group string) []*Entry {
	return r.provider.ListEntries(group)
}

// Load invokes the entry's load function once. Errors and panics raised while
// loading are reported as a LoadingFailureError carrying the original cause.
func (r *Resolver) Load(entry *Entry) (impl any, err error) {
	if entry == nil {
		return nil, ErrNilEntry
	}
	if entry.load == nil {
		return nil, &LoadingFailureError{Name: entry.name, Cause: ErrNoLoader}
	}

	defer func() {
		if rec := recover(); rec != nil {
			cause, ok := rec.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", rec)
			}
			impl, err = nil, &LoadingFailureError{Name: entry.name, Cause: cause}
		}
	}()

	impl, err = entry.load()
	if err != nil {
		return nil, &LoadingFailureError{Name: entry.name, Cause: err}
	}
	return impl, nil
}

// LoadByIdentifierString parses identifier, resolves it and loads the entry.
func (r *Resolver) LoadByIdentifierString(identifier string) (any, error) {
	group, name, err := Parse(identifier)
	if err != nil {
		return nil, err
	}
	return r.LoadByGroupAndName(group, name)
}

// LoadByGroupAndName resolves (group, name) and loads the entry.
func (r *Resolver) LoadByGroupAndName(group, name string) (any, error) {
	entry, err := r.Resolve(group, name)
	if err != nil {
		return nil, err
	}
	return r.Load(entry)
}
