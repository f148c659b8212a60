package entrypoint

// Provider enumerates registered entry points. It is the only source of truth for
// registrations; Resolver queries it on every call and never mutates what it returns.
// Implementations must be safe for concurrent reads if the Resolver is shared.
type Provider interface {
	// ListGroups returns every group that has registrations, in enumeration order.
	ListGroups() []string

	// ListEntries returns the entries registered in group, duplicates included.
	// Unknown groups yield an empty slice.
	ListEntries(group string) []*Entry
}

// ProviderFunc adapts a pair of functions to the Provider interface.
type ProviderFunc struct {
	GroupsFn  func() []string
	EntriesFn func(group string) []*Entry
}

// ListGroups implements Provider.
func (f ProviderFunc) ListGroups() []string {
	if f.GroupsFn == nil {
		return nil
	}
	return f.GroupsFn()
}

// ListEntries implements Provider.
func (f ProviderFunc) ListEntries(group string) []*Entry {
	if f.EntriesFn == nil {
		return nil
	}
	return f.EntriesFn(group)
}

// Compile-time checks that the bundled providers satisfy Provider.
var (
	_ Provider = ProviderFunc{}
	_ Provider = (*MemoryProvider)(nil)
)
