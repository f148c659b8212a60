package entrypoint

import (
	"sort"
	"sync"
)

// MemoryProvider is an in-memory Provider. Unlike a registry that rejects
// duplicates on Add, it keeps every entry so duplicate names surface at
// resolution time, the same way they would from installed metadata.
type MemoryProvider struct {
	mu      sync.RWMutex
	entries map[string][]*Entry
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		entries: make(map[string][]*Entry),
	}
}

// Add registers entry under group.
func (p *MemoryProvider) Add(group string, entry *Entry) error {
	if group == "" {
		return ErrEmptyGroup
	}
	if entry == nil {
		return ErrNilEntry
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[group] = append(p.entries[group], entry)
	return nil
}

// MustAdd is Add for test fixtures and static registrations; it panics on error.
func (p *MemoryProvider) MustAdd(group string, entry *Entry) *MemoryProvider {
	if err := p.Add(group, entry); err != nil {
		panic(err)
	}
	return p
}

// ListGroups returns the groups with at least one entry, sorted alphabetically.
func (p *MemoryProvider) ListGroups() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	groups := make([]string, 0, len(p.entries))
	for group := range p.entries {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

// ListEntries returns a snapshot of the entries in group, in insertion order.
func (p *MemoryProvider) ListEntries(group string) []*Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries := p.entries[group]
	out := make([]*Entry, len(entries))
	copy(out, entries)
	return out
}

// Len returns the total number of entries across all groups.
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := 0
	for _, entries := range p.entries {
		n += len(entries)
	}
	return n
}
