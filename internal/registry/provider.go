package registry

import (
	"fmt"
	"sync"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/loader"
	"github.com/zjrosen/entrypoints/internal/log"
)

// ManifestProvider serves the entry points declared by a set of manifest sources.
// Groups enumerate sorted; entries keep discovery order with duplicates preserved.
type ManifestProvider struct {
	sources []ManifestSource
	factory *loader.Factory

	mu    sync.RWMutex
	mem   *entrypoint.MemoryProvider
	decls []Declaration
}

var _ entrypoint.Provider = (*ManifestProvider)(nil)

// NewManifestProvider scans sources in order and returns a provider over their
// declarations. A nil factory selects loader.NewFactory().
func NewManifestProvider(factory *loader.Factory, sources ...ManifestSource) (*ManifestProvider, error) {
	if factory == nil {
		factory = loader.NewFactory()
	}
	p := &ManifestProvider{
		sources: sources,
		factory: factory,
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload rescans every source and atomically replaces the served entries.
// On error the previous entries stay in place.
func (p *ManifestProvider) Reload() error {
	mem := entrypoint.NewMemoryProvider()
	var decls []Declaration

	for _, src := range p.sources {
		found, err := LoadManifests(src, p.factory)
		if err != nil {
			return fmt.Errorf("load manifests from %s: %w", sourceLabel(src), err)
		}
		for _, d := range found {
			if err := mem.Add(d.Group, d.Entry); err != nil {
				return fmt.Errorf("register %s: %w", d.Manifest, err)
			}
		}
		decls = append(decls, found...)
	}

	p.mu.Lock()
	p.mem = mem
	p.decls = decls
	p.mu.Unlock()

	log.Info(log.CatRegistry, "loaded entry points", "count", len(decls), "sources", len(p.sources))
	return nil
}

// ListGroups implements entrypoint.Provider.
func (p *ManifestProvider) ListGroups() []string {
	return p.current().ListGroups()
}

// ListEntries implements entrypoint.Provider.
func (p *ManifestProvider) ListEntries(group string) []*entrypoint.Entry {
	return p.current().ListEntries(group)
}

// Declarations returns a snapshot of every declaration in discovery order.
func (p *ManifestProvider) Declarations() []Declaration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Declaration, len(p.decls))
	copy(out, p.decls)
	return out
}

// Len returns the number of declared entry points.
func (p *ManifestProvider) Len() int {
	return p.current().Len()
}

func (p *ManifestProvider) current() *entrypoint.MemoryProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mem
}

func sourceLabel(src ManifestSource) string {
	if src.Origin != "" {
		return src.Origin
	}
	return "embedded filesystem"
}
