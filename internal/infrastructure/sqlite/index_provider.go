package sqlite

import (
	"fmt"
	"sync"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/loader"
	"github.com/zjrosen/entrypoints/internal/log"
)

// IndexProvider serves the entry points of the latest index scan. The scan is
// read into memory on construction and on Reload.
type IndexProvider struct {
	repo    *IndexRepository
	factory *loader.Factory

	mu   sync.RWMutex
	mem  *entrypoint.MemoryProvider
	scan *Scan
}

var _ entrypoint.Provider = (*IndexProvider)(nil)

// NewIndexProvider reads the latest scan from repo. It returns ErrNoScan when
// the index was never built. A nil factory selects loader.NewFactory().
func NewIndexProvider(repo *IndexRepository, factory *loader.Factory) (*IndexProvider, error) {
	if factory == nil {
		factory = loader.NewFactory()
	}
	p := &IndexProvider{repo: repo, factory: factory}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload rereads the latest scan.
func (p *IndexProvider) Reload() error {
	scan, err := p.repo.LatestScan()
	if err != nil {
		return err
	}
	records, err := p.repo.Records(scan.ID)
	if err != nil {
		return err
	}

	mem := entrypoint.NewMemoryProvider()
	for _, rec := range records {
		entry, err := p.entryFor(rec)
		if err != nil {
			return fmt.Errorf("indexed entry point %s:%s: %w", rec.Group, rec.Name, err)
		}
		if err := mem.Add(rec.Group, entry); err != nil {
			return fmt.Errorf("indexed entry point %s:%s: %w", rec.Group, rec.Name, err)
		}
	}

	p.mu.Lock()
	p.mem = mem
	p.scan = scan
	p.mu.Unlock()

	log.Debug(log.CatIndex, "loaded index", "scan", scan.GUID, "entries", len(records))
	return nil
}

func (p *IndexProvider) entryFor(rec IndexRecord) (*entrypoint.Entry, error) {
	kind, err := loader.ParseKind(rec.Kind)
	if err != nil {
		return nil, err
	}
	load := p.factory.LoadFunc(loader.Spec{
		Kind:    kind,
		Module:  rec.Module,
		Symbols: rec.Symbols,
		Path:    rec.Path,
		BaseDir: rec.ManifestDir,
	})

	var opts []entrypoint.EntryOption
	if rec.Origin != "" {
		opts = append(opts, entrypoint.WithOrigin(rec.Origin))
	}
	return entrypoint.NewEntry(rec.Name, rec.Module, rec.Symbols, load, opts...)
}

// Scan returns the scan currently served.
func (p *IndexProvider) Scan() *Scan {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scan
}

// ListGroups implements entrypoint.Provider.
func (p *IndexProvider) ListGroups() []string {
	p.mu.RLock()
	mem := p.mem
	p.mu.RUnlock()
	return mem.ListGroups()
}

// ListEntries implements entrypoint.Provider.
func (p *IndexProvider) ListEntries(group string) []*entrypoint.Entry {
	p.mu.RLock()
	mem := p.mem
	p.mu.RUnlock()
	return mem.ListEntries(group)
}
