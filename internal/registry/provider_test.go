package registry

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
)

func TestManifestProvider_GroupsSortedEntriesInDiscoveryOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"plugins/one/entry_points.yaml": &fstest.MapFile{Data: []byte(`
entry_points:
  - {group: ns.workflows, name: relax, module: m, symbols: [Relax]}
  - {group: ns.data, name: array, module: m, symbols: [ArrayData]}
`)},
		"plugins/two/entry_points.yaml": &fstest.MapFile{Data: []byte(`
entry_points:
  - {group: ns.data, name: array, module: other, symbols: [ArrayData]}
  - {group: ns.calculations, name: job, module: m, symbols: [Job]}
`)},
	}

	p, err := NewManifestProvider(testFactory(), ManifestSource{FS: fsys})
	require.NoError(t, err)

	require.Equal(t, []string{"ns.calculations", "ns.data", "ns.workflows"}, p.ListGroups())
	require.Equal(t, 4, p.Len())

	data := p.ListEntries("ns.data")
	require.Len(t, data, 2)
	require.Equal(t, "m", data[0].Module())
	require.Equal(t, "other", data[1].Module())

	// Duplicates surface at resolution time.
	_, err = entrypoint.NewResolver(p, nil).Resolve("ns.data", "array")
	require.ErrorIs(t, err, entrypoint.ErrAmbiguousMatch)
}

func TestManifestProvider_MultipleSources(t *testing.T) {
	builtin := ManifestSource{FS: createManifestFS("entry_points:\n  - {group: ns.data, name: array, module: m}\n"), Origin: "builtin"}
	user := ManifestSource{FS: createManifestFS("entry_points:\n  - {group: ns.data, name: dict, module: m}\n"), Origin: "/home/u/.entrypoints"}

	p, err := NewManifestProvider(testFactory(), builtin, user)
	require.NoError(t, err)

	entries := p.ListEntries("ns.data")
	require.Len(t, entries, 2)
	require.Equal(t, "builtin", entries[0].Origin())
	require.Equal(t, "/home/u/.entrypoints", entries[1].Origin())

	decls := p.Declarations()
	require.Len(t, decls, 2)
	require.Equal(t, "array", decls[0].Entry.Name())
}

func TestManifestProvider_FailsOnInvalidStrictSource(t *testing.T) {
	_, err := NewManifestProvider(testFactory(), ManifestSource{FS: createManifestFS("entry_points: [")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "load manifests from embedded filesystem")
}

func TestManifestProvider_Reload(t *testing.T) {
	fsys := createManifestFS("entry_points:\n  - {group: ns.data, name: array, module: m}\n")
	p, err := NewManifestProvider(testFactory(), ManifestSource{FS: fsys})
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())

	fsys["plugins/more/entry_points.yaml"] = &fstest.MapFile{
		Data: []byte("entry_points:\n  - {group: ns.data, name: dict, module: m}\n"),
	}
	require.NoError(t, p.Reload())
	require.Equal(t, 2, p.Len())

	// A broken manifest fails the reload and keeps the previous entries.
	fsys["plugins/more/entry_points.yaml"] = &fstest.MapFile{Data: []byte("entry_points: [")}
	require.Error(t, p.Reload())
	require.Equal(t, 2, p.Len())
}

func TestManifestProvider_ConcurrentReadsDuringReload(t *testing.T) {
	fsys := createManifestFS("entry_points:\n  - {group: ns.data, name: array, module: m}\n")
	p, err := NewManifestProvider(testFactory(), ManifestSource{FS: fsys})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Len(t, p.ListEntries("ns.data"), 1)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Reload())
	}
	wg.Wait()
}

func TestManifestProvider_UserDirectory(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "mine", "entry_points:\n  - {group: ns.parsers, name: custom, module: example/widgets, symbols: [Widget]}\n")
	writeManifest(t, base, "broken", "entry_points: [")

	src, ok := UserSource(base)
	require.True(t, ok)

	p, err := NewManifestProvider(testFactory(), src)
	require.NoError(t, err)
	require.Equal(t, []string{"ns.parsers"}, p.ListGroups())

	// Writing a manifest is picked up by Reload.
	writeManifest(t, base, "later", "entry_points:\n  - {group: ns.parsers, name: late, module: m}\n")
	svc := NewService(p, WithCache(time.Minute))
	require.Equal(t, []string{"custom"}, svc.Resolver().ListNames("ns.parsers", true))
	require.NoError(t, svc.Reload(context.Background()))
	require.Equal(t, []string{"custom", "late"}, svc.Resolver().ListNames("ns.parsers", true))
}

func writeManifest(t *testing.T, base, pkg, content string) {
	t.Helper()
	dir := filepath.Join(base, PluginsDir, pkg)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0o600))
}
