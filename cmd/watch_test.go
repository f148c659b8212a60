package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/entrypoints/internal/config"
	"github.com/zjrosen/entrypoints/internal/pubsub"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func batchManifest(name string) string {
	return `package: acme
entry_points:
  - group: ns.schedulers
    name: ` + name + `
    module: ` + schedulersModule + `
    symbols: [DirectScheduler]
`
}

func TestRunWatch_ReloadsOnManifestChange(t *testing.T) {
	dir := t.TempDir()
	writeUserManifest(t, dir, "acme", batchManifest("batch"))
	manifest := filepath.Join(dir, "user", "plugins", "acme", "entry_points.yaml")

	c := config.Defaults()
	c.PluginDirs = []string{filepath.Join(dir, "user")}
	c.Debounce = 20 * time.Millisecond
	rt, err := newRuntime(c)
	require.NoError(t, err)
	t.Cleanup(rt.close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _, err = rt.service.Resolve(ctx, "ns.schedulers:batch")
	require.NoError(t, err)

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, rt, out, []pubsub.EventType{pubsub.InvalidatedEvent})
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(manifest, []byte(batchManifest("nightly")), 0o600)
		return strings.Contains(out.String(), `"type":"invalidated"`)
	}, 5*time.Second, 100*time.Millisecond)

	_, _, err = rt.service.Resolve(ctx, "ns.schedulers:nightly")
	require.NoError(t, err)
	require.NotContains(t, out.String(), `"type":"resolved"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "watch did not stop")
	}
}

func TestRunWatch_NothingToWatch(t *testing.T) {
	c := config.Defaults()
	c.PluginDirs = []string{filepath.Join(t.TempDir(), "missing")}
	rt, err := newRuntime(c)
	require.NoError(t, err)
	t.Cleanup(rt.close)

	err = runWatch(context.Background(), rt, &syncBuffer{}, nil)
	require.Error(t, err)
}

func TestParseEventTypes(t *testing.T) {
	types, err := parseEventTypes([]string{"Invalidated", " failed"})
	require.NoError(t, err)
	require.Equal(t, []pubsub.EventType{pubsub.InvalidatedEvent, pubsub.FailedEvent}, types)

	_, err = parseEventTypes([]string{"logged"})
	require.ErrorContains(t, err, `unknown event type "logged"`)
}
