package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/pubsub"
	"github.com/zjrosen/entrypoints/internal/tracing"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *entrypoint.MemoryProvider) {
	t.Helper()
	load := func() (any, error) { return &widget{id: "loaded"}, nil }
	mem := entrypoint.NewMemoryProvider().
		MustAdd("ns.schedulers", entrypoint.MustEntry("slurm", "example/schedulers", []string{"Slurm"}, load)).
		MustAdd("ns.schedulers", entrypoint.MustEntry("direct", "example/schedulers", []string{"Direct"}, load)).
		MustAdd("ns.data", entrypoint.MustEntry("array", "example/data", []string{"ArrayData"}, load)).
		MustAdd("ns.parsers", entrypoint.MustEntry("array", "example/parsers", []string{"ArrayParser"}, load)).
		MustAdd("ns.code", entrypoint.MustEntry("broken", "example/code", []string{"Broken"}, func() (any, error) {
			return nil, errors.New("boom")
		}))
	svc := NewService(mem, opts...)
	t.Cleanup(svc.Close)
	return svc, mem
}

func TestService_ResolveFormats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		wantGroup  string
		wantModule string
		wantErr    error
	}{
		{name: "full", identifier: "ns.schedulers:slurm", wantGroup: "ns.schedulers", wantModule: "example/schedulers"},
		{name: "partial", identifier: "schedulers:direct", wantGroup: "ns.schedulers", wantModule: "example/schedulers"},
		{name: "minimal unique", identifier: "slurm", wantGroup: "ns.schedulers", wantModule: "example/schedulers"},
		{name: "full not found", identifier: "ns.schedulers:pbs", wantErr: entrypoint.ErrNotFound},
		{name: "minimal not found", identifier: "pbs", wantErr: entrypoint.ErrNotFound},
		{name: "minimal in several groups", identifier: "array", wantErr: entrypoint.ErrAmbiguousMatch},
		{name: "too many separators", identifier: "a:b:c", wantErr: entrypoint.ErrMalformedIdentifier},
		{name: "empty", identifier: "", wantErr: entrypoint.ErrMalformedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, entry, err := svc.Resolve(ctx, tt.identifier)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantGroup, group)
			require.Equal(t, tt.wantModule, entry.Module())
		})
	}
}

func TestService_ResolveMinimalAmbiguityListsGroups(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Resolve(context.Background(), "array")

	var ambiguous *entrypoint.AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, []string{"ns.data", "ns.parsers"}, ambiguous.Groups)
	require.Equal(t, 2, ambiguous.Count)
	require.Contains(t, err.Error(), "ns.data, ns.parsers")
}

func TestService_ResolveMinimalDuplicateInOneGroup(t *testing.T) {
	svc, mem := newTestService(t)
	mem.MustAdd("ns.schedulers", entrypoint.MustEntry("slurm", "other", nil, nil))

	group, _, err := svc.Resolve(context.Background(), "slurm")
	require.ErrorIs(t, err, entrypoint.ErrAmbiguousMatch)
	require.Equal(t, "ns.schedulers", group)
}

func TestService_ResolveMinimalOnlySearchesCatalogGroups(t *testing.T) {
	svc, mem := newTestService(t)
	mem.MustAdd("ns.unlisted", entrypoint.MustEntry("hidden", "m", nil, nil))

	_, _, err := svc.Resolve(context.Background(), "hidden")
	require.ErrorIs(t, err, entrypoint.ErrNotFound)
	require.EqualError(t, err, "entry point 'hidden' not found in any catalog group")

	_, entry, err := svc.Resolve(context.Background(), "ns.unlisted:hidden")
	require.NoError(t, err)
	require.Equal(t, "hidden", entry.Name())
}

func TestService_WithoutMinimalSearch(t *testing.T) {
	svc, _ := newTestService(t, WithoutMinimalSearch())

	_, _, err := svc.Resolve(context.Background(), "slurm")
	require.ErrorIs(t, err, entrypoint.ErrMalformedIdentifier)

	group, _, err := svc.Resolve(context.Background(), "schedulers:slurm")
	require.NoError(t, err)
	require.Equal(t, "ns.schedulers", group)
}

func TestService_Load(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	impl, entry, err := svc.Load(ctx, "schedulers:slurm")
	require.NoError(t, err)
	require.Equal(t, "slurm", entry.Name())
	require.Equal(t, &widget{id: "loaded"}, impl)

	_, entry, err = svc.Load(ctx, "ns.code:broken")
	require.ErrorIs(t, err, entrypoint.ErrLoadingFailure)
	require.ErrorContains(t, err, "boom")
	require.Equal(t, "broken", entry.Name())

	_, _, err = svc.Load(ctx, "ns.code:missing")
	require.ErrorIs(t, err, entrypoint.ErrNotFound)

	_, err = svc.LoadEntry(ctx, "ns.code", nil)
	require.ErrorIs(t, err, entrypoint.ErrNilEntry)
}

func TestService_Events(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := pubsub.NewListener(ctx, svc.Events())

	_, _, err := svc.Load(ctx, "ns.schedulers:slurm")
	require.NoError(t, err)
	_, _, err = svc.Resolve(ctx, "ns.schedulers:pbs")
	require.Error(t, err)
	require.NoError(t, svc.Reload(ctx))

	var got []pubsub.EventType
	for i := 0; i < 4; i++ {
		event, ok := listener.Next()
		require.True(t, ok)
		got = append(got, event.Type)

		switch event.Type {
		case pubsub.LoadedEvent:
			require.Equal(t, "ns.schedulers:slurm", event.Payload.Identifier)
			require.Equal(t, "example/schedulers", event.Payload.Module)
		case pubsub.FailedEvent:
			require.ErrorIs(t, event.Payload.Err, entrypoint.ErrNotFound)
		}
	}
	require.Equal(t, []pubsub.EventType{
		pubsub.ResolvedEvent,
		pubsub.LoadedEvent,
		pubsub.FailedEvent,
		pubsub.InvalidatedEvent,
	}, got)
}

func TestService_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := tracing.NewProviderWithExporter(tracing.Config{ServiceName: "test"}, exporter)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	svc, _ := newTestService(t, WithTracer(provider.Tracer()))
	ctx := context.Background()

	_, _, err := svc.Load(ctx, "ns.schedulers:slurm")
	require.NoError(t, err)
	_, _, err = svc.Resolve(ctx, "array")
	require.Error(t, err)
	_, found := svc.FindIdentifierFor(ctx, "example/data", "ArrayData")
	require.True(t, found)

	spans := exporter.GetSpans()
	require.Len(t, spans, 4)
	require.Equal(t, tracing.SpanResolve, spans[0].Name)
	require.Equal(t, tracing.SpanLoad, spans[1].Name)
	require.Equal(t, tracing.SpanResolve, spans[2].Name)
	require.Equal(t, tracing.SpanReverse, spans[3].Name)

	attrs := map[string]string{}
	for _, kv := range spans[2].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	require.Equal(t, "minimal", attrs[tracing.AttrFormat])
	require.Equal(t, "ambiguous_match", attrs[tracing.AttrErrorType])
}

func TestService_FindIdentifierFor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, found := svc.FindIdentifierFor(ctx, "example/schedulers", "Slurm")
	require.True(t, found)
	require.Equal(t, "ns.schedulers:slurm", id)

	id, found = svc.FindIdentifierFor(ctx, "example/parsers", entrypoint.WrapperSymbol("example/parsers", "ArrayParser"))
	require.True(t, found)
	require.Equal(t, "ns.parsers:array", id)

	_, found = svc.FindIdentifierFor(ctx, "example/schedulers", "Pbs")
	require.False(t, found)
}

func TestService_CacheAndReload(t *testing.T) {
	svc, mem := newTestService(t, WithCache(time.Hour))
	ctx := context.Background()

	_, _, err := svc.Resolve(ctx, "ns.schedulers:pbs")
	require.ErrorIs(t, err, entrypoint.ErrNotFound)

	mem.MustAdd("ns.schedulers", entrypoint.MustEntry("pbs", "m", nil, nil))
	_, _, err = svc.Resolve(ctx, "ns.schedulers:pbs")
	require.ErrorIs(t, err, entrypoint.ErrNotFound, "cached answer is still served")

	require.NoError(t, svc.Reload(ctx))
	_, entry, err := svc.Resolve(ctx, "ns.schedulers:pbs")
	require.NoError(t, err)
	require.Equal(t, "pbs", entry.Name())
}

type failingReloader struct {
	*entrypoint.MemoryProvider
	err error
}

func (f failingReloader) Reload() error { return f.err }

func TestService_ReloadError(t *testing.T) {
	svc := NewService(failingReloader{MemoryProvider: entrypoint.NewMemoryProvider(), err: errors.New("disk gone")})
	defer svc.Close()

	require.EqualError(t, svc.Reload(context.Background()), "disk gone")
}

func TestService_Watch(t *testing.T) {
	reloads := make(chan struct{}, 4)
	p := reloadCounter{MemoryProvider: entrypoint.NewMemoryProvider(), reloads: reloads}
	svc := NewService(p)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{})
	done := make(chan struct{})
	go func() {
		svc.Watch(ctx, changes)
		close(done)
	}()

	changes <- struct{}{}
	changes <- struct{}{}
	require.Eventually(t, func() bool { return len(reloads) == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

type reloadCounter struct {
	*entrypoint.MemoryProvider
	reloads chan struct{}
}

func (r reloadCounter) Reload() error {
	r.reloads <- struct{}{}
	return nil
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&entrypoint.MalformedIdentifierError{Identifier: "a:b:c"}, "malformed_identifier"},
		{&entrypoint.InvalidArgumentError{Argument: "format"}, "invalid_argument"},
		{&entrypoint.NotFoundError{Group: "g", Name: "n"}, "not_found"},
		{&entrypoint.AmbiguousMatchError{Group: "g", Name: "n", Count: 2}, "ambiguous_match"},
		{&entrypoint.LoadingFailureError{Name: "n", Cause: errors.New("x")}, "loading_failure"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ErrorType(tt.err))
	}
}
