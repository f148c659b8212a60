package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/pubsub"
	"github.com/zjrosen/entrypoints/internal/tracing"
)

// LoadEvent is the payload of the events published by Service.
type LoadEvent struct {
	Identifier string
	Group      string
	Name       string
	Module     string
	Err        error
}

// Reloader is implemented by providers that can rescan their sources.
type Reloader interface {
	Reload() error
}

// Service fronts a resolver with identifier-format handling, caching, tracing
// and events.
type Service struct {
	resolver *entrypoint.Resolver
	reloader Reloader
	cache    *CachedProvider
	events   *pubsub.Broker[LoadEvent]
	tracer   trace.Tracer
	minimal  bool
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	catalog  *entrypoint.Catalog
	cache    bool
	cacheTTL time.Duration
	tracer   trace.Tracer
	exact    bool
}

// WithCatalog sets the group catalog. The default is entrypoint.DefaultCatalog.
func WithCatalog(catalog *entrypoint.Catalog) ServiceOption {
	return func(o *serviceOptions) { o.catalog = catalog }
}

// WithCache puts a CachedProvider in front of the provider.
func WithCache(ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.cache = true
		o.cacheTTL = ttl
	}
}

// WithTracer records spans with tracer.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(o *serviceOptions) { o.tracer = tracer }
}

// WithoutMinimalSearch rejects bare-name identifiers instead of searching the
// catalog groups for them.
func WithoutMinimalSearch() ServiceOption {
	return func(o *serviceOptions) { o.exact = true }
}

// NewService creates a service over provider. If provider implements Reloader,
// Reload rescans it.
func NewService(provider entrypoint.Provider, opts ...ServiceOption) *Service {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Service{
		events:  pubsub.NewBroker[LoadEvent](),
		tracer:  o.tracer,
		minimal: !o.exact,
	}
	if r, ok := provider.(Reloader); ok {
		s.reloader = r
	}
	if o.cache {
		s.cache = NewCachedProvider(provider, o.cacheTTL)
		provider = s.cache
	}
	s.resolver = entrypoint.NewResolver(provider, o.catalog)
	return s
}

// Resolver returns the underlying resolver.
func (s *Service) Resolver() *entrypoint.Resolver {
	return s.resolver
}

// Events returns the subscriber side of the service's event broker.
func (s *Service) Events() pubsub.Subscriber[LoadEvent] {
	return s.events
}

// Close shuts down the event broker.
func (s *Service) Close() {
	s.events.Close()
}

// Resolve resolves an identifier in any format. FULL identifiers resolve as is,
// PARTIAL ones get the group prefix restored, and MINIMAL ones (a bare name) are
// searched across every catalog group and must match in exactly one group.
func (s *Service) Resolve(ctx context.Context, identifier string) (group string, entry *entrypoint.Entry, err error) {
	format := entrypoint.DetectFormat(identifier)
	_, span := tracing.Start(ctx, s.tracer, tracing.SpanResolve,
		attribute.String(tracing.AttrIdentifier, identifier),
		attribute.String(tracing.AttrFormat, format.String()),
	)
	defer func() {
		if entry != nil {
			span.SetAttributes(
				attribute.String(tracing.AttrGroup, group),
				attribute.String(tracing.AttrName, entry.Name()),
				attribute.String(tracing.AttrModule, entry.Module()),
			)
		}
		tracing.End(span, err, ErrorType(err))
	}()

	switch {
	case identifier == "":
		err = &entrypoint.MalformedIdentifierError{Identifier: identifier, Reason: "identifier is empty"}
	case format == entrypoint.FormatMinimal && strings.Contains(identifier, entrypoint.Separator):
		// More than one separator: not a bare name either.
		_, _, err = entrypoint.Parse(identifier)
	case format == entrypoint.FormatMinimal && !s.minimal:
		err = &entrypoint.MalformedIdentifierError{Identifier: identifier, Reason: "group is required"}
	case format == entrypoint.FormatMinimal:
		group, entry, err = s.resolveMinimal(identifier)
	default:
		var name string
		group, name, err = entrypoint.Qualify(identifier)
		if err == nil {
			entry, err = s.resolver.Resolve(group, name)
		}
	}

	if err != nil {
		log.Debug(log.CatResolve, "resolve failed", "identifier", identifier, "error", err.Error())
		s.events.Publish(pubsub.FailedEvent, LoadEvent{Identifier: identifier, Group: group, Err: err})
		return group, nil, err
	}

	log.Debug(log.CatResolve, "resolved", "identifier", identifier, "group", group, "module", entry.Module())
	s.events.Publish(pubsub.ResolvedEvent, LoadEvent{
		Identifier: identifier,
		Group:      group,
		Name:       entry.Name(),
		Module:     entry.Module(),
	})
	return group, entry, nil
}

func (s *Service) resolveMinimal(name string) (string, *entrypoint.Entry, error) {
	var groups []string
	total := 0
	for _, group := range s.resolver.ListGroups() {
		n := 0
		for _, candidate := range s.resolver.ListNames(group, false) {
			if candidate == name {
				n++
			}
		}
		if n > 0 {
			groups = append(groups, group)
			total += n
		}
	}

	switch len(groups) {
	case 0:
		return "", nil, &entrypoint.NotFoundError{Name: name}
	case 1:
		entry, err := s.resolver.Resolve(groups[0], name)
		return groups[0], entry, err
	default:
		return "", nil, &entrypoint.AmbiguousMatchError{Name: name, Count: total, Groups: groups}
	}
}

// Load resolves identifier and loads its implementation.
func (s *Service) Load(ctx context.Context, identifier string) (any, *entrypoint.Entry, error) {
	group, entry, err := s.Resolve(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	impl, err := s.LoadEntry(ctx, group, entry)
	if err != nil {
		return nil, entry, err
	}
	return impl, entry, nil
}

// LoadEntry loads an already resolved entry of group.
func (s *Service) LoadEntry(ctx context.Context, group string, entry *entrypoint.Entry) (impl any, err error) {
	if entry == nil {
		return nil, entrypoint.ErrNilEntry
	}

	_, span := tracing.Start(ctx, s.tracer, tracing.SpanLoad,
		attribute.String(tracing.AttrGroup, group),
		attribute.String(tracing.AttrName, entry.Name()),
		attribute.String(tracing.AttrModule, entry.Module()),
	)
	defer func() { tracing.End(span, err, ErrorType(err)) }()

	payload := LoadEvent{Group: group, Name: entry.Name(), Module: entry.Module()}
	if id, ferr := entrypoint.Format(group, entry.Name(), entrypoint.FormatFull); ferr == nil {
		payload.Identifier = id
	}

	impl, err = s.resolver.Load(entry)
	if err != nil {
		log.ErrorErr(log.CatLoad, "load failed", err, "group", group, "name", entry.Name())
		payload.Err = err
		s.events.Publish(pubsub.FailedEvent, payload)
		return nil, err
	}

	log.Info(log.CatLoad, "loaded entry point", "group", group, "name", entry.Name(), "module", entry.Module())
	s.events.Publish(pubsub.LoadedEvent, payload)
	return impl, nil
}

// FindIdentifierFor returns the FULL identifier of the first entry exposing
// symbol from module, unwrapping process wrapper symbols.
func (s *Service) FindIdentifierFor(ctx context.Context, module, symbol string) (identifier string, found bool) {
	_, span := tracing.Start(ctx, s.tracer, tracing.SpanReverse,
		attribute.String(tracing.AttrModule, module),
		attribute.String(tracing.AttrSymbol, symbol),
	)
	defer func() {
		span.SetAttributes(attribute.Bool(tracing.AttrFound, found))
		tracing.End(span, nil, "")
	}()

	identifier, found = s.resolver.ToIdentifierString(module, symbol)
	log.Debug(log.CatResolve, "reverse lookup", "module", module, "symbol", symbol, "found", found)
	return identifier, found
}

// Reload rescans the provider's sources, when it can, and drops cached answers.
func (s *Service) Reload(ctx context.Context) error {
	if s.reloader != nil {
		if err := s.reloader.Reload(); err != nil {
			s.events.Publish(pubsub.FailedEvent, LoadEvent{Err: err})
			return err
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			return err
		}
	}
	s.events.Publish(pubsub.InvalidatedEvent, LoadEvent{})
	return nil
}

// Watch reloads on every signal from changes until ctx is done or changes closes.
// Reload errors are logged; the previous entries stay in place.
func (s *Service) Watch(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := s.Reload(ctx); err != nil {
				log.ErrorErr(log.CatWatcher, "reload after manifest change", err)
				continue
			}
			log.Info(log.CatWatcher, "reloaded entry points after manifest change")
		}
	}
}

// ErrorType classifies err for span attributes and CLI output.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entrypoint.ErrMalformedIdentifier):
		return "malformed_identifier"
	case errors.Is(err, entrypoint.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, entrypoint.ErrNotFound):
		return "not_found"
	case errors.Is(err, entrypoint.ErrAmbiguousMatch):
		return "ambiguous_match"
	case errors.Is(err, entrypoint.ErrLoadingFailure):
		return "loading_failure"
	default:
		return "error"
	}
}
