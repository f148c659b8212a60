package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zjrosen/entrypoints/internal/config"
	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/flags"
	"github.com/zjrosen/entrypoints/internal/infrastructure/sqlite"
	"github.com/zjrosen/entrypoints/internal/loader"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/plugins"
	"github.com/zjrosen/entrypoints/internal/presentation"
	"github.com/zjrosen/entrypoints/internal/registry"
	"github.com/zjrosen/entrypoints/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// runtime is everything a command needs to answer queries.
type runtime struct {
	cfg      config.Config
	catalog  *entrypoint.Catalog
	provider entrypoint.Provider
	service  *registry.Service
	tracing  *tracing.Provider
	db       *sqlite.DB
}

func newRuntime(c config.Config) (*runtime, error) {
	if err := config.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	plugins.Register()

	rt := &runtime{cfg: c, catalog: c.GroupCatalog()}

	tp, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	rt.tracing = tp

	fl := c.FeatureFlags()
	factory := newFactory(fl)
	switch c.Source {
	case config.SourceIndex:
		db, err := sqlite.NewDB(c.ResolvedIndexPath())
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("opening index: %w", err)
		}
		rt.db = db
		p, err := sqlite.NewIndexProvider(db.IndexRepository(), factory)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.provider = p
	default:
		p, err := registry.NewDefaultProvider(c.ResolvedPluginDirs(), factory)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.provider = p
	}

	opts := []registry.ServiceOption{
		registry.WithCatalog(rt.catalog),
		registry.WithTracer(tp.Tracer()),
	}
	if c.Cache.Enabled {
		opts = append(opts, registry.WithCache(c.Cache.TTL))
	}
	if !fl.Enabled(flags.FlagMinimalSearch) {
		opts = append(opts, registry.WithoutMinimalSearch())
	}
	rt.service = registry.NewService(rt.provider, opts...)

	log.Debug(log.CatCLI, "runtime ready", "source", c.Source, "groups", rt.catalog.Len())
	return rt, nil
}

// newFactory builds the loader factory, refusing shared objects when the
// go-plugins flag is off.
func newFactory(fl *flags.Registry) *loader.Factory {
	if fl.Enabled(flags.FlagGoPlugins) {
		return loader.NewFactory()
	}
	return loader.NewFactory(loader.WithOpenFunc(loader.DisabledOpen))
}

func (rt *runtime) close() {
	if rt.service != nil {
		rt.service.Close()
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			log.ErrorErr(log.CatIndex, "closing index", err)
		}
	}
	if rt.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := rt.tracing.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "shutting down tracing", err)
		}
	}
}

// withRuntime builds a runtime from the loaded configuration, runs fn, and tears
// the runtime down.
func withRuntime(fn func(rt *runtime) error) error {
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(rt)
}

func formatter(w io.Writer) *presentation.Formatter {
	return presentation.NewFormatterWithOutput(w, outputFormat)
}

// resolveError adds the error type to resolution failures so scripts can
// distinguish them.
func resolveError(identifier string, err error) error {
	var ambiguous *entrypoint.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		log.Warn(log.CatCLI, "ambiguous identifier", "identifier", identifier, "count", ambiguous.Count)
	}
	return fmt.Errorf("%s: %w", registry.ErrorType(err), err)
}
