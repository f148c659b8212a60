package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/entrypoints/internal/infrastructure/sqlite"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/plugins"
	"github.com/zjrosen/entrypoints/internal/presentation"
	"github.com/zjrosen/entrypoints/internal/registry"
	"github.com/zjrosen/entrypoints/internal/tracing"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the entry point index",
	Long: `Scan the bundled and user manifests and write them to the SQLite index
at index_path, replacing the previous index.

Set "source: index" in the config file to serve queries from the index instead
of scanning manifests on every run.

Examples:
  entrypoints index
  entrypoints index -o table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		plugins.Register()

		provider, err := registry.NewDefaultProvider(cfg.ResolvedPluginDirs(), newFactory(cfg.FeatureFlags()))
		if err != nil {
			return err
		}

		tp, err := tracing.NewProvider(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.ErrorErr(log.CatTrace, "shutting down tracing", err)
			}
		}()

		db, err := sqlite.NewDB(cfg.ResolvedIndexPath())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		records := indexRecords(provider.Declarations())
		_, span := tracing.Start(cmd.Context(), tp.Tracer(), tracing.SpanIndex,
			attribute.Int(tracing.AttrCount, len(records)),
		)
		scan, err := db.IndexRepository().Replace(records)
		tracing.End(span, err, "")
		if err != nil {
			return err
		}
		log.Info(log.CatCLI, "index written", "path", db.Path(), "entries", scan.EntryCount)

		return formatter(cmd.OutOrStdout()).FormatScan(presentation.ScanDTO{
			GUID:      scan.GUID,
			Entries:   scan.EntryCount,
			CreatedAt: scan.CreatedAt.UTC().Format(time.RFC3339),
			Path:      db.Path(),
		})
	},
}

// indexRecords converts manifest declarations to index records, keeping their order.
func indexRecords(decls []registry.Declaration) []sqlite.IndexRecord {
	records := make([]sqlite.IndexRecord, 0, len(decls))
	for _, d := range decls {
		records = append(records, sqlite.IndexRecord{
			Group:       d.Group,
			Name:        d.Entry.Name(),
			Module:      d.Entry.Module(),
			Symbols:     d.Entry.Symbols(),
			Kind:        string(d.Kind),
			Path:        d.Path,
			ManifestDir: d.Dir,
			Origin:      d.Entry.Origin(),
		})
	}
	return records
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
