package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/entrypoints/internal/config"
	"github.com/zjrosen/entrypoints/internal/log"
	"github.com/zjrosen/entrypoints/internal/pubsub"
	"github.com/zjrosen/entrypoints/internal/registry"
	"github.com/zjrosen/entrypoints/internal/watcher"
)

var watchEvents []string

type eventDTO struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier,omitempty"`
	Error      string `json:"error,omitempty"`
	Time       string `json:"time"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload entry points when user manifests change",
	Long: `Watch the user plugin directories and reload the registry whenever an
entry_points.yaml file is written, created or removed. Each registry event is
printed as one JSON line until interrupted. Use --events to print only some
event types (resolved, loaded, failed, invalidated).

Examples:
  entrypoints watch
  entrypoints watch --events invalidated,failed`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Source == config.SourceIndex {
			log.Warn(log.CatWatcher, "watching manifests while serving the index; run 'entrypoints index' to pick up changes")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		types, err := parseEventTypes(watchEvents)
		if err != nil {
			return err
		}
		return withRuntime(func(rt *runtime) error {
			return runWatch(ctx, rt, cmd.OutOrStdout(), types)
		})
	},
}

func runWatch(ctx context.Context, rt *runtime, out io.Writer, types []pubsub.EventType) error {
	wcfg := watcher.DefaultConfig(rt.cfg.ResolvedPluginDirs()...)
	if rt.cfg.Debounce > 0 {
		wcfg.DebounceDur = rt.cfg.Debounce
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	listener := pubsub.NewListener(ctx, rt.service.Events(), types...)
	go rt.service.Watch(ctx, changes)

	enc := json.NewEncoder(out)
	listener.Each(func(ev pubsub.Event[registry.LoadEvent]) bool {
		dto := eventDTO{
			Type:       string(ev.Type),
			Identifier: ev.Payload.Identifier,
			Time:       ev.Timestamp.UTC().Format(time.RFC3339),
		}
		if ev.Payload.Err != nil {
			dto.Error = ev.Payload.Err.Error()
		}
		return enc.Encode(dto) == nil
	})
	return nil
}

func parseEventTypes(names []string) ([]pubsub.EventType, error) {
	known := []pubsub.EventType{pubsub.ResolvedEvent, pubsub.LoadedEvent, pubsub.FailedEvent, pubsub.InvalidatedEvent}
	types := make([]pubsub.EventType, 0, len(names))
	for _, name := range names {
		t := pubsub.EventType(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(known, t) {
			return nil, fmt.Errorf("unknown event type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchEvents, "events", nil, "event types to print (default: all)")
	rootCmd.AddCommand(watchCmd)
}
