// Package flags provides feature flag support for optional registry behaviour.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/entrypoints/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagGoPlugins controls whether goplugin entry points may open shared objects.
	// When disabled, loading such an entry fails; builtin entries are unaffected.
	FlagGoPlugins = "go-plugins"

	// FlagMinimalSearch controls whether bare-name identifiers are searched across
	// catalog groups. When disabled they are rejected as malformed.
	FlagMinimalSearch = "minimal-search"
)

// Defaults returns the value of every known flag when the config file sets none.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagGoPlugins:     true,
		FlagMinimalSearch: true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from Defaults overridden by configured.
func New(configured map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, configured)

	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "enabled", r.EnabledNames())
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// EnabledNames returns the enabled flags, sorted.
func (r *Registry) EnabledNames() []string {
	names := []string{}
	if r == nil {
		return names
	}
	for name, on := range r.flags {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
