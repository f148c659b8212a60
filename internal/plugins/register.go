package plugins

import (
	// Bundled implementations register themselves on import.
	_ "github.com/zjrosen/entrypoints/internal/plugins/calculations"
	_ "github.com/zjrosen/entrypoints/internal/plugins/data"
	_ "github.com/zjrosen/entrypoints/internal/plugins/parsers"
	_ "github.com/zjrosen/entrypoints/internal/plugins/schedulers"
	_ "github.com/zjrosen/entrypoints/internal/plugins/transports"
)

// Register is a no-op that makes the bundled implementations' registration
// explicit at call sites.
func Register() {}
