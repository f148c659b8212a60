// Package entrypoint implements the domain layer for plugin entry points.
//
// This package follows the same rules as the rest of the domain layer:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the value types (Entry, EntryPointFormat, Catalog) and the Provider port
//   - Implements the domain logic (identifier grammar, resolution, reverse lookup)
//   - Has no knowledge of infrastructure concerns (manifests, YAML, SQLite, plugins on disk)
//
// # Identifier Grammar
//
// An entry point is addressed by a group and a name joined by the separator ':'.
// Groups carry the reserved prefix "ns." which only serves to tell the formats apart:
//
//	FULL:    ns.schedulers:slurm
//	PARTIAL: schedulers:slurm
//	MINIMAL: slurm
//
// DetectFormat classifies a string syntactically. Parse accepts exactly one separator.
// IsValid additionally checks the group against a Catalog, but never checks the name.
//
// # Resolution
//
// Resolver queries its Provider on every call and requires exactly one entry with the
// requested name. Zero matches yield a NotFoundError, several yield an
// AmbiguousMatchError. Duplicates are never resolved by picking one of them.
//
// Loading wraps every failure of an entry's LoadFunc in a LoadingFailureError that
// keeps the original cause reachable through errors.Is / errors.As.
//
// # Reverse Lookup
//
// FindIdentifierFor searches every group for an entry exposing a given symbol from a
// given module. Absence is reported with found == false rather than an error.
// Symbols carrying the WrapperPrefix are generated wrappers; their payload names the
// wrapped module and symbol.
package entrypoint
