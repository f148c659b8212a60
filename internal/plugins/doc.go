// Package plugins holds the implementations bundled with entrypoints. Each
// subpackage registers its types with the builtin loader table from init and
// is declared in the embedded manifests, so importing it for side effects
// (see Register) makes the implementations loadable.
package plugins
