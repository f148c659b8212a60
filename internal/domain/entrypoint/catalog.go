package entrypoint

import "sort"

// Catalog maps each known entry point group to the module namespace implementing it.
// It is static configuration: it is consulted by IsValid and ListGroups but plays
// no part in resolution.
type Catalog struct {
	groups map[string]string
}

// NewCatalog creates a catalog from a group -> module namespace mapping.
// The mapping is copied.
func NewCatalog(groups map[string]string) *Catalog {
	c := &Catalog{groups: make(map[string]string, len(groups))}
	for group, module := range groups {
		c.groups[group] = module
	}
	return c
}

// BuiltinModuleRoot is the package path under which the bundled implementations live.
const BuiltinModuleRoot = "github.com/zjrosen/entrypoints/internal/plugins"

// DefaultGroups returns the built-in group -> module namespace mapping.
func DefaultGroups() map[string]string {
	return map[string]string{
		"ns.calculations":                   BuiltinModuleRoot + "/calculations",
		"ns.code":                           BuiltinModuleRoot + "/code",
		"ns.data":                           BuiltinModuleRoot + "/data",
		"ns.node":                           BuiltinModuleRoot + "/node",
		"ns.parsers":                        BuiltinModuleRoot + "/parsers",
		"ns.schedulers":                     BuiltinModuleRoot + "/schedulers",
		"ns.tools.dbexporters":              BuiltinModuleRoot + "/tools/dbexporters",
		"ns.tools.dbexporters.tcod_plugins": BuiltinModuleRoot + "/tools/dbexporters/tcod",
		"ns.tools.dbimporters":              BuiltinModuleRoot + "/tools/dbimporters",
		"ns.transports":                     BuiltinModuleRoot + "/transports",
		"ns.workflows":                      BuiltinModuleRoot + "/workflows",
	}
}

// DefaultCatalog returns a catalog of the built-in groups.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultGroups())
}

// Has reports whether group is a known group. Nil catalogs know no groups.
func (c *Catalog) Has(group string) bool {
	if c == nil {
		return false
	}
	_, ok := c.groups[group]
	return ok
}

// ModulePath returns the module namespace registered for group.
func (c *Catalog) ModulePath(group string) (string, bool) {
	if c == nil {
		return "", false
	}
	module, ok := c.groups[group]
	return module, ok
}

// Groups returns all known groups, sorted alphabetically.
func (c *Catalog) Groups() []string {
	if c == nil {
		return []string{}
	}
	groups := make([]string, 0, len(c.groups))
	for group := range c.groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups
}

// Len returns the number of known groups.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.groups)
}
