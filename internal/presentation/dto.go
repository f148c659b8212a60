package presentation

import (
	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
)

// EntryDTO represents an entry point for presentation
type EntryDTO struct {
	Group      string   `json:"group"`
	Name       string   `json:"name"`
	Identifier string   `json:"identifier"` // FULL form, group:name
	Module     string   `json:"module"`
	Symbols    []string `json:"symbols"`
	Origin     string   `json:"origin,omitempty"`
	Loadable   bool     `json:"loadable"`
}

// GroupDTO represents a catalog group and how many entries it holds
type GroupDTO struct {
	Group   string `json:"group"`
	Module  string `json:"module"`
	Entries int    `json:"entries"`
}

// IdentifierDTO describes an identifier string
type IdentifierDTO struct {
	Identifier string `json:"identifier"`
	Format     string `json:"format"`
	Valid      bool   `json:"valid"`
}

// LoadDTO describes a loaded implementation
type LoadDTO struct {
	Entry EntryDTO `json:"entry"`
	Type  string   `json:"type"`
}

// ScanDTO describes an index build
type ScanDTO struct {
	GUID      string `json:"guid"`
	Entries   int    `json:"entries"`
	CreatedAt string `json:"created_at"`
	Path      string `json:"path"`
}

// FromEntry converts an entry of group to a DTO.
func FromEntry(group string, e *entrypoint.Entry) EntryDTO {
	symbols := e.Symbols()
	if symbols == nil {
		symbols = []string{}
	}
	return EntryDTO{
		Group:      group,
		Name:       e.Name(),
		Identifier: group + entrypoint.Separator + e.Name(),
		Module:     e.Module(),
		Symbols:    symbols,
		Origin:     e.Origin(),
		Loadable:   e.CanLoad(),
	}
}

// FromEntries converts the entries of group to DTOs, keeping their order.
func FromEntries(group string, entries []*entrypoint.Entry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		dtos = append(dtos, FromEntry(group, e))
	}
	return dtos
}

// FromCatalog lists every catalog group with its module namespace and the number
// of entries provider holds for it.
func FromCatalog(catalog *entrypoint.Catalog, provider entrypoint.Provider) []GroupDTO {
	groups := catalog.Groups()
	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		module, _ := catalog.ModulePath(g)
		dtos = append(dtos, GroupDTO{
			Group:   g,
			Module:  module,
			Entries: len(provider.ListEntries(g)),
		})
	}
	return dtos
}
