package sqlite

import (
	"encoding/json"
	"fmt"
	"time"
)

// IndexRecord is one indexed entry point, as written by an index scan.
type IndexRecord struct {
	Group       string
	Name        string
	Module      string
	Symbols     []string
	Kind        string
	Path        string // goplugin shared object, relative to ManifestDir unless absolute
	ManifestDir string
	Origin      string
}

// Scan describes one index build.
type Scan struct {
	ID         int64
	GUID       string
	CreatedAt  time.Time
	EntryCount int
}

// EntryPointModel represents the database row for the entry_points table.
type EntryPointModel struct {
	ID          int64
	ScanID      int64
	Position    int
	Group       string
	Name        string
	Module      string
	Symbols     string // JSON encoded
	Kind        string
	Path        *string // nullable
	ManifestDir *string // nullable
	Origin      *string // nullable
}

// ScanModel represents the database row for the index_scans table.
type ScanModel struct {
	ID         int64
	GUID       string
	CreatedAt  int64 // Unix timestamp
	EntryCount int
}

func toEntryPointModel(scanID int64, position int, r IndexRecord) (*EntryPointModel, error) {
	symbols := r.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	encoded, err := json.Marshal(symbols)
	if err != nil {
		return nil, fmt.Errorf("encode symbols: %w", err)
	}

	kind := r.Kind
	if kind == "" {
		kind = "builtin"
	}

	return &EntryPointModel{
		ScanID:      scanID,
		Position:    position,
		Group:       r.Group,
		Name:        r.Name,
		Module:      r.Module,
		Symbols:     string(encoded),
		Kind:        kind,
		Path:        nullable(r.Path),
		ManifestDir: nullable(r.ManifestDir),
		Origin:      nullable(r.Origin),
	}, nil
}

func (m *EntryPointModel) toRecord() (IndexRecord, error) {
	var symbols []string
	if err := json.Unmarshal([]byte(m.Symbols), &symbols); err != nil {
		return IndexRecord{}, fmt.Errorf("decode symbols of %s:%s: %w", m.Group, m.Name, err)
	}
	return IndexRecord{
		Group:       m.Group,
		Name:        m.Name,
		Module:      m.Module,
		Symbols:     symbols,
		Kind:        m.Kind,
		Path:        deref(m.Path),
		ManifestDir: deref(m.ManifestDir),
		Origin:      deref(m.Origin),
	}, nil
}

func (m *ScanModel) toScan() *Scan {
	return &Scan{
		ID:         m.ID,
		GUID:       m.GUID,
		CreatedAt:  time.Unix(m.CreatedAt, 0),
		EntryCount: m.EntryCount,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
