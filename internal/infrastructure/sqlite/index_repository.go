package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/entrypoints/internal/log"
)

// ErrNoScan is returned when the index has never been built.
var ErrNoScan = errors.New("entry point index is empty: run 'entrypoints index'")

const entryPointColumns = `id, scan_id, position, grp, name, module, symbols, kind, path, manifest_dir, origin`

// IndexRepository reads and writes the entry point index.
type IndexRepository struct {
	db  *sql.DB
	now func() time.Time
}

func newIndexRepository(db *sql.DB) *IndexRepository {
	return &IndexRepository{db: db, now: time.Now}
}

func scanEntryPoint(scanner interface{ Scan(...any) error }) (*EntryPointModel, error) {
	var model EntryPointModel
	err := scanner.Scan(
		&model.ID, &model.ScanID, &model.Position, &model.Group, &model.Name,
		&model.Module, &model.Symbols, &model.Kind,
		&model.Path, &model.ManifestDir, &model.Origin,
	)
	return &model, err
}

// Replace discards the current index and writes records as a new scan in one
// transaction. Record order is preserved.
func (r *IndexRepository) Replace(records []IndexRecord) (*Scan, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM index_scans`); err != nil {
		return nil, fmt.Errorf("failed to clear index: %w", err)
	}

	scan := ScanModel{
		GUID:       uuid.NewString(),
		CreatedAt:  r.now().Unix(),
		EntryCount: len(records),
	}
	result, err := tx.Exec(
		`INSERT INTO index_scans (guid, created_at, entry_count) VALUES (?, ?, ?)`,
		scan.GUID, scan.CreatedAt, scan.EntryCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scan: %w", err)
	}
	scan.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO entry_points (scan_id, position, grp, name, module, symbols, kind, path, manifest_dir, origin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		model, err := toEntryPointModel(scan.ID, i, rec)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.Exec(
			model.ScanID, model.Position, model.Group, model.Name, model.Module,
			model.Symbols, model.Kind, model.Path, model.ManifestDir, model.Origin,
		); err != nil {
			return nil, fmt.Errorf("failed to insert entry point %s:%s: %w", rec.Group, rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit index: %w", err)
	}

	log.Info(log.CatIndex, "index rebuilt", "scan", scan.GUID, "entries", scan.EntryCount)
	return scan.toScan(), nil
}

// LatestScan returns the current scan, or ErrNoScan.
func (r *IndexRepository) LatestScan() (*Scan, error) {
	var model ScanModel
	err := r.db.QueryRow(
		`SELECT id, guid, created_at, entry_count FROM index_scans ORDER BY id DESC LIMIT 1`,
	).Scan(&model.ID, &model.GUID, &model.CreatedAt, &model.EntryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoScan
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest scan: %w", err)
	}
	return model.toScan(), nil
}

// Records returns every record of scan in scan order.
func (r *IndexRepository) Records(scanID int64) ([]IndexRecord, error) {
	rows, err := r.db.Query(
		`SELECT `+entryPointColumns+` FROM entry_points WHERE scan_id = ? ORDER BY position`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []IndexRecord
	for rows.Next() {
		model, err := scanEntryPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry point: %w", err)
		}
		rec, err := model.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry points: %w", err)
	}
	return records, nil
}

// Groups returns the distinct groups of scan, sorted.
func (r *IndexRepository) Groups(scanID int64) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT DISTINCT grp FROM entry_points WHERE scan_id = ? ORDER BY grp`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	groups := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
