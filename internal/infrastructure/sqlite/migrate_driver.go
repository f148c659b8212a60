package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

const schemaTable = "schema_migrations"

// migrateDriver is a golang-migrate database driver over an open *sql.DB using
// the ncruces sqlite3 driver. It does not own the connection: Close is a no-op.
type migrateDriver struct {
	conn   *sql.DB
	locked atomic.Bool
}

var _ database.Driver = (*migrateDriver)(nil)

func newMigrateDriver(conn *sql.DB) *migrateDriver {
	return &migrateDriver{conn: conn}
}

func (d *migrateDriver) ensureSchemaTable() error {
	_, err := d.conn.Exec(`CREATE TABLE IF NOT EXISTS ` + schemaTable + ` (
		version INTEGER NOT NULL,
		dirty   INTEGER NOT NULL
	)`)
	return err
}

// Open is unsupported: the driver is always built from an existing connection.
func (d *migrateDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("sqlite migrate driver: open by url is not supported")
}

func (d *migrateDriver) Close() error {
	return nil
}

func (d *migrateDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *migrateDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

func (d *migrateDriver) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	if _, err := d.conn.Exec(string(body)); err != nil {
		return &database.Error{OrigErr: err, Err: "migration failed", Query: body}
	}
	return nil
}

func (d *migrateDriver) SetVersion(version int, dirty bool) error {
	if err := d.ensureSchemaTable(); err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin version transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM ` + schemaTable); err != nil {
		return err
	}
	// NilVersion is only recorded when dirty, as golang-migrate's own drivers do.
	if version >= 0 || (version == database.NilVersion && dirty) {
		if _, err := tx.Exec(`INSERT INTO `+schemaTable+` (version, dirty) VALUES (?, ?)`, version, dirty); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *migrateDriver) Version() (version int, dirty bool, err error) {
	if err := d.ensureSchemaTable(); err != nil {
		return database.NilVersion, false, err
	}

	err = d.conn.QueryRow(`SELECT version, dirty FROM `+schemaTable+` LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return database.NilVersion, false, nil
	}
	if err != nil {
		return database.NilVersion, false, err
	}
	return version, dirty, nil
}

func (d *migrateDriver) Drop() error {
	rows, err := d.conn.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, name := range tables {
		if _, err := d.conn.Exec(`DROP TABLE IF EXISTS "` + name + `"`); err != nil {
			return err
		}
	}
	return nil
}
