package sqlite

import (
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/require"
)

func TestMigrateDriver_Lock(t *testing.T) {
	d := newMigrateDriver(newTestDB(t).conn)

	require.NoError(t, d.Lock())
	require.ErrorIs(t, d.Lock(), database.ErrLocked)
	require.NoError(t, d.Unlock())
	require.ErrorIs(t, d.Unlock(), database.ErrNotLocked)
}

func TestMigrateDriver_Version(t *testing.T) {
	d := newMigrateDriver(newTestDB(t).conn)

	version, dirty, err := d.Version()
	require.NoError(t, err)
	require.Equal(t, 1, version)
	require.False(t, dirty)

	require.NoError(t, d.SetVersion(2, true))
	version, dirty, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, 2, version)
	require.True(t, dirty)

	require.NoError(t, d.SetVersion(database.NilVersion, false))
	version, _, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, database.NilVersion, version)
}

func TestMigrateDriver_RunAndDrop(t *testing.T) {
	db := newTestDB(t)
	d := newMigrateDriver(db.conn)

	require.NoError(t, d.Run(strings.NewReader("CREATE TABLE extra (id INTEGER); CREATE TABLE extra2 (id INTEGER);")))

	err := d.Run(strings.NewReader("CREATE TABLE broken ("))
	var dbErr *database.Error
	require.ErrorAs(t, err, &dbErr)

	require.NoError(t, d.Drop())
	var count int
	require.NoError(t, db.conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&count))
	require.Zero(t, count)
}
