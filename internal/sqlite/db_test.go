package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"projects",
		"profiles",
		"project_members",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsAreIdempotent verifies migrations can run twice
func TestMigrationsAreIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestMemberRowsCascadeOnProjectDelete verifies membership cleanup
func TestMemberRowsCascadeOnProjectDelete(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, owner_id, name) VALUES ('p1', 'u1', 'Test')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO project_members (project_id, user_id, role) VALUES ('p1', 'u2', 'editor')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM project_members WHERE project_id = 'p1'`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "membership rows should cascade")
}

// TestRoleConstraint verifies the role CHECK constraint
func TestRoleConstraint(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, owner_id, name) VALUES ('p1', 'u1', 'Test')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO project_members (project_id, user_id, role) VALUES ('p1', 'u2', 'superuser')`)
	require.Error(t, err, "unknown role should violate the check constraint")
}
