package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrationFiles(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644)
		require.NoError(t, err)
	}
	return dir
}

func TestListUpMigrationsOrdersAndFilters(t *testing.T) {
	dir := writeMigrationFiles(t,
		"000002_create_elections.up.sql",
		"000001_create_users.up.sql",
		"000001_create_users.down.sql",
		"notes.txt",
	)

	files, err := listUpMigrations(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_users.up.sql",
		"000002_create_elections.up.sql",
	}, files)
}

func TestFindMigrationByFragment(t *testing.T) {
	dir := writeMigrationFiles(t,
		"000001_create_users.up.sql",
		"000002_create_elections.up.sql",
	)

	file, err := findMigration(dir, "create_elections")
	require.NoError(t, err)
	assert.Equal(t, "000002_create_elections.up.sql", file)

	file, err = findMigration(dir, "000001")
	require.NoError(t, err)
	assert.Equal(t, "000001_create_users.up.sql", file)
}

func TestFindMigrationUnknownName(t *testing.T) {
	dir := writeMigrationFiles(t, "000001_create_users.up.sql")

	_, err := findMigration(dir, "does_not_exist")

	assert.Error(t, err)
}
