package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMigrationsDir(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestMigrationsPairUpWithDown(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		require.NoError(t, err)
		txt := string(raw)

		// Every CREATE TABLE must have a matching DROP in the Down half.
		downIdx := strings.Index(txt, "-- +goose Down")
		require.Greater(t, downIdx, 0, e.Name())
		up, down := txt[:downIdx], txt[downIdx:]
		creates := strings.Count(up, "CREATE TABLE")
		drops := strings.Count(down, "DROP TABLE")
		assert.Equal(t, creates, drops, "%s: CREATE TABLE/DROP TABLE mismatch", e.Name())
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Loyalty Points!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_loyalty_points.sql"))

	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "")
	require.Error(t, err)
}
