package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingIsSortedAndEmbedded(t *testing.T) {
	files, err := Pending()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])
	assert.IsNonDecreasing(t, files)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("sql/002_add_index.sql"))
	assert.Equal(t, "003", Version("003"))
}

func TestInitMigrationDefinesTables(t *testing.T) {
	content, err := embedded.ReadFile("sql/001_init.sql")
	require.NoError(t, err)
	sql := string(content)
	for _, table := range []string{"faculties", "students", "avatars"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, sql, "student_id BIGINT NOT NULL UNIQUE")
	assert.NotContains(t, sql, "REFERENCES faculties")
}
