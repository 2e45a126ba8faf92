package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolrecords/internal/app/models"
)

func TestExistsQuery(t *testing.T) {
	faculties := NewFacultyRepository(nil)

	tests := []struct {
		name  string
		table string
		id    int64
		want  string
	}{
		{"faculty", "faculties", 3, "SELECT EXISTS ( SELECT 1 FROM faculties WHERE id = $1 LIMIT 1 )"},
		{"student", "students", 9, "SELECT EXISTS ( SELECT 1 FROM students WHERE id = $1 LIMIT 1 )"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := existsQuery(faculties.sb, tt.table, tt.id).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, []interface{}{tt.id}, args)
		})
	}
}

func TestFacultyColorOrNameQuery(t *testing.T) {
	repo := NewFacultyRepository(nil)

	sql, args, err := repo.selectFaculties().Where(colorOrNameCondition("Red")).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM faculties WHERE")
	assert.Contains(t, sql, "LOWER(color) = LOWER($1) OR LOWER(name) = LOWER($2)")
	assert.Contains(t, sql, "ORDER BY id ASC")
	assert.Equal(t, []interface{}{"Red", "Red"}, args)
}

func TestStudentStatsAndLatestQueries(t *testing.T) {
	repo := NewStudentRepository(nil)

	sql, args, err := repo.statsQuery().ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*), COALESCE(AVG(age), 0)::float8 FROM students", sql)
	assert.Empty(t, args)

	sql, _, err = repo.latestQuery(5).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM students ORDER BY id DESC LIMIT 5")
}

func TestAvatarUpsertQuery(t *testing.T) {
	repo := NewAvatarRepository(nil)
	avatar := &models.Avatar{
		StudentID: 4,
		Data:      []byte{0x89, 'P', 'N', 'G'},
		FileSize:  4,
		MediaType: "image/png",
		FilePath:  "/tmp/a.png",
	}

	sql, args, err := repo.upsertQuery(avatar).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO avatars (student_id,data,file_size,media_type,file_path,updated_at) VALUES ($1,$2,$3,$4,$5,NOW())")
	assert.Contains(t, sql, "ON CONFLICT (student_id) DO UPDATE SET")
	assert.Contains(t, sql, "RETURNING id, updated_at")
	assert.Equal(t, []interface{}{int64(4), avatar.Data, int64(4), "image/png", "/tmp/a.png"}, args)
}

func TestSnapshotValues(t *testing.T) {
	id, name, color := snapshotValues(&models.Student{Name: "Luna"})
	assert.False(t, id.Valid)
	assert.False(t, name.Valid)
	assert.False(t, color.Valid)

	id, name, color = snapshotValues(&models.Student{
		Name:    "Harry",
		Faculty: &models.Faculty{ID: 1, Name: "Gryffindor", Color: "red"},
	})
	assert.Equal(t, int64(1), id.Int64)
	assert.Equal(t, "Gryffindor", name.String)
	assert.Equal(t, "red", color.String)
}
