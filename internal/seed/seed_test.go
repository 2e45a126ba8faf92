package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/repositories/memory"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFacultyRepository()

	created, err := CreateDefaultData(ctx, repo, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultFaculties), created)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(DefaultFaculties))
	assert.Equal(t, "Gryffindor", all[0].Name)

	created, err = CreateDefaultData(ctx, repo, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, created, "seeding twice is a no-op")
}

func TestCreateDefaultDataSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFacultyRepository()
	require.NoError(t, repo.Create(ctx, &models.Faculty{Name: "Custom", Color: "pink"}))

	created, err := CreateDefaultData(ctx, repo, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, created)
}
