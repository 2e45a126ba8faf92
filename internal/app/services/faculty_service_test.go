package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
)

func TestFacultyService_CreateIgnoresCallerID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.FacultyService.CreateFaculty(ctx, &models.Faculty{ID: 99, Name: "Gryffindor", Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := env.FacultyService.GetFacultyByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestFacultyService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: " ", Color: "red"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: "Slytherin"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.NotPanics(t, func() {
		_, err = env.FacultyService.CreateFaculty(ctx, nil)
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestFacultyService_NotFoundSymmetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.FacultyService.GetFacultyByID(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrFacultyNotFound)

	_, err = env.FacultyService.UpdateFaculty(ctx, 5, &models.Faculty{Name: "x", Color: "y"})
	assert.ErrorIs(t, err, apperrors.ErrFacultyNotFound)

	_, err = env.FacultyService.DeleteFaculty(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrFacultyNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestFacultyService_UpdateUsesPathID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: "Ravenclaw", Color: "blue"})
	require.NoError(t, err)

	updated, err := env.FacultyService.UpdateFaculty(ctx, created.ID, &models.Faculty{ID: 42, Name: "Ravenclaw", Color: "bronze"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := env.FacultyService.GetFacultyByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bronze", got.Color)

	_, err = env.FacultyService.GetFacultyByID(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrFacultyNotFound)
}

func TestFacultyService_FilterByColorOrNameIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: "Gryffindor", Color: "Red"})
	require.NoError(t, err)
	_, err = env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: "Hufflepuff", Color: "yellow"})
	require.NoError(t, err)

	for _, term := range []string{"red", "RED"} {
		matches, err := env.FacultyService.FilterByColorOrName(ctx, term)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Gryffindor", matches[0].Name)
	}

	exact, err := env.FacultyService.FilterByColor(ctx, "red")
	require.NoError(t, err)
	assert.Empty(t, exact)
}

func TestFacultyService_LongestName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.FacultyService.LongestName(ctx)
	assert.ErrorIs(t, err, apperrors.ErrFacultyNotFound)

	for _, name := range []string{"Gryffindor", "Hufflepuff", "Ravenclaw"} {
		_, err := env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: name, Color: "c"})
		require.NoError(t, err)
	}

	name, err := env.FacultyService.LongestName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Gryffindor", name, "ties go to the lowest id")
}

func TestFacultyService_ListFaculties(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := env.FacultyService.CreateFaculty(ctx, &models.Faculty{Name: name, Color: "c"})
		require.NoError(t, err)
	}

	page, err := env.FacultyService.ListFaculties(ctx, 2, 2)
	require.NoError(t, err)
	items, ok := page.Items.([]*models.Faculty)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].Name)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
}
