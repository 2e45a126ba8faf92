package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/schoolrecords/internal/app/models"
	appRepos "github.com/yigit/schoolrecords/internal/app/repositories"
)

// DefaultFaculties are created on an empty store when seeding is enabled
var DefaultFaculties = []appModels.Faculty{
	{Name: "Gryffindor", Color: "red"},
	{Name: "Hufflepuff", Color: "yellow"},
	{Name: "Ravenclaw", Color: "blue"},
	{Name: "Slytherin", Color: "green"},
}

// CreateDefaultData creates the default faculties if no faculty exists yet.
// It reports how many faculties were created.
func CreateDefaultData(ctx context.Context, facultyRepo appRepos.FacultyRepository, lgr zerolog.Logger) (int, error) {
	lgr.Info().Msg("Checking/Creating default data (Faculties)...")

	_, total, err := facultyRepo.List(ctx, 0, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to count faculties: %w", err)
	}
	if total > 0 {
		lgr.Info().Int64("faculties", total).Msg("Faculties already present, skipping default data")
		return 0, nil
	}

	created := 0
	var finalErr error // To collect potential errors without stopping the process
	for _, f := range DefaultFaculties {
		faculty := f
		if err := facultyRepo.Create(ctx, &faculty); err != nil {
			lgr.Error().Err(err).Str("name", faculty.Name).Msg("Error creating default faculty")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Default data check/creation finished")
	return created, finalErr
}
