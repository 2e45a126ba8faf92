package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

// FacultyResolver turns a faculty reference on a student write into the
// faculty snapshot that gets stored with the student.
type FacultyResolver struct {
	facultyRepo repositories.FacultyRepository
}

// NewFacultyResolver creates a new FacultyResolver
func NewFacultyResolver(facultyRepo repositories.FacultyRepository) *FacultyResolver {
	return &FacultyResolver{facultyRepo: facultyRepo}
}

// Resolve returns nil for an empty reference, the current faculty record for
// a resolvable one and ErrFacultyReferenceNotFound otherwise.
func (r *FacultyResolver) Resolve(ctx context.Context, ref models.FacultyRef) (*models.Faculty, error) {
	id, ok := ref.Get()
	if !ok {
		return nil, nil
	}

	faculty, err := r.facultyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn().Int64("facultyID", id).Msg("Student references unknown faculty")
			return nil, apperrors.FacultyReferenceNotFound(id)
		}
		return nil, fmt.Errorf("error resolving faculty reference: %w", err)
	}
	return faculty, nil
}
