package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
	"github.com/yigit/schoolrecords/internal/pkg/helpers"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

// FacultyService defines the interface for faculty-related operations
type FacultyService interface {
	CreateFaculty(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error)
	GetFacultyByID(ctx context.Context, id int64) (*models.Faculty, error)
	UpdateFaculty(ctx context.Context, id int64, faculty *models.Faculty) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, id int64) (*models.Faculty, error)
	GetAllFaculties(ctx context.Context) ([]*models.Faculty, error)
	ListFaculties(ctx context.Context, page, size int) (*dto.PaginatedResponse, error)
	FilterByColor(ctx context.Context, color string) ([]*models.Faculty, error)
	FilterByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error)
	LongestName(ctx context.Context) (string, error)
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo repositories.FacultyRepository
	locker      keylock.Locker
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(facultyRepo repositories.FacultyRepository, locker keylock.Locker) FacultyService {
	return &facultyServiceImpl{
		facultyRepo: facultyRepo,
		locker:      locker,
	}
}

// validateFaculty validates faculty data before store operations
func (s *facultyServiceImpl) validateFaculty(faculty *models.Faculty) error {
	if faculty == nil {
		return fmt.Errorf("%w: faculty is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(faculty.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(faculty.Color) == "" {
		return fmt.Errorf("%w: color cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateFaculty stores a new faculty under a fresh id
func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	if err := s.validateFaculty(faculty); err != nil {
		return nil, err
	}
	logger.Debug().Str("name", faculty.Name).Msg("CreateFaculty invoked")

	created := faculty.Clone()
	created.ID = 0
	if err := s.facultyRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("error creating faculty: %w", err)
	}
	return created, nil
}

// GetFacultyByID retrieves a faculty by ID
func (s *facultyServiceImpl) GetFacultyByID(ctx context.Context, id int64) (*models.Faculty, error) {
	logger.Debug().Int64("facultyID", id).Msg("GetFacultyByID invoked")
	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "error retrieving faculty")
	}
	return faculty, nil
}

// UpdateFaculty replaces name and color of the faculty with the given id.
// The id inside faculty is ignored.
func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, id int64, faculty *models.Faculty) (*models.Faculty, error) {
	logger.Debug().Int64("facultyID", id).Msg("UpdateFaculty invoked")
	if err := s.validateFaculty(faculty); err != nil {
		return nil, err
	}

	updated := faculty.Clone()
	updated.ID = id
	err := withLock(ctx, s.locker, keylock.FacultyKey(id), func() error {
		return s.facultyRepo.Update(ctx, updated)
	})
	if err != nil {
		return nil, s.translate(err, id, "error updating faculty")
	}
	return updated, nil
}

// DeleteFaculty removes a faculty. Students keep their faculty snapshot.
func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, id int64) (*models.Faculty, error) {
	logger.Debug().Int64("facultyID", id).Msg("DeleteFaculty invoked")
	var removed *models.Faculty
	err := withLock(ctx, s.locker, keylock.FacultyKey(id), func() error {
		var err error
		removed, err = s.facultyRepo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.translate(err, id, "error deleting faculty")
	}
	return removed, nil
}

// GetAllFaculties retrieves all faculties
func (s *facultyServiceImpl) GetAllFaculties(ctx context.Context) ([]*models.Faculty, error) {
	faculties, err := s.facultyRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculties: %w", err)
	}
	return faculties, nil
}

// ListFaculties returns one 1-based page of faculties
func (s *facultyServiceImpl) ListFaculties(ctx context.Context, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	faculties, total, err := s.facultyRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing faculties: %w", err)
	}
	return &dto.PaginatedResponse{
		Items:      faculties,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// FilterByColor returns faculties whose color equals color exactly
func (s *facultyServiceImpl) FilterByColor(ctx context.Context, color string) ([]*models.Faculty, error) {
	faculties, err := s.facultyRepo.FindByColor(ctx, color)
	if err != nil {
		return nil, fmt.Errorf("error filtering faculties by color: %w", err)
	}
	return faculties, nil
}

// FilterByColorOrName returns faculties whose color or name equals term, ignoring case
func (s *facultyServiceImpl) FilterByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error) {
	faculties, err := s.facultyRepo.FindByColorOrName(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("error filtering faculties by color or name: %w", err)
	}
	return faculties, nil
}

// LongestName returns the faculty name with the most characters.
// On a tie the faculty with the lowest id wins.
func (s *facultyServiceImpl) LongestName(ctx context.Context) (string, error) {
	faculties, err := s.facultyRepo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("error retrieving faculties: %w", err)
	}
	if len(faculties) == 0 {
		return "", apperrors.NewCustomError(apperrors.ErrFacultyNotFound, "no faculties stored")
	}

	longest := faculties[0].Name
	for _, f := range faculties[1:] {
		if utf8.RuneCountInString(f.Name) > utf8.RuneCountInString(longest) {
			longest = f.Name
		}
	}
	return longest, nil
}

func (s *facultyServiceImpl) translate(err error, id int64, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Warn().Int64("facultyID", id).Msg("Faculty not found")
		return apperrors.FacultyNotFound(id)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
