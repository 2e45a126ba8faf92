package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
	"github.com/yigit/schoolrecords/internal/pkg/helpers"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

const (
	DefaultLatestLimit = 5
	MaxLatestLimit     = 100
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, input models.StudentInput) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	ListStudents(ctx context.Context, page, size int) (*dto.PaginatedResponse, error)
	FilterByAge(ctx context.Context, age int) ([]*models.Student, error)
	FilterByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.Student, error)
	FindByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error)
	GetStudentFaculty(ctx context.Context, id int64) (*models.Faculty, error)
	Stats(ctx context.Context) (*models.StudentStats, error)
	LatestStudents(ctx context.Context, limit int) ([]*models.Student, error)
	NamesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo repositories.StudentRepository
	resolver    *FacultyResolver
	avatars     AvatarService
	locker      keylock.Locker
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo repositories.StudentRepository,
	resolver *FacultyResolver,
	avatars AvatarService,
	locker keylock.Locker,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		resolver:    resolver,
		avatars:     avatars,
		locker:      locker,
	}
}

func validateStudentInput(input models.StudentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if input.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative", apperrors.ErrValidationFailed)
	}
	return nil
}

// withFacultyLock holds the lock of the referenced faculty, if any, so the
// faculty cannot disappear between resolution and the student write.
func (s *studentServiceImpl) withFacultyLock(ctx context.Context, ref models.FacultyRef, fn func() error) error {
	id, ok := ref.Get()
	if !ok {
		return fn()
	}
	return withLock(ctx, s.locker, keylock.FacultyKey(id), fn)
}

// CreateStudent resolves the faculty reference and stores a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	logger.Debug().Str("name", input.Name).Msg("CreateStudent invoked")
	if err := validateStudentInput(input); err != nil {
		return nil, err
	}

	student := &models.Student{Name: input.Name, Age: input.Age}
	err := s.withFacultyLock(ctx, input.Faculty, func() error {
		faculty, err := s.resolver.Resolve(ctx, input.Faculty)
		if err != nil {
			return err
		}
		student.Faculty = faculty
		return s.studentRepo.Create(ctx, student)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrFacultyReferenceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	logger.Debug().Int64("studentID", id).Msg("GetStudentByID invoked")
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "error retrieving student")
	}
	return student, nil
}

// UpdateStudent replaces name, age and faculty snapshot of the student with the given id
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error) {
	logger.Debug().Int64("studentID", id).Msg("UpdateStudent invoked")
	if err := validateStudentInput(input); err != nil {
		return nil, err
	}

	student := &models.Student{ID: id, Name: input.Name, Age: input.Age}
	err := withLock(ctx, s.locker, keylock.StudentKey(id), func() error {
		exists, err := s.studentRepo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return repositories.ErrNotFound
		}

		return s.withFacultyLock(ctx, input.Faculty, func() error {
			faculty, err := s.resolver.Resolve(ctx, input.Faculty)
			if err != nil {
				return err
			}
			student.Faculty = faculty
			return s.studentRepo.Update(ctx, student)
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrFacultyReferenceNotFound) {
			return nil, err
		}
		return nil, s.translate(err, id, "error updating student")
	}
	return student, nil
}

// DeleteStudent removes a student together with its avatar
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) (*models.Student, error) {
	logger.Debug().Int64("studentID", id).Msg("DeleteStudent invoked")
	var removed *models.Student
	err := withLock(ctx, s.locker, keylock.StudentKey(id), func() error {
		var err error
		removed, err = s.studentRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		return s.avatars.RemoveForStudent(ctx, id)
	})
	if err != nil {
		if removed != nil {
			// The student is gone; a leftover avatar is only logged.
			logger.Error().Err(err).Int64("studentID", id).Msg("Failed to remove avatar of deleted student")
			return removed, nil
		}
		return nil, s.translate(err, id, "error deleting student")
	}
	return removed, nil
}

// GetAllStudents retrieves all students
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// ListStudents returns one 1-based page of students
func (s *studentServiceImpl) ListStudents(ctx context.Context, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.studentRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return &dto.PaginatedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// FilterByAge returns students of exactly the given age
func (s *studentServiceImpl) FilterByAge(ctx context.Context, age int) ([]*models.Student, error) {
	students, err := s.studentRepo.FindByAge(ctx, age)
	if err != nil {
		return nil, fmt.Errorf("error filtering students by age: %w", err)
	}
	return students, nil
}

// FilterByAgeRange returns students with minAge <= age <= maxAge.
// minAge > maxAge yields an empty list.
func (s *studentServiceImpl) FilterByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.Student, error) {
	if minAge > maxAge {
		return []*models.Student{}, nil
	}
	students, err := s.studentRepo.FindByAgeBetween(ctx, minAge, maxAge)
	if err != nil {
		return nil, fmt.Errorf("error filtering students by age range: %w", err)
	}
	return students, nil
}

// FindByFacultyID returns students whose faculty snapshot carries facultyID.
// The faculty itself is not looked up.
func (s *studentServiceImpl) FindByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error) {
	students, err := s.studentRepo.FindByFacultyID(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students of faculty: %w", err)
	}
	return students, nil
}

// GetStudentFaculty returns the faculty snapshot of a student, which may be nil
func (s *studentServiceImpl) GetStudentFaculty(ctx context.Context, id int64) (*models.Faculty, error) {
	student, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return student.Faculty, nil
}

// Stats returns the number of students and their average age
func (s *studentServiceImpl) Stats(ctx context.Context) (*models.StudentStats, error) {
	stats, err := s.studentRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing student stats: %w", err)
	}
	return stats, nil
}

// LatestStudents returns the most recently created students, newest first
func (s *studentServiceImpl) LatestStudents(ctx context.Context, limit int) ([]*models.Student, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	if limit > MaxLatestLimit {
		limit = MaxLatestLimit
	}
	students, err := s.studentRepo.FindLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving latest students: %w", err)
	}
	return students, nil
}

// NamesWithPrefix returns the upper-cased names starting with prefix, ignoring case, sorted
func (s *studentServiceImpl) NamesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}

	upperPrefix := strings.ToUpper(prefix)
	names := make([]string, 0, len(students))
	for _, student := range students {
		name := strings.ToUpper(student.Name)
		if strings.HasPrefix(name, upperPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *studentServiceImpl) translate(err error, id int64, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Warn().Int64("studentID", id).Msg("Student not found")
		return apperrors.StudentNotFound(id)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
