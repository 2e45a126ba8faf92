package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
)

// ErrNotFound is returned by every store when the requested record does not exist.
var ErrNotFound = apperrors.ErrResourceNotFound

// FacultyRepository stores faculties keyed by a store-assigned id.
// Multi-record results are ordered by ascending id.
type FacultyRepository interface {
	// Create ignores faculty.ID, assigns a fresh one and writes it back.
	Create(ctx context.Context, faculty *models.Faculty) error
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	// Update replaces the mutable fields of the faculty with faculty.ID.
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id int64) (*models.Faculty, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Faculty, int64, error)
	FindAll(ctx context.Context) ([]*models.Faculty, error)
	FindByColor(ctx context.Context, color string) ([]*models.Faculty, error)
	FindByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error)
}

// StudentRepository stores students together with their faculty snapshot.
// Multi-record results are ordered by ascending id unless stated otherwise.
type StudentRepository interface {
	// Create ignores student.ID, assigns a fresh one and writes it back.
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	// Update replaces name, age and faculty snapshot of the student with student.ID.
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) (*models.Student, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error)
	FindAll(ctx context.Context) ([]*models.Student, error)
	FindByAge(ctx context.Context, age int) ([]*models.Student, error)
	// FindByAgeBetween is inclusive on both bounds.
	FindByAgeBetween(ctx context.Context, minAge, maxAge int) ([]*models.Student, error)
	FindByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error)
	Stats(ctx context.Context) (*models.StudentStats, error)
	// FindLatest returns up to limit students, highest id first.
	FindLatest(ctx context.Context, limit int) ([]*models.Student, error)
}

// AvatarRepository stores at most one avatar per student.
type AvatarRepository interface {
	FindByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error)
	// Upsert creates or replaces the avatar of avatar.StudentID and sets avatar.ID.
	Upsert(ctx context.Context, avatar *models.Avatar) error
	DeleteByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error)
}

// existsQuery selects whether a row with the id is present in table
func existsQuery(sb squirrel.StatementBuilderType, table string, id int64) squirrel.SelectBuilder {
	return sb.Select("1").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1)
}

// Repositories holds all the repository instances
type Repositories struct {
	FacultyRepository FacultyRepository
	StudentRepository StudentRepository
	AvatarRepository  AvatarRepository
}

// NewRepositories initializes the PostgreSQL backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		FacultyRepository: NewFacultyRepository(db),
		StudentRepository: NewStudentRepository(db),
		AvatarRepository:  NewAvatarRepository(db),
	}
}
