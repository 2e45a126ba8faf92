package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/pkg/helpers"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

var studentColumns = []string{"id", "name", "age", "faculty_id", "faculty_name", "faculty_color"}

// PostgresStudentRepository handles student database operations.
// The faculty snapshot lives in the faculty_* columns of the students table.
type PostgresStudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new PostgresStudentRepository
func NewStudentRepository(db *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// studentScanner is satisfied by pgx.Row and pgx.Rows
type studentScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row studentScanner) (*models.Student, error) {
	var (
		student      models.Student
		facultyID    sql.NullInt64
		facultyName  sql.NullString
		facultyColor sql.NullString
	)
	if err := row.Scan(&student.ID, &student.Name, &student.Age, &facultyID, &facultyName, &facultyColor); err != nil {
		return nil, err
	}
	if facultyID.Valid {
		student.Faculty = &models.Faculty{
			ID:    facultyID.Int64,
			Name:  facultyName.String,
			Color: facultyColor.String,
		}
	}
	return &student, nil
}

// snapshotValues returns the faculty_* column values for a student
func snapshotValues(student *models.Student) (sql.NullInt64, sql.NullString, sql.NullString) {
	if student.Faculty == nil {
		return sql.NullInt64{}, sql.NullString{}, sql.NullString{}
	}
	return sql.NullInt64{Int64: student.Faculty.ID, Valid: true},
		helpers.GetNullString(&student.Faculty.Name),
		helpers.GetNullString(&student.Faculty.Color)
}

// Create inserts a new student; the database assigns the id
func (r *PostgresStudentRepository) Create(ctx context.Context, student *models.Student) error {
	facultyID, facultyName, facultyColor := snapshotValues(student)
	query, args, err := r.sb.Insert("students").
		Columns("name", "age", "faculty_id", "faculty_name", "faculty_color").
		Values(student.Name, student.Age, facultyID, facultyName, facultyColor).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("name", student.Name).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	student.ID = id
	return nil
}

// GetByID retrieves a student by ID
func (r *PostgresStudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// Update replaces name, age and faculty snapshot of an existing student
func (r *PostgresStudentRepository) Update(ctx context.Context, student *models.Student) error {
	facultyID, facultyName, facultyColor := snapshotValues(student)
	query, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":          student.Name,
			"age":           student.Age,
			"faculty_id":    facultyID,
			"faculty_name":  facultyName,
			"faculty_color": facultyColor,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a student and returns the removed row
func (r *PostgresStudentRepository) Delete(ctx context.Context, id int64) (*models.Student, error) {
	query, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, age, faculty_id, faculty_name, faculty_color").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return nil, fmt.Errorf("failed to build delete student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return nil, fmt.Errorf("error deleting student: %w", err)
	}

	return student, nil
}

// Exists reports whether a student with the id is stored
func (r *PostgresStudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query, args, err := existsQuery(r.sb, "students", id).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student exists SQL")
		return false, fmt.Errorf("failed to build student existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}

	return exists, nil
}

// List returns one page of students and the total number of students
func (r *PostgresStudentRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	stats, err := r.Stats(ctx)
	if err != nil {
		return nil, 0, err
	}

	students, err := r.query(ctx, r.selectStudents().Offset(offset).Limit(uint64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return students, stats.Count, nil
}

// FindAll retrieves all students
func (r *PostgresStudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents())
}

// FindByAge retrieves students of exactly the given age
func (r *PostgresStudentRepository) FindByAge(ctx context.Context, age int) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().Where(squirrel.Eq{"age": age}))
}

// FindByAgeBetween retrieves students with minAge <= age <= maxAge
func (r *PostgresStudentRepository) FindByAgeBetween(ctx context.Context, minAge, maxAge int) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().Where(squirrel.And{
		squirrel.GtOrEq{"age": minAge},
		squirrel.LtOrEq{"age": maxAge},
	}))
}

// FindByFacultyID retrieves students whose faculty snapshot has the given id
func (r *PostgresStudentRepository) FindByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().Where(squirrel.Eq{"faculty_id": facultyID}))
}

// Stats returns the number of students and their average age
func (r *PostgresStudentRepository) Stats(ctx context.Context) (*models.StudentStats, error) {
	query, args, err := r.statsQuery().ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student stats SQL")
		return nil, fmt.Errorf("failed to build student stats query: %w", err)
	}

	stats := &models.StudentStats{}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.Count, &stats.AverageAge); err != nil {
		logger.Error().Err(err).Msg("Error executing student stats query")
		return nil, fmt.Errorf("error computing student stats: %w", err)
	}

	return stats, nil
}

// FindLatest retrieves the most recently created students
func (r *PostgresStudentRepository) FindLatest(ctx context.Context, limit int) ([]*models.Student, error) {
	return r.query(ctx, r.latestQuery(limit))
}

func (r *PostgresStudentRepository) statsQuery() squirrel.SelectBuilder {
	return r.sb.Select("COUNT(*)", "COALESCE(AVG(age), 0)::float8").From("students")
}

func (r *PostgresStudentRepository) latestQuery(limit int) squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).
		From("students").
		OrderBy("id DESC").
		Limit(uint64(limit))
}

func (r *PostgresStudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).From("students").OrderBy("id ASC")
}

func (r *PostgresStudentRepository) query(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.Student, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building students SQL")
		return nil, fmt.Errorf("failed to build students query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}
