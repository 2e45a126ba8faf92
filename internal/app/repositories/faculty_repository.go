package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

var facultyColumns = []string{"id", "name", "color"}

// PostgresFacultyRepository handles faculty database operations
type PostgresFacultyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new PostgresFacultyRepository
func NewFacultyRepository(db *pgxpool.Pool) *PostgresFacultyRepository {
	return &PostgresFacultyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new faculty; the database assigns the id
func (r *PostgresFacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := r.sb.Insert("faculties").
		Columns("name", "color").
		Values(faculty.Name, faculty.Color).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create faculty SQL")
		return fmt.Errorf("failed to build create faculty query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return fmt.Errorf("error creating faculty: %w", err)
	}

	faculty.ID = id
	return nil
}

// GetByID retrieves a faculty by ID
func (r *PostgresFacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.sb.Select(facultyColumns...).
		From("faculties").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get faculty by ID SQL")
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}

	faculty := &models.Faculty{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID, &faculty.Name, &faculty.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error getting faculty by ID: %w", err)
	}

	return faculty, nil
}

// Update replaces name and color of an existing faculty
func (r *PostgresFacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := r.sb.Update("faculties").
		SetMap(map[string]interface{}{
			"name":  faculty.Name,
			"color": faculty.Color,
		}).
		Where(squirrel.Eq{"id": faculty.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update faculty SQL")
		return fmt.Errorf("failed to build update faculty query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Error executing update faculty query")
		return fmt.Errorf("error updating faculty: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a faculty and returns the removed row.
// Students keep their faculty snapshot.
func (r *PostgresFacultyRepository) Delete(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.sb.Delete("faculties").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, color").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete faculty SQL")
		return nil, fmt.Errorf("failed to build delete faculty query: %w", err)
	}

	faculty := &models.Faculty{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID, &faculty.Name, &faculty.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error executing delete faculty query")
		return nil, fmt.Errorf("error deleting faculty: %w", err)
	}

	return faculty, nil
}

// Exists reports whether a faculty with the id is stored
func (r *PostgresFacultyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := existsQuery(r.sb, "faculties", id).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building faculty exists SQL")
		return false, fmt.Errorf("failed to build faculty existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error checking faculty existence")
		return false, fmt.Errorf("error checking faculty existence: %w", err)
	}

	return exists, nil
}

// List returns one page of faculties and the total number of faculties
func (r *PostgresFacultyRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Faculty, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("faculties").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count faculties query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting faculties")
		return nil, 0, fmt.Errorf("error counting faculties: %w", err)
	}

	faculties, err := r.query(ctx, r.selectFaculties().Offset(offset).Limit(uint64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return faculties, total, nil
}

// FindAll retrieves all faculties
func (r *PostgresFacultyRepository) FindAll(ctx context.Context) ([]*models.Faculty, error) {
	return r.query(ctx, r.selectFaculties())
}

// FindByColor retrieves faculties whose color matches exactly
func (r *PostgresFacultyRepository) FindByColor(ctx context.Context, color string) ([]*models.Faculty, error) {
	return r.query(ctx, r.selectFaculties().Where(squirrel.Eq{"color": color}))
}

// FindByColorOrName retrieves faculties whose color or name equals term, ignoring case
func (r *PostgresFacultyRepository) FindByColorOrName(ctx context.Context, term string) ([]*models.Faculty, error) {
	return r.query(ctx, r.selectFaculties().Where(colorOrNameCondition(term)))
}

func colorOrNameCondition(term string) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Expr("LOWER(color) = LOWER(?)", term),
		squirrel.Expr("LOWER(name) = LOWER(?)", term),
	}
}

func (r *PostgresFacultyRepository) selectFaculties() squirrel.SelectBuilder {
	return r.sb.Select(facultyColumns...).From("faculties").OrderBy("id ASC")
}

func (r *PostgresFacultyRepository) query(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.Faculty, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building faculties SQL")
		return nil, fmt.Errorf("failed to build faculties query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing faculties query")
		return nil, fmt.Errorf("error querying faculties: %w", err)
	}
	defer rows.Close()

	faculties := []*models.Faculty{}
	for rows.Next() {
		faculty := &models.Faculty{}
		if err := rows.Scan(&faculty.ID, &faculty.Name, &faculty.Color); err != nil {
			logger.Error().Err(err).Msg("Error scanning faculty row")
			return nil, fmt.Errorf("error scanning faculty row: %w", err)
		}
		faculties = append(faculties, faculty)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating faculty rows")
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}

	return faculties, nil
}
