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

const avatarReturning = "RETURNING id, student_id, data, file_size, media_type, file_path, updated_at"

// PostgresAvatarRepository handles database operations for avatars.
// avatars.student_id is unique, so one statement both creates and replaces.
type PostgresAvatarRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAvatarRepository creates a new PostgresAvatarRepository
func NewAvatarRepository(db *pgxpool.Pool) *PostgresAvatarRepository {
	return &PostgresAvatarRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAvatar(row pgx.Row) (*models.Avatar, error) {
	var avatar models.Avatar
	err := row.Scan(
		&avatar.ID,
		&avatar.StudentID,
		&avatar.Data,
		&avatar.FileSize,
		&avatar.MediaType,
		&avatar.FilePath,
		&avatar.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &avatar, nil
}

// FindByStudentID retrieves the avatar of a student
func (r *PostgresAvatarRepository) FindByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error) {
	query, args, err := r.sb.Select("id", "student_id", "data", "file_size", "media_type", "file_path", "updated_at").
		From("avatars").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get avatar SQL")
		return nil, fmt.Errorf("failed to build get avatar query: %w", err)
	}

	avatar, err := scanAvatar(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning avatar row")
		return nil, fmt.Errorf("error getting avatar: %w", err)
	}

	return avatar, nil
}

// Upsert creates the avatar of a student or replaces the existing one in place
func (r *PostgresAvatarRepository) Upsert(ctx context.Context, avatar *models.Avatar) error {
	query, args, err := r.upsertQuery(avatar).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert avatar SQL")
		return fmt.Errorf("failed to build upsert avatar query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&avatar.ID, &avatar.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", avatar.StudentID).Msg("Error executing upsert avatar query")
		return fmt.Errorf("error saving avatar: %w", err)
	}

	return nil
}

func (r *PostgresAvatarRepository) upsertQuery(avatar *models.Avatar) squirrel.InsertBuilder {
	return r.sb.Insert("avatars").
		Columns("student_id", "data", "file_size", "media_type", "file_path", "updated_at").
		Values(avatar.StudentID, avatar.Data, avatar.FileSize, avatar.MediaType, avatar.FilePath, squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (student_id) DO UPDATE SET
			data = EXCLUDED.data,
			file_size = EXCLUDED.file_size,
			media_type = EXCLUDED.media_type,
			file_path = EXCLUDED.file_path,
			updated_at = EXCLUDED.updated_at
		RETURNING id, updated_at`)
}

// DeleteByStudentID removes the avatar of a student and returns it
func (r *PostgresAvatarRepository) DeleteByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error) {
	query, args, err := r.sb.Delete("avatars").
		Where(squirrel.Eq{"student_id": studentID}).
		Suffix(avatarReturning).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete avatar SQL")
		return nil, fmt.Errorf("failed to build delete avatar query: %w", err)
	}

	avatar, err := scanAvatar(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing delete avatar query")
		return nil, fmt.Errorf("error deleting avatar: %w", err)
	}

	return avatar, nil
}
