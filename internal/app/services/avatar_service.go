package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/repositories"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
	"github.com/yigit/schoolrecords/internal/pkg/filestorage"
	"github.com/yigit/schoolrecords/internal/pkg/keylock"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

const octetStream = "application/octet-stream"

// AvatarService defines the interface for avatar operations.
// Every avatar is kept twice: in the avatar store and as a file. The two
// copies are independent and may diverge.
type AvatarService interface {
	Upload(ctx context.Context, studentID int64, payload []byte, originalName, mediaType string) (*models.Avatar, error)
	GetFromStore(ctx context.Context, studentID int64) (*models.AvatarContent, error)
	GetFromFilesystem(ctx context.Context, studentID int64) (*models.AvatarContent, error)
	RemoveForStudent(ctx context.Context, studentID int64) error
}

// avatarServiceImpl implements the AvatarService interface
type avatarServiceImpl struct {
	avatarRepo  repositories.AvatarRepository
	studentRepo repositories.StudentRepository
	storage     filestorage.FileStorage
	locker      keylock.Locker
}

// NewAvatarService creates a new avatar service instance
func NewAvatarService(
	avatarRepo repositories.AvatarRepository,
	studentRepo repositories.StudentRepository,
	storage filestorage.FileStorage,
	locker keylock.Locker,
) AvatarService {
	return &avatarServiceImpl{
		avatarRepo:  avatarRepo,
		studentRepo: studentRepo,
		storage:     storage,
		locker:      locker,
	}
}

// detectMediaType keeps a declared media type and sniffs the payload otherwise
func detectMediaType(payload []byte, declared string) string {
	if declared != "" && declared != octetStream {
		return declared
	}
	return mimetype.Detect(payload).String()
}

// Upload stores payload as the avatar of a student, replacing any previous one.
// The student must exist before anything is written.
func (s *avatarServiceImpl) Upload(ctx context.Context, studentID int64, payload []byte, originalName, mediaType string) (*models.Avatar, error) {
	logger.Debug().Int64("studentID", studentID).Str("filename", originalName).Int("size", len(payload)).Msg("Upload avatar invoked")

	var avatar *models.Avatar
	err := withLock(ctx, s.locker, keylock.AvatarKey(studentID), func() error {
		exists, err := s.studentRepo.Exists(ctx, studentID)
		if err != nil {
			return fmt.Errorf("error checking student existence: %w", err)
		}
		if !exists {
			logger.Warn().Int64("studentID", studentID).Msg("Avatar upload for unknown student")
			return apperrors.StudentNotFound(studentID)
		}

		var previousPath string
		previous, err := s.avatarRepo.FindByStudentID(ctx, studentID)
		switch {
		case err == nil:
			previousPath = previous.FilePath
		case !errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("error retrieving current avatar: %w", err)
		}

		path, err := s.storage.Save(payload, originalName)
		if err != nil {
			return apperrors.AttachmentIO("write", err)
		}

		candidate := &models.Avatar{
			StudentID: studentID,
			Data:      payload,
			FileSize:  int64(len(payload)),
			MediaType: detectMediaType(payload, mediaType),
			FilePath:  path,
		}
		if err := s.avatarRepo.Upsert(ctx, candidate); err != nil {
			if delErr := s.storage.Delete(path); delErr != nil {
				logger.Error().Err(delErr).Str("path", path).Msg("Failed to clean up avatar file after store failure")
			}
			return fmt.Errorf("error saving avatar: %w", err)
		}

		if previousPath != "" && previousPath != path {
			if delErr := s.storage.Delete(previousPath); delErr != nil {
				logger.Warn().Err(delErr).Str("path", previousPath).Msg("Failed to delete replaced avatar file")
			}
		}

		avatar = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", studentID).Str("mediaType", avatar.MediaType).Int64("size", avatar.FileSize).Msg("Avatar uploaded")
	return avatar, nil
}

// GetFromStore returns the stored payload without touching the filesystem
func (s *avatarServiceImpl) GetFromStore(ctx context.Context, studentID int64) (*models.AvatarContent, error) {
	avatar, err := s.find(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &models.AvatarContent{Data: avatar.Data, MediaType: avatar.MediaType}, nil
}

// GetFromFilesystem returns the current bytes of the recorded file paired with
// the recorded media type. There is no fallback to the stored payload.
func (s *avatarServiceImpl) GetFromFilesystem(ctx context.Context, studentID int64) (*models.AvatarContent, error) {
	avatar, err := s.find(ctx, studentID)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Read(avatar.FilePath)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Str("path", avatar.FilePath).Msg("Failed to read avatar file")
		return nil, apperrors.AttachmentIO("read", err)
	}
	return &models.AvatarContent{Data: data, MediaType: avatar.MediaType}, nil
}

// RemoveForStudent deletes the avatar record and file of a student, if any
func (s *avatarServiceImpl) RemoveForStudent(ctx context.Context, studentID int64) error {
	return withLock(ctx, s.locker, keylock.AvatarKey(studentID), func() error {
		removed, err := s.avatarRepo.DeleteByStudentID(ctx, studentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("error deleting avatar: %w", err)
		}
		if err := s.storage.Delete(removed.FilePath); err != nil {
			logger.Warn().Err(err).Str("path", removed.FilePath).Msg("Failed to delete avatar file")
		}
		return nil
	})
}

func (s *avatarServiceImpl) find(ctx context.Context, studentID int64) (*models.Avatar, error) {
	avatar, err := s.avatarRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn().Int64("studentID", studentID).Msg("Avatar not found")
			return nil, apperrors.AvatarNotFound(studentID)
		}
		return nil, fmt.Errorf("error retrieving avatar: %w", err)
	}
	return avatar, nil
}
