package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory %s: %w", basePath, err)
	}

	// Ensure the base path exists
	if err := os.MkdirAll(abs, 0o755); err != nil {
		logger.Error().Err(err).Str("path", abs).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", abs, err)
	}
	logger.Info().Str("path", abs).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: abs}, nil
}

// BasePath returns the absolute storage root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save writes data to <basePath>/<uuid><ext of originalName> and returns that path.
func (ls *LocalStorage) Save(data []byte, originalName string) (string, error) {
	// Generate a unique filename to prevent collisions
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	dstPath := filepath.Join(ls.basePath, uuid.New().String()+ext)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		// Attempt to remove the partially created file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", originalName).Str("saved_as", dstPath).Int("size", len(data)).Msg("File saved successfully")
	return dstPath, nil
}

// Read returns the content of a file previously returned by Save.
func (ls *LocalStorage) Read(path string) ([]byte, error) {
	physicalPath, err := ls.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(physicalPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", physicalPath).Msg("Failed to read file")
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil // Nothing to delete
	}

	physicalPath, err := ls.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// resolve maps a stored path to a file directly under basePath.
// Relative paths are taken relative to basePath.
func (ls *LocalStorage) resolve(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(ls.basePath, path)
	}
	clean := filepath.Clean(path)
	if filepath.Dir(clean) != ls.basePath {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return clean, nil
}
