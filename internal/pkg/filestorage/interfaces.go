package filestorage

import "errors"

// ErrInvalidPath is returned when a path does not point inside the storage root
var ErrInvalidPath = errors.New("invalid file path")

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes data under a fresh unique name and returns the stored path
	Save(data []byte, originalName string) (string, error)

	// Read returns the content stored at path
	Read(path string) ([]byte, error)

	// Delete removes a file from storage. Missing files are not an error.
	Delete(path string) error
}
