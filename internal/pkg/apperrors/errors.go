package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Entity errors. Every "no such record" error matches ErrResourceNotFound.
var (
	ErrStudentNotFound = fmt.Errorf("student %w", ErrResourceNotFound)
	ErrFacultyNotFound = fmt.Errorf("faculty %w", ErrResourceNotFound)
	ErrAvatarNotFound  = fmt.Errorf("avatar %w", ErrResourceNotFound)
)

// ErrFacultyReferenceNotFound is returned when a student write names a faculty
// that does not exist. It is a validation failure, not a missing resource.
var ErrFacultyReferenceNotFound = errors.New("referenced faculty does not exist")

// ErrAttachmentIO is returned when the avatar filesystem medium fails.
var ErrAttachmentIO = errors.New("attachment storage failure")

// StudentNotFound wraps ErrStudentNotFound with the missing identifier.
func StudentNotFound(id int64) error {
	return fmt.Errorf("%w: id=%d", ErrStudentNotFound, id)
}

// FacultyNotFound wraps ErrFacultyNotFound with the missing identifier.
func FacultyNotFound(id int64) error {
	return fmt.Errorf("%w: id=%d", ErrFacultyNotFound, id)
}

// AvatarNotFound wraps ErrAvatarNotFound with the student identifier.
func AvatarNotFound(studentID int64) error {
	return fmt.Errorf("%w: studentId=%d", ErrAvatarNotFound, studentID)
}

// FacultyReferenceNotFound wraps ErrFacultyReferenceNotFound with the dangling identifier.
func FacultyReferenceNotFound(id int64) error {
	return &CustomError{
		Err:     ErrFacultyReferenceNotFound,
		Message: fmt.Sprintf("faculty with id %d does not exist", id),
		Details: map[string]interface{}{"facultyId": id},
	}
}

// AttachmentIO wraps an underlying filesystem error as ErrAttachmentIO.
func AttachmentIO(op string, err error) error {
	return &CustomError{
		Err:     fmt.Errorf("%w: %w", ErrAttachmentIO, err),
		Message: fmt.Sprintf("avatar %s failed", op),
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
