package apperrors

import "errors"

// Error kinds. Every error a service returns wraps exactly one of these so the
// HTTP layer can map it without knowing which component produced it.
var (
	// ErrValidation marks bad input shape or range; the caller can correct it.
	ErrValidation = errors.New("validation failed")
	// ErrAuthorization marks a requester that does not own the resource.
	ErrAuthorization = errors.New("permission denied")
	// ErrNotFound marks an id that does not resolve.
	ErrNotFound = errors.New("resource not found")
	// ErrStorage marks a transient or permanent failure of the record or blob backend.
	ErrStorage = errors.New("storage failure")
	// ErrUnauthenticated marks a request without a verified session.
	ErrUnauthenticated = errors.New("authentication required")
)

// Resource specific errors
var (
	ErrNoteNotFound       = NewNotFoundError("note not found")
	ErrProfileNotFound    = NewNotFoundError("profile not found")
	ErrRatingNotFound     = NewNotFoundError("rating not found")
	ErrNoDownloadableFile = NewNotFoundError("note has no file to download")
	ErrNotNoteOwner       = NewAuthorizationError("only the owner can modify this note")
	ErrNotProfileOwner    = NewAuthorizationError("only the owner can modify this profile")
)

// NewValidationError creates a validation error with a message
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidation,
		Message: message,
	}
}

// NewFieldValidationError creates a validation error bound to a request field
func NewFieldValidationError(field, message string) *CustomError {
	return &CustomError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// NewAuthorizationError creates a permission denied error with a message
func NewAuthorizationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrAuthorization,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a message
func NewNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewStorageError wraps a backend failure. cause is kept for logging and errors.Is.
func NewStorageError(message string, cause error) *CustomError {
	return &CustomError{
		Err:     ErrStorage,
		Message: message,
		Cause:   cause,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Cause   error
	Message string
	Field   string
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

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Kind returns the sentinel kind err wraps, or nil for an unclassified error.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrAuthorization, ErrNotFound, ErrStorage, ErrUnauthenticated} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
