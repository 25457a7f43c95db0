package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// source path that does not exist or has the wrong extension.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource indicates a source that cannot be ingested.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrInvalidRecord indicates a metadata record failed validation.
	ErrInvalidRecord = errors.New("invalid metadata record")

	// ErrInvalidExport indicates the structured export of a label
	// document is empty or malformed.
	ErrInvalidExport = errors.New("invalid label export")

	// ErrBibliographyMissing indicates a bibliography file is absent or empty.
	ErrBibliographyMissing = errors.New("bibliography missing or empty")

	// ErrExternalTool indicates an external program was missing or exited non-zero.
	ErrExternalTool = errors.New("external tool failed")

	// ErrNotConfigured indicates a service was constructed without a required collaborator.
	ErrNotConfigured = errors.New("not configured")
)

// ValidationError describes a single field that failed record validation.
type ValidationError struct {
	// Field is the record key that failed.
	Field string

	// Reason is a short human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	return "field " + e.Field + ": " + e.Reason
}

// Unwrap allows errors.Is(err, ErrInvalidRecord).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}
