package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoEvidenceService indicates that no evidence service was provided.
	ErrNoEvidenceService = errors.New("evidence service is required")
)
