// Package domain defines the core business entities for evid.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: the validated metadata record persisted as info.yml
//   - Document: an ingested source and its content-addressed directory
//   - ExportRecord: one annotated citation extracted from a label document
//   - BibEntry: one rendered bibliography entry
//   - AppSettings: user configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
