// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DatasetStore: dataset directories under the storage root
//   - DocumentStore: content-addressed document directories and info.yml records
//   - ArtifactStore: derived files next to a document (label, export, bibliography)
//   - PDFReader: PDF metadata and page text
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil; the dependent operation returns domain.ErrNotConfigured:
//
//   - Fetcher and Normaliser: URL ingestion
//   - Editor, Typesetter, Opener, VersionControl: external programs
//   - Catalog: cross-dataset search index
//   - FileWatcher: bibliography watch mode
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
