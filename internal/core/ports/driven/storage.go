package driven

import (
	"context"

	"github.com/evid-cli/evid/internal/core/domain"
)

// DatasetStore manages dataset directories below a storage root.
type DatasetStore interface {
	// Root returns the storage root directory.
	Root() string

	// ListDatasets returns all datasets sorted by name. Hidden directories are skipped.
	ListDatasets(ctx context.Context) ([]domain.Dataset, error)

	// GetDataset returns a dataset. Returns domain.ErrNotFound if it does not exist.
	GetDataset(ctx context.Context, name string) (domain.Dataset, error)

	// CreateDataset makes a new dataset directory.
	// Returns domain.ErrAlreadyExists if it exists.
	CreateDataset(ctx context.Context, name string) (domain.Dataset, error)
}

// DocumentStore persists documents in content-addressed directories.
type DocumentStore interface {
	// Exists reports whether a document directory with id exists in dataset.
	Exists(ctx context.Context, dataset, id string) (bool, error)

	// CreateDocument writes a new document directory holding the raw content and
	// its record. The record is validated before anything is written.
	// Returns domain.ErrAlreadyExists if the directory is already present.
	CreateDocument(ctx context.Context, dataset string, raw *domain.RawDocument, rec domain.Record) (domain.Document, error)

	// GetDocument loads a single document. Returns domain.ErrNotFound when the
	// directory is missing, or an error wrapping domain.ErrInvalidRecord.
	GetDocument(ctx context.Context, dataset, id string) (domain.Document, error)

	// ListDocuments returns all documents in a dataset with a valid record.
	// Invalid records are skipped with a warning.
	ListDocuments(ctx context.Context, dataset string) ([]domain.Document, error)

	// ReadRecord loads and validates the record in a document directory.
	ReadRecord(ctx context.Context, dir string) (domain.Record, error)
}

// ArtifactStore reads and writes derived files inside document directories.
type ArtifactStore interface {
	// Read returns the file content. Returns domain.ErrNotFound if absent.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the file content.
	Write(ctx context.Context, path string, data []byte) error

	// CreateExclusive writes the file only if it does not exist.
	// Returns false without error when the file is already present.
	CreateExclusive(ctx context.Context, path string, data []byte) (bool, error)
}

// Catalog is a search index mirroring the metadata records of all datasets.
type Catalog interface {
	// Replace swaps the indexed documents of a dataset for docs.
	Replace(ctx context.Context, dataset string, docs []domain.Document) error

	// Search returns documents whose descriptive fields contain query.
	Search(ctx context.Context, query string, limit int) ([]domain.Document, error)

	// Close releases the underlying database.
	Close() error
}
