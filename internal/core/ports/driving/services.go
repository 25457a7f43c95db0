package driving

import (
	"context"

	"github.com/evid-cli/evid/internal/core/domain"
)

// DatasetService manages datasets.
type DatasetService interface {
	// List returns all datasets sorted by name.
	List(ctx context.Context) ([]domain.Dataset, error)

	// Create makes a new dataset. Returns domain.ErrAlreadyExists if present.
	Create(ctx context.Context, name string) (domain.Dataset, error)

	// Get returns a dataset or domain.ErrNotFound.
	Get(ctx context.Context, name string) (domain.Dataset, error)

	// Track puts the storage directory under version control.
	Track(ctx context.Context) error
}

// EvidenceService ingests and looks up documents.
type EvidenceService interface {
	// Add ingests a local PDF or a URL into dataset. Identical content
	// already present yields a result with Duplicate set and no error.
	Add(ctx context.Context, dataset, source string, opts domain.IngestOptions) (*domain.IngestResult, error)

	// List returns the documents of a dataset. Invalid records are skipped.
	List(ctx context.Context, dataset string) ([]domain.Document, error)

	// Get returns a document by id or unique id prefix.
	Get(ctx context.Context, dataset, id string) (domain.Document, error)

	// Search refreshes the catalog and returns matching documents of all datasets.
	Search(ctx context.Context, query string) ([]domain.Document, error)

	// Open shows the document directory in the platform file manager.
	Open(ctx context.Context, doc domain.Document) error
}

// LabelService produces label documents.
type LabelService interface {
	// Generate writes label.typ next to the document source if absent.
	// Returns the label path and whether it was created.
	Generate(ctx context.Context, sourcePath string, autoLabel bool) (string, bool, error)

	// Label generates the label document, opens it in the editor and,
	// once the editor exits, compiles the bibliography.
	Label(ctx context.Context, sourcePath string, autoLabel bool) (string, error)
}

// BibliographyService compiles bibliographies from label documents.
type BibliographyService interface {
	// FromLabel queries a label document and compiles label.bib beside it.
	FromLabel(ctx context.Context, labelPath string, excludeNote bool) (domain.BibResult, error)

	// Compile renders label.bib from an existing structured export.
	Compile(ctx context.Context, exportPath string, excludeNote bool) (domain.BibResult, error)

	// GenerateAll processes label.typ or label.json paths. Per-item failures
	// are reported in the results and never abort other items.
	GenerateAll(ctx context.Context, paths []string, parallel bool, excludeNote bool) []domain.BibResult

	// Watch recompiles the bibliography each time labelPath changes
	// until ctx is cancelled.
	Watch(ctx context.Context, labelPath string, excludeNote bool, report func(domain.BibResult)) error
}

// RebuttalService drafts rebuttal documents.
type RebuttalService interface {
	// Compose writes rebut.typ from label.bib in dir if absent.
	// Returns the rebuttal path and whether it was created.
	Compose(ctx context.Context, dir string) (string, bool, error)

	// Rebut refreshes the bibliography from the label document, composes
	// the rebuttal and optionally compiles and opens it.
	Rebut(ctx context.Context, dir string, open bool) (string, error)
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings with defaults filled in.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// Entries returns every known setting with its effective value.
	Entries() ([]SettingEntry, error)

	// Path returns the configuration file path.
	Path() string
}

// SettingEntry is one configuration key for display.
type SettingEntry struct {
	Key     string
	Value   string
	Default string
}
