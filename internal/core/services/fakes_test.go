package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evid-cli/evid/internal/adapters/driven/storage/filesystem"
	"github.com/evid-cli/evid/internal/core/domain"
)

// fakePDF returns canned metadata and page text.
type fakePDF struct {
	meta     *domain.PDFMetadata
	pages    []string
	pagesErr error
}

func (f *fakePDF) Metadata(_ []byte, fileName string) domain.PDFMetadata {
	if f.meta != nil {
		return *f.meta
	}
	return domain.PDFMetadata{Title: filepath.Base(fileName[:len(fileName)-len(filepath.Ext(fileName))])}
}

func (f *fakePDF) Pages(_ context.Context, _ []byte) ([]string, error) {
	return f.pages, f.pagesErr
}

// fakeFetcher serves a single response.
type fakeFetcher struct {
	raw *domain.RawDocument
	err error
	url string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.RawDocument, error) {
	f.url = url
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.raw
	cp.URI = url
	return &cp, nil
}

// fakeTypesetter returns a fixed export and records compiled paths.
type fakeTypesetter struct {
	mu         sync.Mutex
	export     []byte
	queryErr   error
	compileErr error
	queried    []string
	compiled   []string
}

func (f *fakeTypesetter) Query(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, path)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.export, nil
}

func (f *fakeTypesetter) Compile(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compiled = append(f.compiled, path)
	return f.compileErr
}

// fakeEditor records edited paths.
type fakeEditor struct {
	edited []string
	err    error
}

func (f *fakeEditor) Edit(_ context.Context, path string) error {
	f.edited = append(f.edited, path)
	return f.err
}

// fakeOpener records opened targets.
type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, target string) error {
	f.opened = append(f.opened, target)
	return f.err
}

// fakeVCS records calls.
type fakeVCS struct {
	inits   []string
	commits [][]string
	err     error
}

func (f *fakeVCS) Init(_ context.Context, dir string) error {
	f.inits = append(f.inits, dir)
	return f.err
}

func (f *fakeVCS) Commit(_ context.Context, dir, message string, paths ...string) error {
	f.commits = append(f.commits, append([]string{dir, message}, paths...))
	return f.err
}

// fakeWatcher fires onChange a fixed number of times.
type fakeWatcher struct {
	changes int
	path    string
}

func (f *fakeWatcher) Watch(_ context.Context, path string, onChange func()) error {
	f.path = path
	for i := 0; i < f.changes; i++ {
		onChange()
	}
	return nil
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

// newStore returns a filesystem store with dataset "demo" created.
func newStore(t *testing.T) *filesystem.Store {
	t.Helper()
	store := filesystem.NewStore(filepath.Join(t.TempDir(), "evidence"))
	_, err := store.CreateDataset(context.Background(), "demo")
	require.NoError(t, err)
	return store
}

// writeFile writes a file below dir and returns its path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// storeDocument adds a document with the given record to dataset demo.
func storeDocument(t *testing.T, store *filesystem.Store, content string, rec domain.Record) domain.Document {
	t.Helper()
	rec.ID = ContentID([]byte(content))
	if rec.TimeAdded == "" {
		rec.TimeAdded = "2024-03-09"
	}
	if rec.Label == "" {
		rec.Label = domain.LabelFromTitle(rec.Title)
	}
	doc, err := store.CreateDocument(context.Background(), "demo",
		&domain.RawDocument{Name: rec.OriginalName, Content: []byte(content)}, rec)
	require.NoError(t, err)
	return doc
}
