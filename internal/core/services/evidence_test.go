package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evid-cli/evid/internal/adapters/driven/storage/filesystem"
	"github.com/evid-cli/evid/internal/adapters/driven/storage/memory"
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/normalisers/html"
)

// stubLabels records Label calls.
type stubLabels struct {
	calls []string
	auto  []bool
	err   error
}

func (s *stubLabels) Generate(_ context.Context, sourcePath string, _ bool) (string, bool, error) {
	return filepath.Join(filepath.Dir(sourcePath), domain.LabelFileName), true, s.err
}

func (s *stubLabels) Label(_ context.Context, sourcePath string, autoLabel bool) (string, error) {
	s.calls = append(s.calls, sourcePath)
	s.auto = append(s.auto, autoLabel)
	return filepath.Join(filepath.Dir(sourcePath), domain.LabelFileName), s.err
}

type evidenceFixture struct {
	store   *filesystem.Store
	pdf     *fakePDF
	fetcher *fakeFetcher
	labels  *stubLabels
	opener  *fakeOpener
	svc     *EvidenceService
	src     string
}

func newEvidenceFixture(t *testing.T) *evidenceFixture {
	t.Helper()
	f := &evidenceFixture{
		store:   newStore(t),
		pdf:     &fakePDF{meta: &domain.PDFMetadata{Title: "Report", Authors: "A. Author"}},
		fetcher: &fakeFetcher{},
		labels:  &stubLabels{},
		opener:  &fakeOpener{},
		src:     t.TempDir(),
	}
	f.svc = NewEvidenceService(f.store, f.store, f.store, f.fetcher, f.pdf,
		memory.NewCatalog(), f.labels, f.opener, html.New())
	f.svc.now = fixedNow
	return f
}

func (f *evidenceFixture) entries(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.store.Root(), "demo"))
	require.NoError(t, err)
	return entries
}

func TestNewEvidenceService(t *testing.T) {
	f := newEvidenceFixture(t)

	require.NotNil(t, f.svc)
}

func TestEvidenceService_Add_PDF(t *testing.T) {
	f := newEvidenceFixture(t)
	content := []byte("%PDF-1.4 report")
	path := writeFile(t, f.src, "Report.pdf", content)

	result, err := f.svc.Add(context.Background(), "demo", path, domain.IngestOptions{})

	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	id := ContentID(content)
	assert.Equal(t, id, result.Document.Record.ID)
	assert.Equal(t, filepath.Join(f.store.Root(), "demo", id), result.Document.Dir)

	stored, err := os.ReadFile(filepath.Join(result.Document.Dir, "Report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	rec, err := f.store.ReadRecord(context.Background(), result.Document.Dir)
	require.NoError(t, err)
	assert.Equal(t, domain.Record{
		OriginalName: "Report.pdf",
		ID:           id,
		TimeAdded:    "2024-03-09",
		Dates:        "",
		Title:        "Report",
		Authors:      "A. Author",
		Label:        "report",
	}, rec)
	assert.Empty(t, f.labels.calls)
}

func TestEvidenceService_Add_Duplicate(t *testing.T) {
	f := newEvidenceFixture(t)
	first := writeFile(t, f.src, "a.pdf", []byte("%PDF-1.4 same"))
	second := writeFile(t, f.src, "b.PDF", []byte("%PDF-1.4 same"))

	_, err := f.svc.Add(context.Background(), "demo", first, domain.IngestOptions{})
	require.NoError(t, err)

	result, err := f.svc.Add(context.Background(), "demo", second, domain.IngestOptions{Label: true})

	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, ContentID([]byte("%PDF-1.4 same")), result.Document.Record.ID)
	assert.Len(t, f.entries(t), 1)
	assert.Empty(t, f.labels.calls)

	_, err = os.Stat(filepath.Join(result.Document.Dir, "b.PDF"))
	assert.True(t, os.IsNotExist(err))
}

func TestEvidenceService_Add_InputErrors(t *testing.T) {
	f := newEvidenceFixture(t)
	txt := writeFile(t, f.src, "notes.txt", []byte("hello"))

	tests := map[string]struct {
		dataset string
		source  string
		want    error
	}{
		"wrong extension": {"demo", txt, domain.ErrInvalidInput},
		"missing file":    {"demo", filepath.Join(f.src, "missing.pdf"), domain.ErrInvalidInput},
		"empty source":    {"demo", " ", domain.ErrInvalidInput},
		"missing dataset": {"nope", txt, domain.ErrNotFound},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Add(context.Background(), tt.dataset, tt.source, domain.IngestOptions{})

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.entries(t))
		})
	}
}

func TestEvidenceService_Add_InvalidRecordWritesNothing(t *testing.T) {
	f := newEvidenceFixture(t)
	f.pdf.meta = &domain.PDFMetadata{Title: "   "}
	path := writeFile(t, f.src, "blank.pdf", []byte("%PDF-1.4 blank"))

	_, err := f.svc.Add(context.Background(), "demo", path, domain.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Empty(t, f.entries(t))
}

func TestEvidenceService_Add_WithLabel(t *testing.T) {
	f := newEvidenceFixture(t)
	path := writeFile(t, f.src, "Report.pdf", []byte("%PDF-1.4 label me"))

	result, err := f.svc.Add(context.Background(), "demo", path, domain.IngestOptions{Label: true, AutoLabel: true})

	require.NoError(t, err)
	require.Len(t, f.labels.calls, 1)
	assert.Equal(t, result.Document.SourcePath(), f.labels.calls[0])
	assert.True(t, f.labels.auto[0])
	assert.Equal(t, result.Document.ArtifactPath(domain.LabelFileName), result.LabelPath)
}

func TestEvidenceService_Add_LabelFailureKeepsDocument(t *testing.T) {
	f := newEvidenceFixture(t)
	f.labels.err = domain.ErrExternalTool
	path := writeFile(t, f.src, "Report.pdf", []byte("%PDF-1.4 editor fails"))

	result, err := f.svc.Add(context.Background(), "demo", path, domain.IngestOptions{Label: true})

	assert.ErrorIs(t, err, domain.ErrExternalTool)
	require.NotNil(t, result)
	assert.Len(t, f.entries(t), 1)
}

func TestEvidenceService_Add_ScanDates(t *testing.T) {
	f := newEvidenceFixture(t)
	f.pdf.pages = []string{"Aarhus, 15. januar 2024", "ref 03/02/2023"}
	path := writeFile(t, f.src, "Report.pdf", []byte("%PDF-1.4 dated"))

	result, err := f.svc.Add(context.Background(), "demo", path, domain.IngestOptions{ScanDates: true})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15, 2023-02-03", result.Document.Record.Dates)
}

func TestEvidenceService_Add_ScanDatesKeepsMetadataDate(t *testing.T) {
	f := newEvidenceFixture(t)
	f.pdf.meta.Date = "2020-05-05"
	f.pdf.pages = []string{"15. januar 2024"}
	path := writeFile(t, f.src, "Report.pdf", []byte("%PDF-1.4 has date"))

	result, err := f.svc.Add(context.Background(), "demo", path, domain.IngestOptions{ScanDates: true})

	require.NoError(t, err)
	assert.Equal(t, "2020-05-05", result.Document.Record.Dates)
}

func TestEvidenceService_Add_URLPDF(t *testing.T) {
	f := newEvidenceFixture(t)
	f.fetcher.raw = &domain.RawDocument{Name: "paper", MIMEType: "application/pdf", Content: []byte("%PDF-1.7 remote")}

	result, err := f.svc.Add(context.Background(), "demo", "https://example.org/paper", domain.IngestOptions{})

	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", result.Document.Record.OriginalName)
	assert.Equal(t, "https://example.org/paper", result.Document.Record.URL)
	assert.Equal(t, "Report", result.Document.Record.Title)
}

func TestEvidenceService_Add_URLHTML(t *testing.T) {
	f := newEvidenceFixture(t)
	page := `<html><head><title>News</title></head><body>
<nav>Menu</nav><p>Kommunen #1 svarede_ikke.</p><script>x()</script></body></html>`
	f.fetcher.raw = &domain.RawDocument{Name: "article.html", MIMEType: "text/html", Content: []byte(page)}

	result, err := f.svc.Add(context.Background(), "demo", "https://example.org/article.html", domain.IngestOptions{})

	require.NoError(t, err)
	rec := result.Document.Record
	assert.Equal(t, "article.txt", rec.OriginalName)
	assert.Equal(t, "article", rec.Title)
	assert.Equal(t, "article", rec.Label)
	assert.Empty(t, rec.Authors)
	assert.Empty(t, rec.Dates)

	stored, err := os.ReadFile(result.Document.SourcePath())
	require.NoError(t, err)
	assert.Equal(t, `Kommunen \#1 svarede\_ikke.`, string(stored))
	assert.Equal(t, ContentID(stored), rec.ID)
}

func TestEvidenceService_Add_URLWithoutNameUsesPageTitle(t *testing.T) {
	f := newEvidenceFixture(t)
	page := `<html><head><title>Byrådsmøde</title></head><body><p>Referat</p></body></html>`
	f.fetcher.raw = &domain.RawDocument{Name: "document", MIMEType: "text/html", Content: []byte(page)}

	result, err := f.svc.Add(context.Background(), "demo", "https://example.org/", domain.IngestOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Byrådsmøde", result.Document.Record.Title)
	assert.Equal(t, "byrådsmøde", result.Document.Record.Label)
}

func TestEvidenceService_Add_FetchError(t *testing.T) {
	f := newEvidenceFixture(t)
	f.fetcher.err = errors.New("timeout")

	_, err := f.svc.Add(context.Background(), "demo", "http://example.org/x.pdf", domain.IngestOptions{})

	assert.ErrorContains(t, err, "timeout")
	assert.Empty(t, f.entries(t))
}

func TestEvidenceService_List(t *testing.T) {
	f := newEvidenceFixture(t)
	storeDocument(t, f.store, "one", domain.Record{OriginalName: "one.pdf", Title: "One"})
	storeDocument(t, f.store, "two", domain.Record{OriginalName: "two.pdf", Title: "Two"})

	docs, err := f.svc.List(context.Background(), "demo")

	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestEvidenceService_Get(t *testing.T) {
	f := newEvidenceFixture(t)
	doc := storeDocument(t, f.store, "alpha", domain.Record{OriginalName: "a.pdf", Title: "Alpha"})
	ctx := context.Background()

	got, err := f.svc.Get(ctx, "demo", doc.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Record.Title)

	got, err = f.svc.Get(ctx, "demo", doc.Record.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, doc.Record.ID, got.Record.ID)

	_, err = f.svc.Get(ctx, "demo", "zzzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Get(ctx, "demo", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEvidenceService_Get_AmbiguousPrefix(t *testing.T) {
	f := newEvidenceFixture(t)
	for _, id := range []string{"abcd0000000000000000000000000001", "abcd0000000000000000000000000002"} {
		_, err := f.store.CreateDocument(context.Background(), "demo",
			&domain.RawDocument{Name: "x.pdf", Content: []byte(id)},
			domain.Record{OriginalName: "x.pdf", ID: id, TimeAdded: "2024-03-09", Title: "X", Label: "x"})
		require.NoError(t, err)
	}

	_, err := f.svc.Get(context.Background(), "demo", "ABCD")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	doc, err := f.svc.Get(context.Background(), "demo", "abcd0000000000000000000000000002")
	require.NoError(t, err)
	assert.Equal(t, "abcd0000000000000000000000000002", doc.Record.ID)
}

func TestEvidenceService_Search(t *testing.T) {
	f := newEvidenceFixture(t)
	storeDocument(t, f.store, "one", domain.Record{OriginalName: "one.pdf", Title: "Budget 2024", Tags: "økonomi"})
	storeDocument(t, f.store, "two", domain.Record{OriginalName: "two.pdf", Title: "Minutes"})

	docs, err := f.svc.Search(context.Background(), "ØKONOMI")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Budget 2024", docs[0].Record.Title)
	assert.Equal(t, "demo", docs[0].Dataset)
}

func TestEvidenceService_Search_NoCatalog(t *testing.T) {
	store := newStore(t)
	svc := NewEvidenceService(store, store, store, nil, nil, nil, nil, nil)

	_, err := svc.Search(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestEvidenceService_Open(t *testing.T) {
	f := newEvidenceFixture(t)
	doc := storeDocument(t, f.store, "open me", domain.Record{OriginalName: "o.pdf", Title: "O"})

	require.NoError(t, f.svc.Open(context.Background(), doc))
	assert.Equal(t, []string{doc.Dir}, f.opener.opened)

	f.opener.err = domain.ErrExternalTool
	assert.ErrorIs(t, f.svc.Open(context.Background(), doc), domain.ErrExternalTool)
}
