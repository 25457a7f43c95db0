package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evid-cli/evid/internal/adapters/driven/storage/filesystem"
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/postprocessors"
	"github.com/evid-cli/evid/internal/postprocessors/labeltext"
)

type labelFixture struct {
	store  *filesystem.Store
	pdf    *fakePDF
	editor *fakeEditor
	typst  *fakeTypesetter
	svc    *LabelService
}

func newLabelFixture(t *testing.T) *labelFixture {
	t.Helper()
	pipeline, err := postprocessors.DefaultRegistry().BuildPipeline(domain.DefaultLabelProcessors())
	require.NoError(t, err)

	f := &labelFixture{
		store:  newStore(t),
		pdf:    &fakePDF{},
		editor: &fakeEditor{},
		typst:  &fakeTypesetter{export: []byte(`[{"value":{"key":"l1","text":"Quote","title":"Report","date":"","opage":0,"note":""}}]`)},
	}
	bib := NewBibliographyService(f.store, f.store, f.typst, nil, 1)
	f.svc = NewLabelService(f.store, f.store, f.pdf, pipeline, labeltext.NewAutoLabel(), f.editor, bib, true)
	return f
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLabelService_Generate_PDF(t *testing.T) {
	f := newLabelFixture(t)
	f.pdf.pages = []string{"The ﬁrst page.\nmail: a@b.dk", "Second [page]"}
	doc := storeDocument(t, f.store, "%PDF pages", domain.Record{OriginalName: "Report.pdf", Title: "Report", Dates: "2023-01-15"})

	path, created, err := f.svc.Generate(context.Background(), doc.SourcePath(), false)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, doc.ArtifactPath(domain.LabelFileName), path)

	out := readString(t, path)
	assert.Contains(t, out, `#let doc-title = "Report"`)
	assert.Contains(t, out, `#let doc-date = "2023-01-15"`)
	assert.Contains(t, out, "= Report\nDate: 2023-01-15\n")
	assert.Contains(t, out, "#opage.update(0)\n== Page 1\n\nThe first page.\n\n// mail: a\\@b.dk\n")
	assert.Contains(t, out, "#opage.update(1)\n== Page 2\n\nSecond \\[page\\]\n")
	assert.Contains(t, out, "#label-list()")
}

func TestLabelService_Generate_AutoLabel(t *testing.T) {
	f := newLabelFixture(t)
	f.pdf.pages = []string{"One.\nTwo"}
	doc := storeDocument(t, f.store, "%PDF auto", domain.Record{OriginalName: "r.pdf", Title: "R"})

	path, _, err := f.svc.Generate(context.Background(), doc.SourcePath(), true)

	require.NoError(t, err)
	out := readString(t, path)
	assert.Contains(t, out, "#lb(\"l1\")[One.]\n// One.\n\n#lb(\"l2\")[Two]\n// Two")
}

func TestLabelService_Generate_TextSource(t *testing.T) {
	f := newLabelFixture(t)
	doc := storeDocument(t, f.store, `Scraped \#text.`, domain.Record{OriginalName: "page.txt", Title: "Page"})

	path, created, err := f.svc.Generate(context.Background(), doc.SourcePath(), false)

	require.NoError(t, err)
	assert.True(t, created)
	out := readString(t, path)
	assert.NotContains(t, out, "== Page")
	assert.NotContains(t, out, "#opage.update")
	assert.Contains(t, out, "\n"+`Scraped \#text.`+"\n")
}

func TestLabelService_Generate_Placeholders(t *testing.T) {
	f := newLabelFixture(t)
	dir := filepath.Join(f.store.Root(), "demo", "loose")
	require.NoError(t, os.Mkdir(dir, 0o755))
	src := writeFile(t, dir, "notes.txt", []byte("hello"))

	path, created, err := f.svc.Generate(context.Background(), src, false)

	require.NoError(t, err)
	assert.True(t, created)
	out := readString(t, path)
	assert.Contains(t, out, `#let doc-title = "NAME"`)
	assert.Contains(t, out, `#let doc-date = "DATE"`)
	assert.Contains(t, out, "= NAME\nDate: DATE\n")
}

func TestLabelService_Generate_NeverOverwrites(t *testing.T) {
	f := newLabelFixture(t)
	f.pdf.pages = []string{"original"}
	doc := storeDocument(t, f.store, "%PDF once", domain.Record{OriginalName: "r.pdf", Title: "R"})
	ctx := context.Background()

	path, created, err := f.svc.Generate(ctx, doc.SourcePath(), false)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, os.WriteFile(path, []byte("my annotations"), 0o644))

	f.pdf.pages = []string{"changed"}
	again, created, err := f.svc.Generate(ctx, doc.SourcePath(), false)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, path, again)
	assert.Equal(t, "my annotations", readString(t, path))
}

func TestLabelService_Generate_MissingSource(t *testing.T) {
	f := newLabelFixture(t)

	_, _, err := f.svc.Generate(context.Background(), filepath.Join(f.store.Root(), "demo", "x", "x.pdf"), false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLabelService_Label(t *testing.T) {
	f := newLabelFixture(t)
	f.pdf.pages = []string{"Quote"}
	doc := storeDocument(t, f.store, "%PDF label", domain.Record{OriginalName: "r.pdf", Title: "Report"})

	path, err := f.svc.Label(context.Background(), doc.SourcePath(), false)

	require.NoError(t, err)
	assert.Equal(t, []string{path}, f.editor.edited)
	assert.Equal(t, []string{path}, f.typst.queried)
	bib := readString(t, doc.ArtifactPath(domain.BibFileName))
	assert.Contains(t, bib, "@article{"+doc.Record.IDPrefix()+":l1,")
	assert.Contains(t, bib, "nonote = {}")
}

func TestLabelService_Label_EditorFailureKeepsLabel(t *testing.T) {
	f := newLabelFixture(t)
	f.editor.err = domain.ErrExternalTool
	f.pdf.pages = []string{"Quote"}
	doc := storeDocument(t, f.store, "%PDF editor", domain.Record{OriginalName: "r.pdf", Title: "Report"})

	path, err := f.svc.Label(context.Background(), doc.SourcePath(), false)

	assert.ErrorIs(t, err, domain.ErrExternalTool)
	assert.FileExists(t, path)
	assert.Empty(t, f.typst.queried)
	assert.NoFileExists(t, doc.ArtifactPath(domain.BibFileName))
}
