package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evid-cli/evid/internal/adapters/driven/storage/filesystem"
	"github.com/evid-cli/evid/internal/core/domain"
)

const sampleBib = `@article{abcd:main,
  title = {Report},
}

@article{abcd:l1,
  title = {Quote one},
  note = {Misleading figure},
}

@article{abcd:l2,
  title = {Quote two},
  nonote = {},
}
`

type rebutFixture struct {
	store  *filesystem.Store
	typst  *fakeTypesetter
	opener *fakeOpener
	svc    *RebuttalService
	doc    domain.Document
}

func newRebutFixture(t *testing.T) *rebutFixture {
	t.Helper()
	f := &rebutFixture{
		store:  newStore(t),
		typst:  &fakeTypesetter{export: []byte(sampleExport)},
		opener: &fakeOpener{},
	}
	f.doc = storeDocument(t, f.store, "%PDF rebut", domain.Record{OriginalName: "r.pdf", Title: "Report"})
	bib := NewBibliographyService(f.store, f.store, f.typst, nil, 1)
	f.svc = NewRebuttalService(f.store, bib, f.typst, f.opener, false)
	return f
}

func TestRebuttalService_Compose(t *testing.T) {
	f := newRebutFixture(t)
	writeFile(t, f.doc.Dir, domain.BibFileName, []byte(sampleBib))

	path, created, err := f.svc.Compose(context.Background(), f.doc.Dir)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.doc.ArtifactPath(domain.RebuttalFileName), path)

	out := readString(t, path)
	assert.Contains(t, out, "[*Topic:*], [TOPIC],")
	assert.Contains(t, out, "// Misleading figure\n+ Regarding: #cite(<abcd:l1>, form: \"full\")\n")
	assert.Contains(t, out, "\n+ Regarding: #cite(<abcd:l2>, form: \"full\")\n")
	assert.NotContains(t, out, "abcd:main")
	assert.Contains(t, out, `#bibliography("label.bib", title: none)`)
}

func TestRebuttalService_Compose_NeverOverwrites(t *testing.T) {
	f := newRebutFixture(t)
	writeFile(t, f.doc.Dir, domain.BibFileName, []byte(sampleBib))
	writeFile(t, f.doc.Dir, domain.RebuttalFileName, []byte("draft in progress"))

	_, created, err := f.svc.Compose(context.Background(), f.doc.Dir)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "draft in progress", readString(t, f.doc.ArtifactPath(domain.RebuttalFileName)))
}

func TestRebuttalService_Compose_MissingBibliography(t *testing.T) {
	f := newRebutFixture(t)

	_, _, err := f.svc.Compose(context.Background(), f.doc.Dir)
	assert.ErrorIs(t, err, domain.ErrBibliographyMissing)

	writeFile(t, f.doc.Dir, domain.BibFileName, []byte("  \n"))
	_, _, err = f.svc.Compose(context.Background(), f.doc.Dir)
	assert.ErrorIs(t, err, domain.ErrBibliographyMissing)

	assert.NoFileExists(t, f.doc.ArtifactPath(domain.RebuttalFileName))
}

func TestRebuttalService_Rebut_RegeneratesBibliography(t *testing.T) {
	f := newRebutFixture(t)
	writeFile(t, f.doc.Dir, domain.LabelFileName, []byte("= Report"))

	path, err := f.svc.Rebut(context.Background(), f.doc.Dir, false)

	require.NoError(t, err)
	assert.Len(t, f.typst.queried, 1)
	assert.FileExists(t, f.doc.ArtifactPath(domain.BibFileName))
	out := readString(t, path)
	assert.Contains(t, out, "// weak\n+ Regarding: #cite(<"+f.doc.Record.IDPrefix()+":l1>")
	assert.Empty(t, f.typst.compiled)
	assert.Empty(t, f.opener.opened)
}

func TestRebuttalService_Rebut_EmptyLabel(t *testing.T) {
	f := newRebutFixture(t)
	writeFile(t, f.doc.Dir, domain.LabelFileName, nil)

	_, err := f.svc.Rebut(context.Background(), f.doc.Dir, false)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.typst.queried)
}

func TestRebuttalService_Rebut_WithoutLabelUsesBibliography(t *testing.T) {
	f := newRebutFixture(t)
	writeFile(t, f.doc.Dir, domain.BibFileName, []byte(sampleBib))

	_, err := f.svc.Rebut(context.Background(), f.doc.Dir, false)

	require.NoError(t, err)
	assert.Empty(t, f.typst.queried)
}

func TestRebuttalService_Rebut_Open(t *testing.T) {
	f := newRebutFixture(t)
	writeFile(t, f.doc.Dir, domain.BibFileName, []byte(sampleBib))

	path, err := f.svc.Rebut(context.Background(), f.doc.Dir, true)

	require.NoError(t, err)
	assert.Equal(t, []string{path}, f.typst.compiled)
	assert.Equal(t, []string{f.doc.Dir}, f.opener.opened)
}

func TestRebuttalService_Rebut_CompileErrorKeepsDraft(t *testing.T) {
	f := newRebutFixture(t)
	f.typst.compileErr = domain.ErrExternalTool
	writeFile(t, f.doc.Dir, domain.BibFileName, []byte(sampleBib))

	path, err := f.svc.Rebut(context.Background(), f.doc.Dir, true)

	assert.ErrorIs(t, err, domain.ErrExternalTool)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
	assert.Empty(t, f.opener.opened)
}
