package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Paths(t *testing.T) {
	doc := Document{
		Dataset: "demo",
		Dir:     filepath.Join("data", "demo", "abcd"),
		Record:  Record{OriginalName: "Report.pdf"},
	}

	assert.Equal(t, filepath.Join("data", "demo", "abcd", "Report.pdf"), doc.SourcePath())
	assert.Equal(t, filepath.Join("data", "demo", "abcd", "label.typ"), doc.ArtifactPath(LabelFileName))
}

func TestSourceKind_String(t *testing.T) {
	assert.Equal(t, "pdf", SourcePDF.String())
	assert.Equal(t, "txt", SourceText.String())
}

func TestBibEntry_Field(t *testing.T) {
	entry := BibEntry{Key: "abcd:main", Fields: []BibField{{Name: "title", Value: "Report"}}}

	v, ok := entry.Field("title")
	assert.True(t, ok)
	assert.Equal(t, "Report", v)

	_, ok = entry.Field("url")
	assert.False(t, ok)
}
