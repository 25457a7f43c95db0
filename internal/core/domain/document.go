package domain

import "path/filepath"

// Document is an ingested source together with its metadata record.
type Document struct {
	// Dataset is the name of the dataset holding the document.
	Dataset string

	// Dir is the content-addressed directory of the document.
	Dir string

	// Record is the validated metadata record.
	Record Record
}

// SourcePath returns the path of the stored original file.
func (d Document) SourcePath() string {
	return filepath.Join(d.Dir, d.Record.OriginalName)
}

// ArtifactPath returns the path of a derived file inside the document directory.
func (d Document) ArtifactPath(name string) string {
	return filepath.Join(d.Dir, name)
}

// IngestOptions controls optional ingestion behaviour.
type IngestOptions struct {
	// Label generates the label document right after ingestion.
	Label bool

	// AutoLabel pre-splits paragraphs into citation markers.
	AutoLabel bool

	// ScanDates scans page text for dates when the metadata has none.
	ScanDates bool
}

// IngestResult is the outcome of adding a source to a dataset.
type IngestResult struct {
	// Document is the stored (or already present) document.
	// For duplicates only Dataset, Dir and Record.ID are set.
	Document Document

	// Duplicate is true when identical content was already present.
	// Nothing is written in that case.
	Duplicate bool

	// LabelPath is set when a label document was generated.
	LabelPath string
}

// Dataset is a named collection of documents.
type Dataset struct {
	// Name is the directory name.
	Name string

	// Path is the absolute directory path.
	Path string
}
