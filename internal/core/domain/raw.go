package domain

// SourceKind classifies the content of a resolved source.
type SourceKind int

const (
	// SourcePDF is a PDF document.
	SourcePDF SourceKind = iota

	// SourceText is plain text, typically scraped from a web page.
	SourceText
)

// String returns the file extension used for the kind.
func (k SourceKind) String() string {
	if k == SourcePDF {
		return "pdf"
	}
	return "txt"
}

// RawDocument is resolved source content before it is stored.
type RawDocument struct {
	// Name is the file name the content will be stored under.
	Name string

	// URI is the original location (file path or URL).
	URI string

	// MIMEType is the content type reported by the source.
	MIMEType string

	// Kind classifies Content.
	Kind SourceKind

	// Content is the exact bytes to persist.
	Content []byte
}

// PDFMetadata is the bibliographic metadata of a PDF.
// All fields are plain strings, never absent.
type PDFMetadata struct {
	Title   string
	Authors string
	Date    string
}
