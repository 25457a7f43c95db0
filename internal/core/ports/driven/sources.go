package driven

import (
	"context"

	"github.com/evid-cli/evid/internal/core/domain"
)

// Fetcher downloads a URL.
type Fetcher interface {
	// Fetch returns the response body with MIMEType and Name set.
	// Name is derived from the last URL path segment.
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}

// Normaliser turns fetched markup into plain text ready for storage.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise extracts visible text from raw content.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Title is the document title, if the markup declares one.
	Title string

	// Content is the extracted text, escaped for typst markup.
	Content string
}

// PDFReader reads PDF documents.
type PDFReader interface {
	// Metadata extracts title, authors and date from the document
	// information dictionary. It never fails; missing or unreadable
	// metadata falls back to the file name stem and empty strings.
	Metadata(data []byte, fileName string) domain.PDFMetadata

	// Pages returns the plain text of every page in order.
	Pages(ctx context.Context, data []byte) ([]string, error)
}
