// Package pdf reads PDF metadata and page text with github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/logger"
	"github.com/evid-cli/evid/internal/textutil"
)

// Ensure Reader implements the interface.
var _ driven.PDFReader = (*Reader)(nil)

// Reader implements driven.PDFReader.
type Reader struct{}

// New creates a PDF reader.
func New() *Reader {
	return &Reader{}
}

// pdfDate matches the "D:YYYYMMDD" prefix of a PDF date string.
var pdfDate = regexp.MustCompile(`^D:(\d{4})(\d{2})(\d{2})`)

// Metadata extracts title, authors and date from the document
// information dictionary. Any parse failure falls back to the stem of
// fileName with empty authors and date.
func (r *Reader) Metadata(data []byte, fileName string) (meta domain.PDFMetadata) {
	fallback := domain.PDFMetadata{Title: textutil.Normalize(textutil.Stem(fileName), "")}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Debug("pdf metadata for %s: %v", fileName, rec)
			meta = fallback
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Debug("pdf metadata for %s: %v", fileName, err)
		return fallback
	}

	info := doc.Trailer().Key("Info")
	meta = fallback
	if title := infoString(info, "Title"); title != "" {
		meta.Title = title
	}
	meta.Authors = infoString(info, "Author")

	raw := infoString(info, "CreationDate")
	if raw == "" {
		raw = infoString(info, "ModDate")
	}
	meta.Date = FormatDate(raw)
	if raw != "" && meta.Date == "" {
		logger.Debug("pdf metadata for %s: unrecognised date %q", fileName, raw)
	}
	return meta
}

// FormatDate converts a PDF date ("D:20230115101500") to "2023-01-15".
// Any other format yields the empty string.
func FormatDate(raw string) string {
	m := pdfDate.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}

// infoString returns a normalised string entry of the info dictionary.
// UTF-16 strings are decoded by the PDF library; everything else is
// treated as raw bytes so Latin-1 metadata survives.
func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	raw := v.RawString()
	if strings.HasPrefix(raw, "\xfe\xff") || strings.HasPrefix(raw, "\xff\xfe") {
		return textutil.Normalize(v.Text(), "")
	}
	return textutil.NormalizeBytes([]byte(raw))
}

// Pages returns the plain text of every page in order.
// Pages whose text cannot be extracted are returned empty.
func (r *Reader) Pages(ctx context.Context, data []byte) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("reading pdf: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	n := doc.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("page %d: %v", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
