package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/core/ports/driving"
	"github.com/evid-cli/evid/internal/logger"
	"github.com/evid-cli/evid/internal/textutil"
)

// Ensure EvidenceService implements the interface.
var _ driving.EvidenceService = (*EvidenceService)(nil)

// DateLayout is the calendar date format used in records.
const DateLayout = "2006-01-02"

const pdfMIMEType = "application/pdf"

var pdfMagic = []byte("%PDF-")

// EvidenceService ingests sources into datasets and looks documents up.
type EvidenceService struct {
	datasets    driven.DatasetStore
	docs        driven.DocumentStore
	artifacts   driven.ArtifactStore
	fetcher     driven.Fetcher
	pdf         driven.PDFReader
	catalog     driven.Catalog
	labels      driving.LabelService
	opener      driven.Opener
	normalisers []driven.Normaliser
	now         func() time.Time
}

// NewEvidenceService creates a new evidence service.
// The first normaliser is the fallback for content types nobody claims.
func NewEvidenceService(
	datasets driven.DatasetStore,
	docs driven.DocumentStore,
	artifacts driven.ArtifactStore,
	fetcher driven.Fetcher,
	pdf driven.PDFReader,
	catalog driven.Catalog,
	labels driving.LabelService,
	opener driven.Opener,
	normalisers ...driven.Normaliser,
) *EvidenceService {
	return &EvidenceService{
		datasets:    datasets,
		docs:        docs,
		artifacts:   artifacts,
		fetcher:     fetcher,
		pdf:         pdf,
		catalog:     catalog,
		labels:      labels,
		opener:      opener,
		normalisers: normalisers,
		now:         time.Now,
	}
}

// resolvedSource is source content ready to be stored.
type resolvedSource struct {
	raw *domain.RawDocument

	// title is the markup title of a text source, if it declared one.
	title string
}

// Add ingests a local PDF or a URL into dataset.
func (s *EvidenceService) Add(
	ctx context.Context, dataset, source string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	ds, err := s.datasets.GetDataset(ctx, dataset)
	if err != nil {
		return nil, err
	}

	src, err := s.resolve(ctx, source)
	if err != nil {
		return nil, err
	}

	id := ContentID(src.raw.Content)
	exists, err := s.docs.Exists(ctx, ds.Name, id)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", id, err)
	}
	if exists {
		logger.Info("%s already added as %s", source, id)
		return duplicate(ds, id), nil
	}

	rec := s.buildRecord(ctx, id, src, opts)
	doc, err := s.docs.CreateDocument(ctx, ds.Name, src.raw, rec)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return duplicate(ds, id), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("added %s to %s as %s", rec.OriginalName, ds.Name, id)

	result := &domain.IngestResult{Document: doc}
	if !opts.Label {
		return result, nil
	}
	if s.labels == nil {
		return result, fmt.Errorf("label: %w", domain.ErrNotConfigured)
	}
	path, err := s.labels.Label(ctx, doc.SourcePath(), opts.AutoLabel)
	result.LabelPath = path
	if err != nil {
		return result, fmt.Errorf("label %s: %w", id, err)
	}
	return result, nil
}

func duplicate(ds domain.Dataset, id string) *domain.IngestResult {
	return &domain.IngestResult{
		Document: domain.Document{
			Dataset: ds.Name,
			Dir:     filepath.Join(ds.Path, id),
			Record:  domain.Record{ID: id},
		},
		Duplicate: true,
	}
}

// resolve loads the bytes that will be persisted for source.
func (s *EvidenceService) resolve(ctx context.Context, source string) (*resolvedSource, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty source: %w", domain.ErrInvalidInput)
	}
	if isURL(source) {
		return s.resolveURL(ctx, source)
	}
	return s.resolveFile(ctx, source)
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (s *EvidenceService) resolveFile(ctx context.Context, path string) (*resolvedSource, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%s is not a .pdf file: %w", path, domain.ErrInvalidInput)
	}
	content, err := s.artifacts.Read(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%s does not exist: %w", path, domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &resolvedSource{raw: &domain.RawDocument{
		Name:     textutil.SanitizeFileName(filepath.Base(path)),
		URI:      path,
		MIMEType: pdfMIMEType,
		Kind:     domain.SourcePDF,
		Content:  content,
	}}, nil
}

func (s *EvidenceService) resolveURL(ctx context.Context, url string) (*resolvedSource, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("fetch: %w", domain.ErrNotConfigured)
	}
	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	name := textutil.SanitizeFileName(raw.Name)
	stem := textutil.Stem(name)

	if raw.MIMEType == pdfMIMEType || bytes.HasPrefix(raw.Content, pdfMagic) {
		raw.Kind = domain.SourcePDF
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			name = stem + ".pdf"
		}
		raw.Name = name
		return &resolvedSource{raw: raw}, nil
	}

	normaliser := s.normaliserFor(raw.MIMEType)
	if normaliser == nil {
		return nil, fmt.Errorf("%s (%s): %w", url, raw.MIMEType, domain.ErrUnsupportedSource)
	}
	logger.Debug("normalising %s (%s)", url, raw.MIMEType)
	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", url, err)
	}
	return &resolvedSource{
		raw: &domain.RawDocument{
			Name:     stem + ".txt",
			URI:      url,
			MIMEType: raw.MIMEType,
			Kind:     domain.SourceText,
			Content:  []byte(result.Content),
		},
		title: result.Title,
	}, nil
}

// normaliserFor returns the normaliser for mimeType, or the fallback.
func (s *EvidenceService) normaliserFor(mimeType string) driven.Normaliser {
	for _, n := range s.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if t == mimeType {
				return n
			}
		}
	}
	if len(s.normalisers) > 0 {
		return s.normalisers[0]
	}
	return nil
}

// buildRecord extracts metadata for a resolved source.
func (s *EvidenceService) buildRecord(
	ctx context.Context, id string, src *resolvedSource, opts domain.IngestOptions,
) domain.Record {
	raw := src.raw
	meta := domain.PDFMetadata{Title: textutil.Normalize(textutil.Stem(raw.Name), "")}
	if raw.Kind == domain.SourcePDF && s.pdf != nil {
		meta = s.pdf.Metadata(raw.Content, raw.Name)
	}
	if raw.Kind == domain.SourceText && src.title != "" && meta.Title == "document" {
		meta.Title = textutil.Normalize(src.title, meta.Title)
	}
	if opts.ScanDates && meta.Date == "" {
		meta.Date = s.scanDates(ctx, raw)
	}

	rec := domain.Record{
		OriginalName: raw.Name,
		ID:           id,
		TimeAdded:    s.now().Format(DateLayout),
		Dates:        meta.Date,
		Title:        meta.Title,
		Authors:      meta.Authors,
		Label:        domain.LabelFromTitle(meta.Title),
	}
	if isURL(raw.URI) {
		rec.URL = raw.URI
	}
	return rec
}

// scanDates looks for dates in the body text. Failures only cost the dates.
func (s *EvidenceService) scanDates(ctx context.Context, raw *domain.RawDocument) string {
	text := string(raw.Content)
	if raw.Kind == domain.SourcePDF {
		if s.pdf == nil {
			return ""
		}
		pages, err := s.pdf.Pages(ctx, raw.Content)
		if err != nil {
			logger.Debug("scan dates in %s: %v", raw.Name, err)
			return ""
		}
		text = strings.Join(pages, "\n")
	}
	return strings.Join(ScanDates(text), ", ")
}

// List returns the documents of a dataset.
func (s *EvidenceService) List(ctx context.Context, dataset string) ([]domain.Document, error) {
	return s.docs.ListDocuments(ctx, dataset)
}

// Get returns a document by full id or unique id prefix.
func (s *EvidenceService) Get(ctx context.Context, dataset, id string) (domain.Document, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return domain.Document{}, fmt.Errorf("empty document id: %w", domain.ErrInvalidInput)
	}

	doc, err := s.docs.GetDocument(ctx, dataset, id)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return doc, err
	}

	docs, err := s.docs.ListDocuments(ctx, dataset)
	if err != nil {
		return domain.Document{}, err
	}
	var matches []domain.Document
	for _, d := range docs {
		if strings.HasPrefix(d.Record.ID, id) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Document{}, fmt.Errorf("document %s in %s: %w", id, dataset, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Document{}, fmt.Errorf("id prefix %s matches %d documents: %w",
			id, len(matches), domain.ErrInvalidInput)
	}
}

// Search refreshes the catalog from every dataset and queries it.
func (s *EvidenceService) Search(ctx context.Context, query string) ([]domain.Document, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog: %w", domain.ErrNotConfigured)
	}
	datasets, err := s.datasets.ListDatasets(ctx)
	if err != nil {
		return nil, err
	}
	for _, ds := range datasets {
		docs, err := s.docs.ListDocuments(ctx, ds.Name)
		if err != nil {
			return nil, err
		}
		if err := s.catalog.Replace(ctx, ds.Name, docs); err != nil {
			return nil, fmt.Errorf("index %s: %w", ds.Name, err)
		}
	}
	return s.catalog.Search(ctx, query, -1)
}

// Open shows the document directory with the platform opener.
func (s *EvidenceService) Open(ctx context.Context, doc domain.Document) error {
	if s.opener == nil {
		return fmt.Errorf("opener: %w", domain.ErrNotConfigured)
	}
	if err := s.opener.Open(ctx, doc.Dir); err != nil {
		return fmt.Errorf("open %s: %w", doc.Dir, err)
	}
	return nil
}
