package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/core/ports/driving"
	"github.com/evid-cli/evid/internal/logger"
	"github.com/evid-cli/evid/internal/textutil"
)

// Ensure LabelService implements the interface.
var _ driving.LabelService = (*LabelService)(nil)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// labelData feeds templates/label.typ.tmpl.
type labelData struct {
	Name        string
	TitleString string
	DateString  string
	Heading     string
	DateText    string
	Paged       bool
	Pages       []domain.LabelPage
}

// LabelService writes label documents and hands them to the editor.
type LabelService struct {
	docs        driven.DocumentStore
	artifacts   driven.ArtifactStore
	pdf         driven.PDFReader
	pipeline    driven.PostProcessorPipeline
	autoLabel   driven.PostProcessor
	editor      driven.Editor
	bib         driving.BibliographyService
	excludeNote bool
}

// NewLabelService creates a new label service. pipeline cleans page text;
// autoLabel runs after it when auto-labelling is requested.
func NewLabelService(
	docs driven.DocumentStore,
	artifacts driven.ArtifactStore,
	pdf driven.PDFReader,
	pipeline driven.PostProcessorPipeline,
	autoLabel driven.PostProcessor,
	editor driven.Editor,
	bib driving.BibliographyService,
	excludeNote bool,
) *LabelService {
	return &LabelService{
		docs:        docs,
		artifacts:   artifacts,
		pdf:         pdf,
		pipeline:    pipeline,
		autoLabel:   autoLabel,
		editor:      editor,
		bib:         bib,
		excludeNote: excludeNote,
	}
}

// Generate writes label.typ next to sourcePath unless it already exists.
func (s *LabelService) Generate(ctx context.Context, sourcePath string, autoLabel bool) (string, bool, error) {
	dir := filepath.Dir(sourcePath)
	labelPath := filepath.Join(dir, domain.LabelFileName)

	if _, err := s.artifacts.Read(ctx, labelPath); err == nil {
		logger.Debug("%s exists, leaving it untouched", labelPath)
		return labelPath, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", false, err
	}

	content, err := s.artifacts.Read(ctx, sourcePath)
	if err != nil {
		return "", false, fmt.Errorf("read source: %w", err)
	}

	data := labelData{
		Name:        filepath.Base(sourcePath),
		TitleString: textutil.QuoteString(domain.PlaceholderName),
		DateString:  textutil.QuoteString(domain.PlaceholderDate),
		Heading:     domain.PlaceholderName,
		DateText:    domain.PlaceholderDate,
	}
	rec, err := s.docs.ReadRecord(ctx, dir)
	if err != nil {
		logger.Warn("no usable record for %s, using placeholders: %v", sourcePath, err)
	} else {
		data.TitleString = textutil.QuoteString(rec.Title)
		data.DateString = textutil.QuoteString(rec.Dates)
		data.Heading = textutil.EscapeMarkup(rec.Title)
		data.DateText = textutil.EscapeMarkup(rec.Dates)
	}

	pages, paged, err := s.pages(ctx, sourcePath, content)
	if err != nil {
		return "", false, err
	}
	if pages, err = s.process(ctx, pages, autoLabel); err != nil {
		return "", false, err
	}
	data.Pages = pages
	data.Paged = paged

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "label.typ.tmpl", data); err != nil {
		return "", false, fmt.Errorf("render label document: %w", err)
	}

	created, err := s.artifacts.CreateExclusive(ctx, labelPath, buf.Bytes())
	if err != nil {
		return "", false, fmt.Errorf("write %s: %w", labelPath, err)
	}
	if created {
		logger.Info("wrote %s", labelPath)
	}
	return labelPath, created, nil
}

// pages returns the markup pages of a stored source. PDF text is escaped
// here; stored text sources were escaped when they were ingested.
func (s *LabelService) pages(ctx context.Context, sourcePath string, content []byte) ([]domain.LabelPage, bool, error) {
	if !strings.EqualFold(filepath.Ext(sourcePath), ".pdf") {
		return []domain.LabelPage{{Index: 0, Text: textutil.NormalizeBytes(content)}}, false, nil
	}
	if s.pdf == nil {
		return nil, false, fmt.Errorf("pdf reader: %w", domain.ErrNotConfigured)
	}
	texts, err := s.pdf.Pages(ctx, content)
	if err != nil {
		return nil, false, fmt.Errorf("extract pages of %s: %w", sourcePath, err)
	}
	pages := make([]domain.LabelPage, len(texts))
	for i, text := range texts {
		pages[i] = domain.LabelPage{Index: i, Text: textutil.EscapeMarkup(text)}
	}
	return pages, true, nil
}

func (s *LabelService) process(ctx context.Context, pages []domain.LabelPage, autoLabel bool) ([]domain.LabelPage, error) {
	var err error
	if s.pipeline != nil {
		if pages, err = s.pipeline.Process(ctx, pages); err != nil {
			return nil, fmt.Errorf("clean label text: %w", err)
		}
	}
	if autoLabel && s.autoLabel != nil {
		if pages, err = s.autoLabel.Process(ctx, pages); err != nil {
			return nil, fmt.Errorf("auto-label: %w", err)
		}
	}
	return pages, nil
}

// Label generates the label document, waits for the editor and then
// compiles the bibliography. The label document is kept on failure.
func (s *LabelService) Label(ctx context.Context, sourcePath string, autoLabel bool) (string, error) {
	labelPath, _, err := s.Generate(ctx, sourcePath, autoLabel)
	if err != nil {
		return "", err
	}
	if s.editor == nil {
		return labelPath, fmt.Errorf("editor: %w", domain.ErrNotConfigured)
	}
	if err := s.editor.Edit(ctx, labelPath); err != nil {
		return labelPath, fmt.Errorf("edit %s: %w", labelPath, err)
	}
	if s.bib == nil {
		return labelPath, nil
	}
	result, err := s.bib.FromLabel(ctx, labelPath, s.excludeNote)
	if err != nil {
		return labelPath, fmt.Errorf("bibliography: %w", err)
	}
	logger.Info("wrote %s (%d entries)", result.Output, result.Entries)
	return labelPath, nil
}
