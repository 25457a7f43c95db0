package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/core/ports/driving"
	"github.com/evid-cli/evid/internal/logger"
)

// Ensure BibliographyService implements the interface.
var _ driving.BibliographyService = (*BibliographyService)(nil)

// EmojiPlaceholder replaces emoji in bibliography fields.
const EmojiPlaceholder = "[EMOJI]"

var (
	escapedChar   = regexp.MustCompile(`\\(.)`)
	braceFragment = regexp.MustCompile(`\{[^{}]*\}`)
	emoji         = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{1F1E6}-\x{1F1FF}]\x{FE0F}?|\x{FE0F}`)
	braceStripper = strings.NewReplacer("{", "", "}", "", "\r", "", "\n", " ")
)

// BibliographyService compiles label.bib files from label documents.
type BibliographyService struct {
	docs      driven.DocumentStore
	artifacts driven.ArtifactStore
	typst     driven.Typesetter
	watcher   driven.FileWatcher
	parallel  int
}

// NewBibliographyService creates a new bibliography service.
// parallel bounds the number of concurrent items in parallel bulk runs.
func NewBibliographyService(
	docs driven.DocumentStore,
	artifacts driven.ArtifactStore,
	typst driven.Typesetter,
	watcher driven.FileWatcher,
	parallel int,
) *BibliographyService {
	if parallel < 1 {
		parallel = 1
	}
	return &BibliographyService{
		docs:      docs,
		artifacts: artifacts,
		typst:     typst,
		watcher:   watcher,
		parallel:  parallel,
	}
}

// FromLabel queries labelPath, stores the export as label.json and
// compiles label.bib in the same directory.
func (s *BibliographyService) FromLabel(ctx context.Context, labelPath string, excludeNote bool) (domain.BibResult, error) {
	result := domain.BibResult{Path: labelPath}
	if s.typst == nil {
		return result, fmt.Errorf("typesetter: %w", domain.ErrNotConfigured)
	}
	export, err := s.typst.Query(ctx, labelPath)
	if err != nil {
		return result, fmt.Errorf("query %s: %w", labelPath, err)
	}
	dir := filepath.Dir(labelPath)
	if err := s.artifacts.Write(ctx, filepath.Join(dir, domain.ExportFileName), export); err != nil {
		return result, fmt.Errorf("write export: %w", err)
	}
	return s.compile(ctx, result, dir, export, excludeNote)
}

// Compile renders label.bib from an existing export file.
func (s *BibliographyService) Compile(ctx context.Context, exportPath string, excludeNote bool) (domain.BibResult, error) {
	result := domain.BibResult{Path: exportPath}
	export, err := s.artifacts.Read(ctx, exportPath)
	if err != nil {
		return result, fmt.Errorf("read export: %w", err)
	}
	return s.compile(ctx, result, filepath.Dir(exportPath), export, excludeNote)
}

func (s *BibliographyService) compile(
	ctx context.Context, result domain.BibResult, dir string, export []byte, excludeNote bool,
) (domain.BibResult, error) {
	records, err := ParseExport(export)
	if err != nil {
		return result, fmt.Errorf("%s: %w", result.Path, err)
	}
	rec, err := s.docs.ReadRecord(ctx, dir)
	if err != nil {
		return result, fmt.Errorf("record for %s: %w", result.Path, err)
	}

	entries := BuildEntries(rec, records, excludeNote)
	output := filepath.Join(dir, domain.BibFileName)
	if err := s.artifacts.Write(ctx, output, RenderBib(entries)); err != nil {
		return result, fmt.Errorf("write %s: %w", output, err)
	}
	result.Output = output
	result.Entries = len(entries)
	logger.Debug("compiled %s: %d entries", output, len(entries))
	return result, nil
}

// GenerateAll compiles every path. label.json inputs are compiled
// directly, anything else is queried first. When parallel is set, up to
// the configured number of items run at once.
func (s *BibliographyService) GenerateAll(
	ctx context.Context, paths []string, parallel bool, excludeNote bool,
) []domain.BibResult {
	results := make([]domain.BibResult, len(paths))

	var g errgroup.Group
	if parallel {
		g.SetLimit(s.parallel)
	} else {
		g.SetLimit(1)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = domain.BibResult{Path: path, Err: err}
				return nil
			}
			var (
				res domain.BibResult
				err error
			)
			if filepath.Base(path) == domain.ExportFileName || strings.EqualFold(filepath.Ext(path), ".json") {
				res, err = s.Compile(ctx, path, excludeNote)
			} else {
				res, err = s.FromLabel(ctx, path, excludeNote)
			}
			res.Err = err
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Watch compiles the bibliography now and after every change to labelPath.
func (s *BibliographyService) Watch(
	ctx context.Context, labelPath string, excludeNote bool, report func(domain.BibResult),
) error {
	if s.watcher == nil {
		return fmt.Errorf("watcher: %w", domain.ErrNotConfigured)
	}
	run := func() {
		res, err := s.FromLabel(ctx, labelPath, excludeNote)
		res.Err = err
		report(res)
	}
	run()
	return s.watcher.Watch(ctx, labelPath, run)
}

// exportItem is one element of the query tool's JSON output.
type exportItem struct {
	Value map[string]any `json:"value"`
}

// ParseExport decodes the structured export of a label document.
// An empty list, malformed JSON or an item without a key is an error
// wrapping domain.ErrInvalidExport.
func ParseExport(data []byte) ([]domain.ExportRecord, error) {
	var items []exportItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidExport, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no labels", domain.ErrInvalidExport)
	}

	records := make([]domain.ExportRecord, 0, len(items))
	for i, item := range items {
		key := exportString(item.Value["key"])
		if key == "" {
			return nil, fmt.Errorf("%w: item %d has no key", domain.ErrInvalidExport, i)
		}
		records = append(records, domain.ExportRecord{
			Key:   key,
			Text:  exportString(item.Value["text"]),
			Title: exportString(item.Value["title"]),
			Date:  exportString(item.Value["date"]),
			Page:  exportPage(item.Value["opage"]),
			Note:  exportString(item.Value["note"]),
		})
	}
	return records, nil
}

func exportString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func exportPage(v any) *int {
	var n int
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return nil
		}
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}

// BuildEntries renders the main entry followed by one entry per export
// record, in input order.
func BuildEntries(rec domain.Record, records []domain.ExportRecord, excludeNote bool) []domain.BibEntry {
	prefix := rec.IDPrefix()
	entries := make([]domain.BibEntry, 0, len(records)+1)

	main := domain.BibEntry{Type: "article", Key: prefix + ":" + domain.MainKeySuffix}
	main.Fields = appendField(main.Fields, "title", rec.Title)
	main.Fields = appendField(main.Fields, "author", rec.Authors)
	main.Fields = appendField(main.Fields, "date", firstDate(rec.Dates))
	main.Fields = appendField(main.Fields, "url", rec.URL)
	entries = append(entries, main)

	noteField := "note"
	if excludeNote {
		noteField = "nonote"
	}

	for _, r := range records {
		e := domain.BibEntry{Type: "article", Key: prefix + ":" + r.Key}
		e.Fields = appendField(e.Fields, "title", cleanText(r.Text))
		if journal := cleanJournal(r.Title); journal != domain.PlaceholderName {
			e.Fields = appendField(e.Fields, "journal", journal)
		}
		if isDate(r.Date) {
			e.Fields = appendField(e.Fields, "date", strings.TrimSpace(r.Date))
		}
		if r.Page != nil {
			e.Fields = appendField(e.Fields, "pages", strconv.Itoa(*r.Page+1))
		}
		e.Fields = appendField(e.Fields, "url", rec.URL)
		e.Fields = append(e.Fields, domain.BibField{Name: noteField, Value: replaceEmoji(r.Note)})
		entries = append(entries, e)
	}
	return entries
}

// appendField adds a non-empty field with emoji replaced.
func appendField(fields []domain.BibField, name, value string) []domain.BibField {
	if value == "" {
		return fields
	}
	return append(fields, domain.BibField{Name: name, Value: replaceEmoji(value)})
}

// cleanText strips backslash escapes, turns underscores into spaces and
// collapses whitespace.
func cleanText(s string) string {
	s = escapedChar.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// cleanJournal is cleanText after dropping {...} formatting fragments.
func cleanJournal(s string) string {
	return cleanText(braceFragment.ReplaceAllString(s, ""))
}

func replaceEmoji(s string) string {
	return emoji.ReplaceAllString(s, EmojiPlaceholder)
}

func isDate(s string) bool {
	_, err := time.Parse(DateLayout, strings.TrimSpace(s))
	return err == nil
}

// firstDate returns the first calendar date in a comma-separated list.
func firstDate(dates string) string {
	for _, d := range strings.Split(dates, ",") {
		if isDate(d) {
			return strings.TrimSpace(d)
		}
	}
	return ""
}

// RenderBib writes entries in BibLaTeX syntax, one field per line.
// Braces inside values are dropped and line breaks become spaces.
func RenderBib(entries []domain.BibEntry) []byte {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "  %s = {%s},\n", f.Name, braceStripper.Replace(f.Value))
		}
		b.WriteString("}\n")
	}
	return []byte(b.String())
}

// bibEntryStart and bibField match the subset of BibLaTeX written by RenderBib.
var (
	bibEntryStart = regexp.MustCompile(`^@(\w+)\{([^,\s]+),\s*$`)
	bibField      = regexp.MustCompile(`^\s*(\w+)\s*=\s*\{(.*)\},?\s*$`)
)

// ParseBib reads a bibliography written by RenderBib.
func ParseBib(data []byte) ([]domain.BibEntry, error) {
	var (
		entries []domain.BibEntry
		current *domain.BibEntry
	)
	for n, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case current == nil:
			m := bibEntryStart.FindStringSubmatch(trimmed)
			if m == nil {
				return nil, fmt.Errorf("line %d: expected entry start: %w", n+1, errBadBibliography)
			}
			current = &domain.BibEntry{Type: m[1], Key: m[2]}
		case trimmed == "}":
			entries = append(entries, *current)
			current = nil
		default:
			m := bibField.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: expected field: %w", n+1, errBadBibliography)
			}
			current.Fields = append(current.Fields, domain.BibField{Name: m[1], Value: m[2]})
		}
	}
	if current != nil {
		return nil, fmt.Errorf("entry %s is not closed: %w", current.Key, errBadBibliography)
	}
	return entries, nil
}

var errBadBibliography = errors.New("malformed bibliography")
