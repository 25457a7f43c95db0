package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/logger"
)

// Ensure Store implements the storage interfaces.
var (
	_ driven.DatasetStore  = (*Store)(nil)
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.ArtifactStore = (*Store)(nil)
)

// Store is a directory-backed dataset, document and artifact store.
type Store struct {
	root string
}

// NewStore creates a store rooted at root. The directory is created lazily.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// ListDatasets returns all datasets sorted by name.
func (s *Store) ListDatasets(_ context.Context) ([]domain.Dataset, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	var sets []domain.Dataset
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		sets = append(sets, domain.Dataset{Name: e.Name(), Path: filepath.Join(s.root, e.Name())})
	}
	return sets, nil
}

// GetDataset returns a dataset or domain.ErrNotFound.
func (s *Store) GetDataset(_ context.Context, name string) (domain.Dataset, error) {
	if err := validateDatasetName(name); err != nil {
		return domain.Dataset{}, err
	}
	path := filepath.Join(s.root, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return domain.Dataset{}, fmt.Errorf("dataset %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset %q: %w", name, err)
	}
	return domain.Dataset{Name: name, Path: path}, nil
}

// CreateDataset makes a new dataset directory.
func (s *Store) CreateDataset(_ context.Context, name string) (domain.Dataset, error) {
	if err := validateDatasetName(name); err != nil {
		return domain.Dataset{}, err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return domain.Dataset{}, fmt.Errorf("create storage directory: %w", err)
	}
	path := filepath.Join(s.root, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.Dataset{}, fmt.Errorf("dataset %q: %w", name, domain.ErrAlreadyExists)
		}
		return domain.Dataset{}, fmt.Errorf("create dataset %q: %w", name, err)
	}
	return domain.Dataset{Name: name, Path: path}, nil
}

func validateDatasetName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") {
		return fmt.Errorf("dataset name %q: %w", name, domain.ErrInvalidInput)
	}
	return nil
}

// Exists reports whether a document directory exists.
func (s *Store) Exists(_ context.Context, dataset, id string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, dataset, id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateDocument writes a new document directory with its content and record.
// The record is validated first so that a rejected record leaves nothing
// behind. A failed write removes the partially written directory.
func (s *Store) CreateDocument(_ context.Context, dataset string, raw *domain.RawDocument, rec domain.Record) (domain.Document, error) {
	if err := rec.Validate(); err != nil {
		return domain.Document{}, fmt.Errorf("validate record: %w", err)
	}
	if raw == nil {
		return domain.Document{}, fmt.Errorf("no content: %w", domain.ErrInvalidInput)
	}
	if rec.OriginalName == domain.RecordFileName || filepath.Base(rec.OriginalName) != rec.OriginalName {
		return domain.Document{}, fmt.Errorf("file name %q: %w", rec.OriginalName, domain.ErrInvalidInput)
	}

	dir := filepath.Join(s.root, dataset, rec.ID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.Document{}, fmt.Errorf("document %s: %w", rec.ID, domain.ErrAlreadyExists)
		}
		return domain.Document{}, fmt.Errorf("create document directory: %w", err)
	}

	doc := domain.Document{Dataset: dataset, Dir: dir, Record: rec}
	if err := writeDocument(doc, raw.Content); err != nil {
		_ = os.RemoveAll(dir)
		return domain.Document{}, err
	}
	return doc, nil
}

func writeDocument(doc domain.Document, content []byte) error {
	if err := os.WriteFile(doc.SourcePath(), content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", doc.Record.OriginalName, err)
	}
	data, err := MarshalRecord(doc.Record)
	if err != nil {
		return err
	}
	if err := os.WriteFile(doc.ArtifactPath(domain.RecordFileName), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", domain.RecordFileName, err)
	}
	return nil
}

// GetDocument loads a single document.
func (s *Store) GetDocument(ctx context.Context, dataset, id string) (domain.Document, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return domain.Document{}, fmt.Errorf("document id %q: %w", id, domain.ErrInvalidInput)
	}
	dir := filepath.Join(s.root, dataset, id)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return domain.Document{}, err
	}
	rec, err := s.ReadRecord(ctx, dir)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Dataset: dataset, Dir: dir, Record: rec}, nil
}

// ListDocuments returns the documents of a dataset with a valid record,
// ordered by directory name. Invalid or missing records are skipped.
func (s *Store) ListDocuments(ctx context.Context, dataset string) ([]domain.Document, error) {
	base := filepath.Join(s.root, dataset)
	entries, err := os.ReadDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dataset %q: %w", dataset, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var docs []domain.Document
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(base, e.Name())
		rec, err := s.ReadRecord(ctx, dir)
		if err != nil {
			logger.Warn("skipping %s: %v", dir, err)
			continue
		}
		docs = append(docs, domain.Document{Dataset: dataset, Dir: dir, Record: rec})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Record.ID < docs[j].Record.ID
	})
	return docs, nil
}

// ReadRecord loads and validates info.yml in dir.
func (s *Store) ReadRecord(_ context.Context, dir string) (domain.Record, error) {
	path := filepath.Join(dir, domain.RecordFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Record{}, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Record{}, err
	}
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// MarshalRecord encodes a record as YAML.
func MarshalRecord(rec domain.Record) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// UnmarshalRecord decodes and validates a YAML record.
// Syntax errors and non-mapping documents are reported as invalid records.
func UnmarshalRecord(data []byte) (domain.Record, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if fields == nil {
		return domain.Record{}, fmt.Errorf("%w: empty record", domain.ErrInvalidRecord)
	}
	return domain.ParseRecord(fields)
}
