package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/core/ports/driving"
	"github.com/evid-cli/evid/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// GitIgnoreFile is the ignore file written when tracking the storage directory.
const GitIgnoreFile = ".gitignore"

// trackedPatterns keeps sources, records and typst/bib artifacts under
// version control and ignores everything else, including compiled labels.
var trackedPatterns = []string{
	"*/*",
	"!label.bib",
	"!*.typ",
	"!info.yml",
	"!*.pdf",
	"!*.txt",
	"*/label.pdf",
}

// DatasetService manages datasets below the storage root.
type DatasetService struct {
	store     driven.DatasetStore
	artifacts driven.ArtifactStore
	vcs       driven.VersionControl
}

// NewDatasetService creates a new dataset service.
func NewDatasetService(store driven.DatasetStore, artifacts driven.ArtifactStore, vcs driven.VersionControl) *DatasetService {
	return &DatasetService{
		store:     store,
		artifacts: artifacts,
		vcs:       vcs,
	}
}

// List returns all datasets.
func (s *DatasetService) List(ctx context.Context) ([]domain.Dataset, error) {
	return s.store.ListDatasets(ctx)
}

// Create makes a new dataset.
func (s *DatasetService) Create(ctx context.Context, name string) (domain.Dataset, error) {
	ds, err := s.store.CreateDataset(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Dataset{}, err
	}
	logger.Info("created dataset %s at %s", ds.Name, ds.Path)
	return ds, nil
}

// Get returns a dataset.
func (s *DatasetService) Get(ctx context.Context, name string) (domain.Dataset, error) {
	return s.store.GetDataset(ctx, strings.TrimSpace(name))
}

// Track initialises a repository in the storage root, writes the
// ignore file and commits it.
func (s *DatasetService) Track(ctx context.Context) error {
	if s.vcs == nil {
		return fmt.Errorf("version control: %w", domain.ErrNotConfigured)
	}
	root := s.store.Root()
	if err := s.vcs.Init(ctx, root); err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	ignore := strings.Join(trackedPatterns, "\n") + "\n"
	if err := s.artifacts.Write(ctx, filepath.Join(root, GitIgnoreFile), []byte(ignore)); err != nil {
		return fmt.Errorf("write %s: %w", GitIgnoreFile, err)
	}
	if err := s.vcs.Commit(ctx, root, "Initial commit", GitIgnoreFile); err != nil {
		return fmt.Errorf("commit %s: %w", GitIgnoreFile, err)
	}
	logger.Info("tracking %s", root)
	return nil
}
