package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/core/ports/driving"
	"github.com/evid-cli/evid/internal/logger"
)

// Ensure RebuttalService implements the interface.
var _ driving.RebuttalService = (*RebuttalService)(nil)

// rebuttalPoint is one citation stub of a rebuttal draft.
type rebuttalPoint struct {
	Key   string
	Notes []string
}

type rebuttalData struct {
	Points       []rebuttalPoint
	Bibliography string
}

// RebuttalService drafts rebut.typ from a bibliography.
type RebuttalService struct {
	artifacts   driven.ArtifactStore
	bib         driving.BibliographyService
	typst       driven.Typesetter
	opener      driven.Opener
	excludeNote bool
}

// NewRebuttalService creates a new rebuttal service.
func NewRebuttalService(
	artifacts driven.ArtifactStore,
	bib driving.BibliographyService,
	typst driven.Typesetter,
	opener driven.Opener,
	excludeNote bool,
) *RebuttalService {
	return &RebuttalService{
		artifacts:   artifacts,
		bib:         bib,
		typst:       typst,
		opener:      opener,
		excludeNote: excludeNote,
	}
}

// Compose writes rebut.typ in dir unless it exists. The bibliography
// must exist and hold at least one entry.
func (s *RebuttalService) Compose(ctx context.Context, dir string) (string, bool, error) {
	bibPath := filepath.Join(dir, domain.BibFileName)
	rebutPath := filepath.Join(dir, domain.RebuttalFileName)

	data, err := s.artifacts.Read(ctx, bibPath)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && strings.TrimSpace(string(data)) == "") {
		return "", false, fmt.Errorf("%s: %w", bibPath, domain.ErrBibliographyMissing)
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", bibPath, err)
	}

	entries, err := ParseBib(data)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", bibPath, err)
	}
	if len(entries) == 0 {
		return "", false, fmt.Errorf("%s: %w", bibPath, domain.ErrBibliographyMissing)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "rebut.typ.tmpl", rebuttalData{
		Points:       rebuttalPoints(entries),
		Bibliography: domain.BibFileName,
	}); err != nil {
		return "", false, fmt.Errorf("render rebuttal: %w", err)
	}

	created, err := s.artifacts.CreateExclusive(ctx, rebutPath, buf.Bytes())
	if err != nil {
		return "", false, fmt.Errorf("write %s: %w", rebutPath, err)
	}
	if created {
		logger.Info("wrote %s", rebutPath)
	} else {
		logger.Debug("%s exists, leaving it untouched", rebutPath)
	}
	return rebutPath, created, nil
}

// rebuttalPoints returns one point per entry except the main entry.
func rebuttalPoints(entries []domain.BibEntry) []rebuttalPoint {
	var points []rebuttalPoint
	for _, e := range entries {
		if strings.HasSuffix(e.Key, ":"+domain.MainKeySuffix) {
			continue
		}
		note, ok := e.Field("note")
		if !ok {
			note, _ = e.Field("nonote")
		}
		var notes []string
		for _, line := range strings.Split(note, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				notes = append(notes, line)
			}
		}
		points = append(points, rebuttalPoint{Key: e.Key, Notes: notes})
	}
	return points
}

// Rebut refreshes label.bib from label.typ when present, composes the
// rebuttal and, if open is set, compiles it and opens dir.
func (s *RebuttalService) Rebut(ctx context.Context, dir string, open bool) (string, error) {
	labelPath := filepath.Join(dir, domain.LabelFileName)
	label, err := s.artifacts.Read(ctx, labelPath)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("no %s, using existing bibliography", labelPath)
	case err != nil:
		return "", fmt.Errorf("read %s: %w", labelPath, err)
	case strings.TrimSpace(string(label)) == "":
		return "", fmt.Errorf("%s is empty: %w", labelPath, domain.ErrInvalidInput)
	case s.bib != nil:
		if _, err := s.bib.FromLabel(ctx, labelPath, s.excludeNote); err != nil {
			return "", fmt.Errorf("bibliography: %w", err)
		}
	}

	rebutPath, _, err := s.Compose(ctx, dir)
	if err != nil {
		return "", err
	}
	if !open {
		return rebutPath, nil
	}

	if s.typst == nil || s.opener == nil {
		return rebutPath, fmt.Errorf("open rebuttal: %w", domain.ErrNotConfigured)
	}
	if err := s.typst.Compile(ctx, rebutPath); err != nil {
		return rebutPath, fmt.Errorf("compile %s: %w", rebutPath, err)
	}
	if err := s.opener.Open(ctx, dir); err != nil {
		return rebutPath, fmt.Errorf("open %s: %w", dir, err)
	}
	return rebutPath, nil
}
