// Command evid collects evidence documents and compiles citations from them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/evid-cli/evid/internal/adapters/driven/config/file"
	"github.com/evid-cli/evid/internal/adapters/driven/fetch"
	"github.com/evid-cli/evid/internal/adapters/driven/pdf"
	"github.com/evid-cli/evid/internal/adapters/driven/storage/filesystem"
	"github.com/evid-cli/evid/internal/adapters/driven/storage/sqlite"
	"github.com/evid-cli/evid/internal/adapters/driven/tools"
	"github.com/evid-cli/evid/internal/adapters/driven/watch"
	"github.com/evid-cli/evid/internal/adapters/driving/cli"
	"github.com/evid-cli/evid/internal/core/services"
	"github.com/evid-cli/evid/internal/logger"
	"github.com/evid-cli/evid/internal/normalisers/html"
	"github.com/evid-cli/evid/internal/postprocessors"
	"github.com/evid-cli/evid/internal/postprocessors/labeltext"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetServiceBuilder(buildServices)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildServices wires the driven adapters into the core services.
func buildServices(_ context.Context, directory string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	storageDir := settings.StorageDir
	if directory != "" {
		if storageDir, err = filepath.Abs(directory); err != nil {
			return nil, fmt.Errorf("resolving storage directory: %w", err)
		}
	}
	logger.Debug("storage directory: %s", storageDir)

	store := filesystem.NewStore(storageDir)
	catalog, err := sqlite.NewCatalog("")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	pipeline, err := postprocessors.DefaultRegistry().BuildPipeline(settings.Label.Processors)
	if err != nil {
		_ = catalog.Close()
		return nil, fmt.Errorf("building label pipeline: %w", err)
	}

	runner := tools.NewExecRunner()
	typst := tools.NewTypst(runner, settings.TypstQuery, settings.TypstCompile)
	opener := tools.NewOpener(runner)
	reader := pdf.New()
	excludeNote := settings.Bibliography.ExcludeNote

	bib := services.NewBibliographyService(store, store, typst, watch.New(0), settings.Bibliography.Parallel)
	labels := services.NewLabelService(
		store, store, reader, pipeline, labeltext.NewAutoLabel(),
		tools.NewEditor(runner, settings.Editor), bib, excludeNote,
	)

	return &cli.Services{
		Datasets:     services.NewDatasetService(store, store, tools.NewGit(runner)),
		Evidence:     services.NewEvidenceService(store, store, store, fetch.New(), reader, catalog, labels, opener, html.New()),
		Labels:       labels,
		Bibliography: bib,
		Rebuttal:     services.NewRebuttalService(store, bib, typst, opener, excludeNote),
		Settings:     settingsService,
		Close:        catalog.Close,
	}, nil
}
