package driven

import (
	"context"

	"github.com/evid-cli/evid/internal/core/domain"
)

// PostProcessor transforms the page markup of a label document.
// PostProcessors are chained in a pipeline (ligatures, comments, segmentation).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process receives all pages and returns the transformed pages.
	Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the pages through all processors in order.
	Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error)
}
