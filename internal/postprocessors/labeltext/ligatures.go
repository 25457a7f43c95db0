package labeltext

import (
	"context"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
)

var ligatureReplacer = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
)

// Ligatures expands typographic ligatures.
type Ligatures struct{}

// NewLigatures creates the processor.
func NewLigatures() *Ligatures { return &Ligatures{} }

// Name returns the processor name.
func (l *Ligatures) Name() string { return domain.ProcessorLigatures }

// Process expands ligatures on every page.
func (l *Ligatures) Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error) {
	return mapPages(ctx, pages, ligatureReplacer.Replace)
}
