package labeltext

import (
	"context"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
)

// BlankLines collapses runs of blank lines to one and trims blank lines
// at the start and end of a page.
type BlankLines struct{}

// NewBlankLines creates the processor.
func NewBlankLines() *BlankLines { return &BlankLines{} }

// Name returns the processor name.
func (b *BlankLines) Name() string { return domain.ProcessorBlankLines }

// Process collapses blank lines on every page.
func (b *BlankLines) Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error) {
	return mapPages(ctx, pages, collapseBlankLines)
}

func collapseBlankLines(text string) string {
	lines := splitLines(text)
	out := make([]string, 0, len(lines))
	blank := true // drops leading blank lines
	for _, line := range lines {
		if isBlank(line) {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
