package labeltext

import (
	"context"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
)

// Sentences inserts a blank line after every line ending in ".", "!" or "?"
// so that sentences become separate paragraphs.
type Sentences struct{}

// NewSentences creates the processor.
func NewSentences() *Sentences { return &Sentences{} }

// Name returns the processor name.
func (s *Sentences) Name() string { return domain.ProcessorSentences }

// Process segments every page.
func (s *Sentences) Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error) {
	return mapPages(ctx, pages, func(text string) string {
		lines := splitLines(text)
		out := make([]string, 0, len(lines)*2)
		for _, line := range lines {
			out = append(out, line)
			trimmed := strings.TrimRight(line, " \t")
			if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
				out = append(out, "")
			}
		}
		return strings.Join(out, "\n")
	})
}
