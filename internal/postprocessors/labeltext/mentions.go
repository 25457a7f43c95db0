package labeltext

import (
	"context"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
)

// Mentions comments out lines containing "@", which are mostly e-mail
// addresses and signatures rather than quotable text.
type Mentions struct{}

// NewMentions creates the processor.
func NewMentions() *Mentions { return &Mentions{} }

// Name returns the processor name.
func (m *Mentions) Name() string { return domain.ProcessorMentions }

// Process comments out mention lines on every page.
func (m *Mentions) Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error) {
	return mapPages(ctx, pages, func(text string) string {
		lines := splitLines(text)
		for i, line := range lines {
			if strings.Contains(line, "@") && !isComment(line) {
				lines[i] = CommentPrefix + line
			}
		}
		return strings.Join(lines, "\n")
	})
}
