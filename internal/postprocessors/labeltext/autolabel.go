package labeltext

import (
	"context"
	"fmt"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
)

// MarkerFunc is the typst function wrapping a citation.
const MarkerFunc = "lb"

// AutoLabel wraps every paragraph in a numbered citation marker and keeps
// the original lines as comments beneath it. Numbering runs across pages.
type AutoLabel struct{}

// NewAutoLabel creates the processor.
func NewAutoLabel() *AutoLabel { return &AutoLabel{} }

// Name returns the processor name.
func (a *AutoLabel) Name() string { return domain.ProcessorAutoLabel }

// Process labels the paragraphs of all pages.
func (a *AutoLabel) Process(ctx context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error) {
	n := 0
	return mapPages(ctx, pages, func(text string) string {
		paragraphs := splitParagraphs(text)
		out := make([]string, 0, len(paragraphs))
		for _, para := range paragraphs {
			var comments, body []string
			for _, line := range para {
				if isComment(line) {
					comments = append(comments, line)
				} else {
					body = append(body, strings.TrimSpace(line))
				}
			}
			if len(body) == 0 {
				out = append(out, strings.Join(para, "\n"))
				continue
			}
			n++
			block := append([]string(nil), comments...)
			block = append(block, Marker(fmt.Sprintf("l%d", n), strings.Join(body, " ")))
			for _, line := range body {
				block = append(block, CommentPrefix+line)
			}
			out = append(out, strings.Join(block, "\n"))
		}
		return strings.Join(out, "\n\n")
	})
}

// Marker renders a citation marker around markup.
func Marker(key, markup string) string {
	return fmt.Sprintf("#%s(%q)[%s]", MarkerFunc, key, markup)
}

// splitParagraphs groups non-blank lines separated by blank lines.
func splitParagraphs(text string) [][]string {
	var paragraphs [][]string
	var current []string
	for _, line := range splitLines(text) {
		if isBlank(line) {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs
}
