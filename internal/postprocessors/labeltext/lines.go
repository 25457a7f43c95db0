package labeltext

import (
	"context"
	"strings"

	"github.com/evid-cli/evid/internal/core/domain"
)

// CommentPrefix starts a typst line comment.
const CommentPrefix = "// "

// pageFunc transforms the text of a single page.
type pageFunc func(string) string

// mapPages applies fn to every page.
func mapPages(ctx context.Context, pages []domain.LabelPage, fn pageFunc) ([]domain.LabelPage, error) {
	out := make([]domain.LabelPage, len(pages))
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = domain.LabelPage{Index: p.Index, Text: fn(p.Text)}
	}
	return out, nil
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}
