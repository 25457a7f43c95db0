package html

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/textutil"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// droppedElements never contribute visible text.
const droppedElements = "script, style, nav, footer, head, noscript, template"

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
// Any non-PDF response is routed here, so this list is informational.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml", "text/plain"}
}

// Normalise extracts the visible text of an HTML page.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := textutil.NormalizeBytes(raw.Content)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(droppedElements).Remove()

	lines := visibleText(doc.Selection)
	return &driven.NormaliseResult{
		Title:   title,
		Content: textutil.EscapeMarkup(strings.Join(lines, "\n")),
	}, nil
}

// visibleText returns the trimmed, non-empty text nodes below sel in
// document order.
func visibleText(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*xhtml.Node)
	walk = func(node *xhtml.Node) {
		switch node.Type {
		case xhtml.TextNode:
			if text := strings.TrimSpace(node.Data); text != "" {
				lines = append(lines, strings.Join(strings.Fields(text), " "))
			}
			return
		case xhtml.CommentNode:
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return lines
}
