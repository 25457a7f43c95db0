// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evid-cli/evid/internal/adapters/driving/tui/styles"
	"github.com/evid-cli/evid/internal/core/domain"
)

// DocumentList displays documents in a navigable list.
type DocumentList struct {
	documents []domain.Document
	selected  int
	styles    *styles.Styles
	width     int
	height    int

	// showDataset adds the dataset column, for lists spanning datasets.
	showDataset bool
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles, showDataset bool) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles:      s,
		width:       80,
		height:      10,
		showDataset: showDataset,
	}
}

// Init initialises the list.
func (r *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *DocumentList) View() string {
	if len(r.documents) == 0 {
		return r.styles.Muted.Render("No documents")
	}

	lines := make([]string, 0, len(r.documents)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(r.documents))), "")

	// Each document takes two lines.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.documents) {
		end = len(r.documents)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderDocument(i, &r.documents[i]))
	}

	return strings.Join(lines, "\n")
}

// renderDocument formats a document as a title line and a detail line.
func (r *DocumentList) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	rec := doc.Record
	title := rec.Title
	if title == "" {
		title = rec.OriginalName
	}

	maxTitleLen := r.width - 12
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title = truncate(title, maxTitleLen)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, rec.IDPrefix(), title))
	} else {
		titleLine = r.styles.Normal.Render(indicator) +
			r.styles.ID.Render(rec.IDPrefix()) +
			r.styles.Normal.Render("  "+title)
	}

	details := make([]string, 0, 3)
	if r.showDataset {
		details = append(details, doc.Dataset)
	}
	if rec.Dates != "" {
		details = append(details, rec.Dates)
	}
	if rec.Authors != "" {
		details = append(details, rec.Authors)
	}
	detail := truncate(strings.Join(details, " · "), r.width-8)

	return titleLine + "\n" + r.styles.Muted.Render("        "+detail)
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetDocuments replaces the listed documents and resets the selection.
func (r *DocumentList) SetDocuments(docs []domain.Document) {
	r.documents = docs
	r.selected = 0
}

// Documents returns the listed documents.
func (r *DocumentList) Documents() []domain.Document {
	return r.documents
}

// Selected returns the index of the selected document.
func (r *DocumentList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *DocumentList) SetSelected(index int) {
	if index >= 0 && index < len(r.documents) {
		r.selected = index
	}
}

// SelectedDocument returns the selected document, or nil if none.
func (r *DocumentList) SelectedDocument() *domain.Document {
	if len(r.documents) == 0 || r.selected < 0 || r.selected >= len(r.documents) {
		return nil
	}
	return &r.documents[r.selected]
}

// MoveUp moves selection up.
func (r *DocumentList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *DocumentList) MoveDown() {
	if r.selected < len(r.documents)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *DocumentList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of documents.
func (r *DocumentList) Count() int {
	return len(r.documents)
}

// IsEmpty returns whether the list is empty.
func (r *DocumentList) IsEmpty() bool {
	return len(r.documents) == 0
}
