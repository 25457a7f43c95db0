// Package documents provides the document list view of a dataset.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evid-cli/evid/internal/adapters/driving/tui/components/input"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/components/list"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/keymap"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/messages"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/styles"
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driving"
)

// ErrNoEvidenceService indicates that no evidence service was provided.
var ErrNoEvidenceService = errors.New("evidence service not available")

// View lists the documents of one dataset. Typing after "/" narrows the
// list to documents whose record matches the filter.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	evidenceService driving.EvidenceService
	ctx             context.Context

	dataset   string
	documents []domain.Document
	filter    *input.Field
	list      *list.DocumentList
	width     int
	height    int
	ready     bool
	err       error
	loading   bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, evidenceService driving.EvidenceService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		keymap:          keymap.DefaultKeyMap(),
		evidenceService: evidenceService,
		ctx:             context.Background(),
		filter:          input.NewFilterInput(s),
		list:            list.NewDocumentList(s, false),
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDataset switches to dataset and loads its documents.
func (v *View) SetDataset(dataset string) tea.Cmd {
	v.dataset = dataset
	v.documents = nil
	v.list.SetDocuments(nil)
	v.filter.Reset()
	v.filter.Blur()
	v.err = nil
	v.loading = true
	return v.loadDocuments()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadDocuments() tea.Cmd {
	svc := v.evidenceService
	ctx := v.ctx
	dataset := v.dataset
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Dataset: dataset, Err: ErrNoEvidenceService}
		}
		docs, err := svc.List(ctx, dataset)
		return messages.DocumentsLoaded{Dataset: dataset, Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.handleFilterKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		if msg.Dataset != v.dataset {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		v.applyFilter()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.filter.Reset()
		v.filter.Blur()
		v.applyFilter()
		return v, nil
	case tea.KeyEnter:
		v.filter.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.applyFilter()
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(k, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(k, v.keymap.Filter):
		return v, v.filter.Focus()
	case keymap.Matches(k, v.keymap.Select):
		if doc := v.list.SelectedDocument(); doc != nil {
			selected := *doc
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: selected, From: messages.ViewDocuments}
			}
		}
	case keymap.Matches(k, v.keymap.Reload):
		v.loading = true
		return v, v.loadDocuments()
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDatasets}
		}
	}
	return v, nil
}

// applyFilter narrows the list to the documents matching the filter.
func (v *View) applyFilter() {
	query := v.filter.Value()
	matched := make([]domain.Document, 0, len(v.documents))
	for i := range v.documents {
		if v.documents[i].Record.Matches(query) {
			matched = append(matched, v.documents[i])
		}
	}
	v.list.SetDocuments(matched)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents - %s", v.dataset)))
	b.WriteString("\n\n")

	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents in this dataset. Add one with 'evid doc add'."))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] details  [/] filter  [r] reload  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.filter.SetWidth(width)
	v.list.SetDimensions(width, height-8)
}

// Dataset returns the current dataset name.
func (v *View) Dataset() string {
	return v.dataset
}

// Documents returns the documents shown after filtering.
func (v *View) Documents() []domain.Document {
	return v.list.Documents()
}

// SelectedDocument returns the selected document, or nil.
func (v *View) SelectedDocument() *domain.Document {
	return v.list.SelectedDocument()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
