// Package datasets provides the dataset list view for the TUI.
package datasets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evid-cli/evid/internal/adapters/driving/tui/keymap"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/messages"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/styles"
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driving"
)

// ErrNoDatasetService indicates that no dataset service was provided.
var ErrNoDatasetService = errors.New("dataset service not available")

// View lists datasets.
type View struct {
	styles         *styles.Styles
	keymap         *keymap.KeyMap
	datasetService driving.DatasetService
	ctx            context.Context

	datasets []domain.Dataset
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new datasets view.
func NewView(s *styles.Styles, datasetService driving.DatasetService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		keymap:         keymap.DefaultKeyMap(),
		datasetService: datasetService,
		ctx:            context.Background(),
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the datasets.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDatasets()
}

func (v *View) loadDatasets() tea.Cmd {
	svc := v.datasetService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DatasetsLoaded{Err: ErrNoDatasetService}
		}
		sets, err := svc.List(ctx)
		return messages.DatasetsLoaded{Datasets: sets, Err: err}
	}
}

// Update handles messages for the datasets view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DatasetsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.datasets = msg.Datasets
		v.err = nil
		if v.selected >= len(v.datasets) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.datasets)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		if v.selected < len(v.datasets) {
			ds := v.datasets[v.selected]
			return v, func() tea.Msg {
				return messages.DatasetSelected{Dataset: ds}
			}
		}
	case keymap.Matches(k, v.keymap.Reload):
		v.loading = true
		return v, v.loadDatasets()
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the datasets view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Datasets"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading datasets..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.datasets) == 0:
		b.WriteString(v.styles.Muted.Render("No datasets. Create one with 'evid set create <name>'."))
	default:
		for i := range v.datasets {
			b.WriteString(v.renderDataset(i, &v.datasets[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] documents  [r] reload  [esc] back  [q] quit"))
	return b.String()
}

func (v *View) renderDataset(index int, ds *domain.Dataset) string {
	if index == v.selected {
		return v.styles.Selected.Render("> " + ds.Name)
	}
	return v.styles.Normal.Render("  "+ds.Name) + v.styles.Muted.Render("  "+ds.Path)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Datasets returns the loaded datasets.
func (v *View) Datasets() []domain.Dataset {
	return v.datasets
}

// SelectedIndex returns the selected dataset index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
