package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evid-cli/evid/internal/adapters/driving/tui/messages"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/styles"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/views/datasets"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/views/docdetails"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/views/documents"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/views/menu"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/views/search"
	"github.com/evid-cli/evid/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView       *menu.View
	datasetsView   *datasets.View
	documentsView  *documents.View
	docDetailsView *docdetails.View
	searchView     *search.View

	// selectedDataset is the dataset whose documents are listed.
	selectedDataset *domain.Dataset

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	excludeNote := domain.DefaultAppSettings().Bibliography.ExcludeNote
	if ports.Settings != nil {
		if s, err := ports.Settings.Get(); err == nil {
			excludeNote = s.Bibliography.ExcludeNote
		}
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		datasetsView:  datasets.NewView(s, ports.Datasets),
		documentsView: documents.NewView(s, ports.Evidence),
		docDetailsView: docdetails.NewView(s, docdetails.Services{
			Evidence:     ports.Evidence,
			Labels:       ports.Labels,
			Bibliography: ports.Bibliography,
			Rebuttal:     ports.Rebuttal,
			ExcludeNote:  excludeNote,
		}),
		searchView:  search.NewView(s, nil, ports.Evidence),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context used by every view for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.datasetsView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docDetailsView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("evid"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		prev := a.currentView
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDatasets:
			return a, a.datasetsView.Init()
		case messages.ViewSearch:
			if prev == messages.ViewDocDetails {
				// Back from a result keeps the results.
				return a, nil
			}
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewMenu, messages.ViewDocuments, messages.ViewDocDetails, messages.ViewHelp:
		}
		return a, nil

	case messages.DatasetsLoaded:
		a.datasetsView, cmd = a.datasetsView.Update(msg)
		return a, cmd

	case messages.DatasetSelected:
		ds := msg.Dataset
		a.selectedDataset = &ds
		a.currentView = messages.ViewDocuments
		return a, a.documentsView.SetDataset(ds.Name)

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.docDetailsView.SetDocument(msg.Document, msg.From)
		a.currentView = messages.ViewDocDetails
		return a, nil

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ActionCompleted:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDatasets:
		a.datasetsView, cmd = a.datasetsView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDatasets:
		return a.datasetsView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  j/k, ↑/↓    Move
  enter       Select
  esc         Back
  ctrl+c      Quit

Documents:
  /           Filter by title, author, tag or date
  r           Reload

Document details:
  l           Generate the label document
  b           Compile label.bib from the label document
  r           Draft rebut.typ from label.bib
  o           Open the document folder

Editing a label document and watching it is done from the
command line: evid doc label, evid bib --watch.

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SelectedDataset returns the dataset being browsed, or nil.
func (a *App) SelectedDataset() *domain.Dataset {
	return a.selectedDataset
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.datasetsView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docDetailsView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
}
