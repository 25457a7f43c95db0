// Package docdetails provides the document details view component for the TUI.
// Besides the metadata record it offers the label, bibliography, rebuttal
// and open actions on the shown document.
package docdetails

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evid-cli/evid/internal/adapters/driving/tui/components/status"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/keymap"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/messages"
	"github.com/evid-cli/evid/internal/adapters/driving/tui/styles"
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driving"
)

// ErrActionUnavailable is reported when the service behind an action is not wired.
var ErrActionUnavailable = errors.New("action not available")

// Services are the ports the document actions call. Nil ports disable
// their action.
type Services struct {
	Evidence     driving.EvidenceService
	Labels       driving.LabelService
	Bibliography driving.BibliographyService
	Rebuttal     driving.RebuttalService

	// ExcludeNote is the note policy for compiled bibliographies.
	ExcludeNote bool
}

// View is the document details view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	services  Services
	ctx       context.Context

	document     *domain.Document
	from         messages.ViewType
	busy         bool
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new document details view.
func NewView(s *styles.Styles, services Services) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.DocumentHelp())
	return &View{
		styles:    s,
		keymap:    km,
		statusbar: bar,
		services:  services,
		ctx:       context.Background(),
		from:      messages.ViewDocuments,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument shows doc. Esc returns to from.
func (v *View) SetDocument(doc domain.Document, from messages.ViewType) {
	v.document = &doc
	v.from = from
	v.scrollOffset = 0
	v.busy = false
	v.err = nil
	v.statusbar.Clear()
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ActionCompleted:
		v.busy = false
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(fmt.Sprintf("%s: %v", msg.Action, msg.Err))
			return v, nil
		}
		v.statusbar.SetState(status.StateDone)
		v.statusbar.SetMessage(msg.Detail)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
		return v, nil
	case keymap.Matches(k, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
		return v, nil
	case keymap.Matches(k, v.keymap.Back):
		from := v.from
		return v, func() tea.Msg {
			return messages.ViewChanged{View: from}
		}
	}

	if v.document == nil || v.busy {
		return v, nil
	}

	var action messages.Action
	switch {
	case keymap.Matches(k, v.keymap.Label):
		action = messages.ActionLabel
	case keymap.Matches(k, v.keymap.Bib):
		action = messages.ActionBib
	case keymap.Matches(k, v.keymap.Rebut):
		action = messages.ActionRebut
	case keymap.Matches(k, v.keymap.Open):
		action = messages.ActionOpen
	default:
		return v, nil
	}

	v.busy = true
	v.statusbar.SetState(status.StateBusy)
	v.statusbar.SetMessage(fmt.Sprintf("Running %s", action))
	return v, v.runAction(action, *v.document)
}

// runAction returns a command that performs action on doc.
func (v *View) runAction(action messages.Action, doc domain.Document) tea.Cmd {
	svc := v.services
	ctx := v.ctx
	return func() tea.Msg {
		done := messages.ActionCompleted{Action: action}
		switch action {
		case messages.ActionLabel:
			if svc.Labels == nil {
				done.Err = ErrActionUnavailable
				break
			}
			path, created, err := svc.Labels.Generate(ctx, doc.SourcePath(), false)
			done.Path, done.Err = path, err
			if created {
				done.Detail = "Created " + path
			} else {
				done.Detail = "Label document exists: " + path
			}
		case messages.ActionBib:
			if svc.Bibliography == nil {
				done.Err = ErrActionUnavailable
				break
			}
			res, err := svc.Bibliography.FromLabel(ctx, doc.ArtifactPath(domain.LabelFileName), svc.ExcludeNote)
			done.Path, done.Err = res.Output, err
			done.Detail = fmt.Sprintf("Wrote %s (%d entries)", res.Output, res.Entries)
		case messages.ActionRebut:
			if svc.Rebuttal == nil {
				done.Err = ErrActionUnavailable
				break
			}
			path, err := svc.Rebuttal.Rebut(ctx, doc.Dir, false)
			done.Path, done.Err = path, err
			done.Detail = "Rebuttal " + path
		case messages.ActionOpen:
			if svc.Evidence == nil {
				done.Err = ErrActionUnavailable
				break
			}
			done.Path = doc.Dir
			done.Err = svc.Evidence.Open(ctx, doc)
			done.Detail = "Opened " + doc.Dir
		}
		return done
	}
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.document == nil {
		return nil
	}
	rec := v.document.Record

	lines := []string{
		formatField("ID", rec.ID),
		formatField("Title", rec.Title),
		formatField("Authors", rec.Authors),
		formatField("Dates", rec.Dates),
		formatField("Added", rec.TimeAdded),
		formatField("Label", rec.Label),
		formatField("Tags", rec.Tags),
	}
	if rec.URL != "" {
		lines = append(lines, formatField("URL", rec.URL))
	}
	lines = append(lines,
		"",
		"Files:",
		"  source: "+v.document.SourcePath(),
		"  label:  "+v.document.ArtifactPath(domain.LabelFileName),
		"  bib:    "+v.document.ArtifactPath(domain.BibFileName),
	)
	return lines
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(0, min(v.width-4, 60))))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}
	if v.document == nil {
		b.WriteString(v.styles.Muted.Render("No document selected"))
		b.WriteString("\n")
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderLine(lines[i]))
		b.WriteString("\n")
	}
	if len(lines) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(lines)), len(lines))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case line == "Files:":
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		return v.styles.Muted.Render(line)
	case strings.HasPrefix(line, "ID:"):
		return v.styles.Subtitle.Render("ID:") + v.styles.ID.Render(strings.TrimPrefix(line, "ID:"))
	}
	label, value, ok := strings.Cut(line, ":")
	if !ok {
		return v.styles.Normal.Render(line)
	}
	return v.styles.Subtitle.Render(label+":") + v.styles.Normal.Render(value)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
}

// Document returns the shown document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Busy reports whether an action is running.
func (v *View) Busy() bool {
	return v.busy
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
