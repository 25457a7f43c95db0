// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/evid-cli/evid/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDatasets lists datasets.
	ViewDatasets
	// ViewDocuments lists the documents of a dataset.
	ViewDocuments
	// ViewDocDetails shows a document record and its actions.
	ViewDocDetails
	// ViewSearch searches documents of all datasets.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDatasets:
		return "datasets"
	case ViewDocuments:
		return "documents"
	case ViewDocDetails:
		return "doc_details"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DatasetsLoaded carries the list of datasets.
type DatasetsLoaded struct {
	Datasets []domain.Dataset
	Err      error
}

// DatasetSelected signals a dataset was chosen.
type DatasetSelected struct {
	Dataset domain.Dataset
}

// DocumentsLoaded carries the documents of a dataset.
type DocumentsLoaded struct {
	Dataset   string
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was chosen.
// From is the view to return to.
type DocumentSelected struct {
	Document domain.Document
	From     ViewType
}

// SearchCompleted carries search results.
type SearchCompleted struct {
	Query     string
	Documents []domain.Document
	Err       error
}

// Action names a document action.
type Action string

// Document actions.
const (
	ActionLabel    Action = "label"
	ActionBib      Action = "bibliography"
	ActionRebut    Action = "rebuttal"
	ActionOpen     Action = "open"
)

// ActionCompleted reports the outcome of a document action.
type ActionCompleted struct {
	Action Action
	// Path is the file written, if any.
	Path string
	// Detail is a short human readable outcome.
	Detail string
	Err    error
}
