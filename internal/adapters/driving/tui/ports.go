// Package tui provides an interactive terminal user interface for evid.
// It is a driving adapter over the same services as the command line.
package tui

import (
	"github.com/evid-cli/evid/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Datasets lists datasets.
	Datasets driving.DatasetService

	// Evidence lists, searches and opens documents.
	Evidence driving.EvidenceService

	// Labels generates label documents.
	Labels driving.LabelService

	// Bibliography compiles label.bib from a label document.
	Bibliography driving.BibliographyService

	// Rebuttal drafts rebuttal documents.
	Rebuttal driving.RebuttalService

	// Settings supplies the bibliography note policy.
	Settings driving.SettingsService
}

// Validate ensures the required ports are set.
// Label, bibliography and rebuttal actions are disabled when their port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Datasets == nil {
		return ErrMissingDatasetService
	}
	if p.Evidence == nil {
		return ErrMissingEvidenceService
	}
	return nil
}
