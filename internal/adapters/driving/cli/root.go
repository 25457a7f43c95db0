// Package cli implements the evid command line with cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/evid-cli/evid/internal/core/ports/driving"
	"github.com/evid-cli/evid/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	directoryFlag string
	verboseFlag   bool
)

// skipServices marks commands that run without the service graph.
const skipServices = "skip-services"

// Services groups the driving ports used by the commands.
type Services struct {
	Datasets     driving.DatasetService
	Evidence     driving.EvidenceService
	Labels       driving.LabelService
	Bibliography driving.BibliographyService
	Rebuttal     driving.RebuttalService
	Settings     driving.SettingsService

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// ServiceBuilder wires the services once flags are parsed.
// directory overrides the configured storage directory when non-empty.
type ServiceBuilder func(ctx context.Context, directory string) (*Services, error)

var (
	serviceBuilder ServiceBuilder

	datasetService  driving.DatasetService
	evidenceService driving.EvidenceService
	labelService    driving.LabelService
	bibService      driving.BibliographyService
	rebuttalService driving.RebuttalService
	settingsService driving.SettingsService
	closeServices   func() error
)

var rootCmd = &cobra.Command{
	Use:   "evid",
	Short: "Collect evidence documents and cite them",
	Long: `evid stores PDFs and web pages in content-addressed dataset folders,
generates annotatable typst label documents from them and compiles the
annotations into bibliographies and rebuttal drafts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeServices == nil {
			return nil
		}
		err := closeServices()
		closeServices = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&directoryFlag, "directory", "d", "", "storage directory (overrides storage.directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug output")
}

// SetServiceBuilder registers the function that wires services before a command runs.
func SetServiceBuilder(b ServiceBuilder) {
	serviceBuilder = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	datasetService = s.Datasets
	evidenceService = s.Evidence
	labelService = s.Labels
	bibService = s.Bibliography
	rebuttalService = s.Rebuttal
	settingsService = s.Settings
	closeServices = s.Close
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	if serviceBuilder == nil || cmd.Annotations[skipServices] == "true" {
		return nil
	}
	s, err := serviceBuilder(cmd.Context(), directoryFlag)
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version printed by "evid version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var errNotConfigured = errors.New("service not configured")
