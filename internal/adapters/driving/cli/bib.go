package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evid-cli/evid/internal/core/domain"
)

var bibCmd = &cobra.Command{
	Use:   "bib [paths...]",
	Short: "Compile bibliographies from label documents",
	Long: `Compiles label.bib next to each label.typ or label.json given.

Items are processed concurrently with --parallel. A failing item is
reported and does not stop the others. With --watch a single label
document is recompiled every time it is saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBib,
}

var (
	bibParallelFlag    bool
	bibIncludeNoteFlag bool
	bibWatchFlag       bool
)

func init() {
	bibCmd.Flags().BoolVarP(&bibParallelFlag, "parallel", "p", false, "process items concurrently")
	bibCmd.Flags().BoolVar(&bibIncludeNoteFlag, "include-note", false, "write annotator notes as note fields")
	bibCmd.Flags().BoolVar(&bibWatchFlag, "watch", false, "recompile when the label document changes")
	rootCmd.AddCommand(bibCmd)
}

func runBib(cmd *cobra.Command, args []string) error {
	if bibService == nil {
		return errNotConfigured
	}
	excludeNote, err := excludeNoteSetting(cmd)
	if err != nil {
		return err
	}

	if bibWatchFlag {
		if len(args) != 1 {
			return fmt.Errorf("--watch takes a single label document: %w", domain.ErrInvalidInput)
		}
		cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
		err := bibService.Watch(cmd.Context(), args[0], excludeNote, func(r domain.BibResult) {
			printBibResult(cmd, r)
		})
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	}

	results := bibService.GenerateAll(cmd.Context(), args, bibParallelFlag, excludeNote)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		printBibResult(cmd, r)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bibliographies failed", failed, len(results))
	}
	return nil
}

// excludeNoteSetting resolves the note policy from --include-note and settings.
func excludeNoteSetting(cmd *cobra.Command) (bool, error) {
	if cmd.Flags().Changed("include-note") {
		return !bibIncludeNoteFlag, nil
	}
	if settingsService == nil {
		return domain.DefaultAppSettings().Bibliography.ExcludeNote, nil
	}
	s, err := settingsService.Get()
	if err != nil {
		return false, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.Bibliography.ExcludeNote, nil
}

func printBibResult(cmd *cobra.Command, r domain.BibResult) {
	if r.Err != nil {
		cmd.Printf("  FAIL %s: %v\n", r.Path, r.Err)
		return
	}
	cmd.Printf("  ok   %s -> %s (%d entries)\n", r.Path, r.Output, r.Entries)
}
