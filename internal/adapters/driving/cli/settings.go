package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"settings"},
	Short:   "Manage application settings",
	Long: `Show and change settings stored in the configuration file.

Command settings are templates where {file} is replaced by the target
path; without the placeholder the path is appended.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walks through every setting. Press Enter to keep the current value.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n\n", settingsService.Path())
	for _, e := range entries {
		cmd.Printf("  %-20s %s\n", e.Key, e.Value)
		if e.Value != e.Default {
			cmd.Printf("  %-20s (default: %s)\n", "", e.Default)
		}
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("evid Settings Wizard")
	cmd.Println("====================")
	cmd.Println()

	r := reader()
	changed := 0
	for i, e := range entries {
		cmd.Printf("Step %d: %s [%s]: ", i+1, e.Key, e.Value)
		input := readLine(r)
		if input == "" || input == e.Value {
			continue
		}
		if err := settingsService.Set(e.Key, input); err != nil {
			cmd.Printf("  kept %s: %v\n", e.Value, err)
			continue
		}
		changed++
	}

	cmd.Printf("\n%d settings changed, saved to %s\n", changed, settingsService.Path())
	return nil
}
