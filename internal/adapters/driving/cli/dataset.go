package cli

import (
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage datasets",
	Long:  `A dataset is a folder of documents below the storage directory.`,
}

var setListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	Args:  cobra.NoArgs,
	RunE:  runSetList,
}

var setCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetCreate,
}

var setTrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track the storage directory with git",
	Long: `Initialises a git repository in the storage directory and commits an
ignore file that keeps sources, records, label documents and bibliographies.`,
	Args: cobra.NoArgs,
	RunE: runSetTrack,
}

func init() {
	setCmd.AddCommand(setListCmd)
	setCmd.AddCommand(setCreateCmd)
	setCmd.AddCommand(setTrackCmd)
	rootCmd.AddCommand(setCmd)
}

func runSetList(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errNotConfigured
	}
	sets, err := datasetService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		cmd.Println("No datasets. Create one with 'evid set create <name>'.")
		return nil
	}
	for _, ds := range sets {
		cmd.Println(ds.Name)
	}
	return nil
}

func runSetCreate(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errNotConfigured
	}
	ds, err := datasetService.Create(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Created dataset %s at %s\n", ds.Name, ds.Path)
	return nil
}

func runSetTrack(cmd *cobra.Command, _ []string) error {
	if datasetService == nil {
		return errNotConfigured
	}
	if err := datasetService.Track(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Storage directory is tracked by git.")
	return nil
}
