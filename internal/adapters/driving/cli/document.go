package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/evid-cli/evid/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"document"},
	Short:   "Manage evidence documents",
	Long: `Add PDFs and web pages to a dataset, label them and draft rebuttals.

Documents are addressed by their id or any unique id prefix. When no id is
given and a terminal is attached, a document can be picked from a list.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [path-or-url]",
	Short: "Add a local PDF or a URL to a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents of a dataset",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the metadata record of a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentShow,
}

var documentLabelCmd = &cobra.Command{
	Use:   "label [id]",
	Short: "Generate and edit the label document",
	Long: `Generates label.typ next to the document source unless it exists, opens
it in the configured editor and compiles label.bib once the editor exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocumentLabel,
}

var documentRebutCmd = &cobra.Command{
	Use:   "rebut [id]",
	Short: "Draft a rebuttal from the labelled passages",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentRebut,
}

var documentOpenCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Open the document folder",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentOpen,
}

var documentSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search documents of all datasets",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSearch,
}

// Flags for the doc commands.
var (
	datasetFlag   string
	labelFlag     bool
	autoLabelFlag bool
	scanDatesFlag bool
	noEditFlag    bool
	openFlag      bool
)

func init() {
	documentCmd.PersistentFlags().StringVarP(&datasetFlag, "set", "s", "", "dataset name")

	documentAddCmd.Flags().BoolVarP(&labelFlag, "label", "l", false, "generate and edit the label document after adding")
	documentAddCmd.Flags().BoolVar(&autoLabelFlag, "autolabel", false, "pre-split paragraphs into citation markers")
	documentAddCmd.Flags().BoolVar(&scanDatesFlag, "scan-dates", false, "scan the text for dates when the metadata has none")

	documentLabelCmd.Flags().BoolVar(&autoLabelFlag, "autolabel", false, "pre-split paragraphs into citation markers")
	documentLabelCmd.Flags().BoolVar(&noEditFlag, "no-edit", false, "only generate the label document")

	documentRebutCmd.Flags().BoolVar(&openFlag, "open", false, "compile the rebuttal and open its folder")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentLabelCmd)
	documentCmd.AddCommand(documentRebutCmd)
	documentCmd.AddCommand(documentOpenCmd)
	documentCmd.AddCommand(documentSearchCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if evidenceService == nil {
		return errNotConfigured
	}
	dataset, err := resolveDataset(cmd, datasetFlag)
	if err != nil {
		return err
	}

	res, err := evidenceService.Add(cmd.Context(), dataset, args[0], domain.IngestOptions{
		Label:     labelFlag,
		AutoLabel: autoLabelFlag,
		ScanDates: scanDatesFlag,
	})
	if res != nil && res.Duplicate {
		cmd.Printf("Document %s already added to %s\n", res.Document.Record.ID, dataset)
		return err
	}
	if res == nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added %s to %s\n\n", res.Document.Record.ID, dataset)
	if perr := printRecord(cmd, res.Document.Record); perr != nil {
		return perr
	}
	if res.LabelPath != "" {
		cmd.Printf("\nLabel document: %s\n", res.LabelPath)
	}
	return err
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if evidenceService == nil {
		return errNotConfigured
	}
	dataset, err := resolveDataset(cmd, datasetFlag)
	if err != nil {
		return err
	}

	docs, err := evidenceService.List(cmd.Context(), dataset)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Printf("No documents in %s\n", dataset)
		return nil
	}
	printDocuments(cmd, docs)
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	doc, err := resolveDocument(cmd, datasetFlag, args)
	if err != nil {
		return err
	}
	cmd.Printf("Document: %s\n", doc.Dir)
	cmd.Printf("Source:   %s\n\n", doc.SourcePath())
	return printRecord(cmd, doc.Record)
}

func runDocumentLabel(cmd *cobra.Command, args []string) error {
	if labelService == nil {
		return errNotConfigured
	}
	doc, err := resolveDocument(cmd, datasetFlag, args)
	if err != nil {
		return err
	}

	if noEditFlag {
		path, created, err := labelService.Generate(cmd.Context(), doc.SourcePath(), autoLabelFlag)
		if err != nil {
			return fmt.Errorf("failed to generate label document: %w", err)
		}
		if created {
			cmd.Printf("Created %s\n", path)
		} else {
			cmd.Printf("Label document exists: %s\n", path)
		}
		return nil
	}

	path, err := labelService.Label(cmd.Context(), doc.SourcePath(), autoLabelFlag)
	if err != nil {
		return fmt.Errorf("failed to label %s: %w", doc.Record.IDPrefix(), err)
	}
	cmd.Printf("Labelled %s\n", path)
	return nil
}

func runDocumentRebut(cmd *cobra.Command, args []string) error {
	if rebuttalService == nil {
		return errNotConfigured
	}
	doc, err := resolveDocument(cmd, datasetFlag, args)
	if err != nil {
		return err
	}

	path, err := rebuttalService.Rebut(cmd.Context(), doc.Dir, openFlag)
	if err != nil {
		return fmt.Errorf("failed to draft rebuttal: %w", err)
	}
	cmd.Printf("Rebuttal: %s\n", path)
	return nil
}

func runDocumentOpen(cmd *cobra.Command, args []string) error {
	doc, err := resolveDocument(cmd, datasetFlag, args)
	if err != nil {
		return err
	}
	if err := evidenceService.Open(cmd.Context(), doc); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	cmd.Printf("Opened %s\n", doc.Dir)
	return nil
}

func runDocumentSearch(cmd *cobra.Command, args []string) error {
	if evidenceService == nil {
		return errNotConfigured
	}
	docs, err := evidenceService.Search(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(docs) == 0 {
		cmd.Printf("No documents match %q\n", args[0])
		return nil
	}
	printDocuments(cmd, docs)
	return nil
}

func printDocuments(cmd *cobra.Command, docs []domain.Document) {
	for i := range docs {
		rec := docs[i].Record
		cmd.Printf("  %s  %-10s %s\n", rec.IDPrefix(), docs[i].Dataset, rec.Title)
		if rec.Dates != "" {
			cmd.Printf("        dates: %s\n", rec.Dates)
		}
	}
}

func printRecord(cmd *cobra.Command, rec domain.Record) error {
	out, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to render record: %w", err)
	}
	cmd.Print(strings.TrimRight(string(out), "\n") + "\n")
	return nil
}
