package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/evid-cli/evid/internal/core/domain"
)

// Interactive input, replaced in tests.
var (
	stdin       io.Reader = os.Stdin
	isTerminal            = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	stdinReader *bufio.Reader
)

func reader() *bufio.Reader {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(stdin)
	}
	return stdinReader
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(r *bufio.Reader) string {
	input, _ := r.ReadString('\n')
	return strings.TrimSpace(input)
}

// parseChoice returns the 1-based choice, or defaultVal when input is
// empty or out of range.
func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// choose prints a numbered list and returns the selected index.
// Selection requires a terminal.
func choose(cmd *cobra.Command, what string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("no %s to choose from: %w", what, domain.ErrNotFound)
	}
	if !isTerminal() {
		return 0, fmt.Errorf("no %s given: %w", what, domain.ErrInvalidInput)
	}
	for i, item := range items {
		cmd.Printf("  %d) %s\n", i+1, item)
	}
	cmd.Printf("Select %s [1-%d]: ", what, len(items))
	choice := parseChoice(readLine(reader()), len(items), 0)
	if choice == 0 {
		return 0, fmt.Errorf("invalid %s selection: %w", what, domain.ErrInvalidInput)
	}
	return choice - 1, nil
}

// resolveDataset returns name or prompts for a dataset.
func resolveDataset(cmd *cobra.Command, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if datasetService == nil {
		return "", errNotConfigured
	}
	sets, err := datasetService.List(cmd.Context())
	if err != nil {
		return "", err
	}
	names := make([]string, len(sets))
	for i, ds := range sets {
		names[i] = ds.Name
	}
	i, err := choose(cmd, "dataset", names)
	if err != nil {
		return "", err
	}
	return names[i], nil
}

// resolveDocument returns the document named by args[0], or prompts for one.
func resolveDocument(cmd *cobra.Command, dataset string, args []string) (domain.Document, error) {
	if evidenceService == nil {
		return domain.Document{}, errNotConfigured
	}
	dataset, err := resolveDataset(cmd, dataset)
	if err != nil {
		return domain.Document{}, err
	}
	if len(args) > 0 {
		return evidenceService.Get(cmd.Context(), dataset, args[0])
	}
	docs, err := evidenceService.List(cmd.Context(), dataset)
	if err != nil {
		return domain.Document{}, err
	}
	items := make([]string, len(docs))
	for i, d := range docs {
		items[i] = fmt.Sprintf("%s  %s", d.Record.IDPrefix(), d.Record.Title)
	}
	i, err := choose(cmd, "document", items)
	if err != nil {
		return domain.Document{}, err
	}
	return docs[i], nil
}
