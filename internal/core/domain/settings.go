package domain

import "strings"

// FilePlaceholder is replaced with the target path in command templates.
const FilePlaceholder = "{file}"

// CommandTemplate is a whitespace-separated command line with an
// optional {file} placeholder.
type CommandTemplate string

// Expand returns the program and its arguments for file.
// When the template has no placeholder, file is appended.
func (c CommandTemplate) Expand(file string) (string, []string, error) {
	fields := strings.Fields(string(c))
	if len(fields) == 0 {
		return "", nil, ErrNotConfigured
	}
	replaced := false
	for i, f := range fields {
		if strings.Contains(f, FilePlaceholder) {
			fields[i] = strings.ReplaceAll(f, FilePlaceholder, file)
			replaced = true
		}
	}
	if !replaced {
		fields = append(fields, file)
	}
	return fields[0], fields[1:], nil
}

// Label text processor names.
const (
	ProcessorLigatures  = "ligatures"
	ProcessorMentions   = "mentions"
	ProcessorSentences  = "sentences"
	ProcessorBlankLines = "blanklines"
	ProcessorAutoLabel  = "autolabel"
)

// LabelSettings configures label document generation.
type LabelSettings struct {
	// Processors is the ordered list of text processors applied per page.
	Processors []string
}

// BibliographySettings configures bibliography generation.
type BibliographySettings struct {
	// ExcludeNote writes notes as "nonote" so they are hidden by default.
	ExcludeNote bool

	// Parallel is the maximum number of concurrent items in bulk runs.
	Parallel int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// StorageDir holds one directory per dataset.
	StorageDir string

	// Editor opens label documents and waits until they are closed.
	Editor CommandTemplate

	// TypstQuery extracts citation markers from a label document as JSON.
	TypstQuery CommandTemplate

	// TypstCompile renders a typst document.
	TypstCompile CommandTemplate

	// Label holds label generation settings.
	Label LabelSettings

	// Bibliography holds bibliography settings.
	Bibliography BibliographySettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		StorageDir:   "~/Documents/evid",
		Editor:       "code --wait",
		TypstQuery:   "typst query {file} <lab>",
		TypstCompile: "typst compile {file}",
		Label: LabelSettings{
			Processors: DefaultLabelProcessors(),
		},
		Bibliography: BibliographySettings{
			ExcludeNote: true,
			Parallel:    4,
		},
	}
}

// DefaultLabelProcessors returns the default label cleaning chain.
func DefaultLabelProcessors() []string {
	return []string{ProcessorLigatures, ProcessorMentions, ProcessorSentences, ProcessorBlankLines}
}
