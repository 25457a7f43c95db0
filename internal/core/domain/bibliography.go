package domain

// ExportRecord is one citation marker extracted from a label document
// by the typesetting query tool.
type ExportRecord struct {
	// Key is the citation label chosen by the annotator.
	Key string

	// Text is the quoted passage.
	Text string

	// Title is the section title the marker appeared under.
	Title string

	// Date is the date captured by the annotator, if any.
	Date string

	// Page is the zero-based page offset. Nil when absent or not numeric.
	Page *int

	// Note is the annotator's free-text comment.
	Note string
}

// BibField is a single name/value pair of a bibliography entry.
type BibField struct {
	Name  string
	Value string
}

// BibEntry is one rendered bibliography entry.
// Field order is preserved when written.
type BibEntry struct {
	// Type is the entry type, e.g. "article".
	Type string

	// Key is "{id prefix}:{label}".
	Key string

	// Fields holds the entry fields in output order.
	Fields []BibField
}

// Field returns the value of the named field and whether it exists.
func (e BibEntry) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MainKeySuffix marks the whole-document bibliography entry.
const MainKeySuffix = "main"

// BibResult is the outcome of compiling one bibliography in a batch.
type BibResult struct {
	// Path is the input that was processed.
	Path string

	// Output is the written bibliography file.
	Output string

	// Entries is the number of entries written, including the main entry.
	Entries int

	// Err is set when this item failed. Other items are unaffected.
	Err error
}
