package domain

// LabelPage is the markup of one page of a label document.
// Text sources produce a single page.
type LabelPage struct {
	// Index is the zero-based page offset.
	Index int

	// Text is typst markup.
	Text string
}

// Number returns the one-based page number.
func (p LabelPage) Number() int {
	return p.Index + 1
}

// Label document placeholders used when no metadata record is available.
const (
	PlaceholderName = "NAME"
	PlaceholderDate = "DATE"
)
