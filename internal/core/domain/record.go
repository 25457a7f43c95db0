package domain

import (
	"fmt"
	"strings"
)

// Artifact file names inside a document directory.
const (
	RecordFileName   = "info.yml"
	LabelFileName    = "label.typ"
	ExportFileName   = "label.json"
	BibFileName      = "label.bib"
	RebuttalFileName = "rebut.typ"
)

// IDPrefixLength is the number of id characters used in citation keys.
const IDPrefixLength = 4

// Record is the metadata record persisted next to every document.
// All fields except Tags and URL are required.
type Record struct {
	// OriginalName is the source file name at ingestion time.
	OriginalName string `yaml:"original_name"`

	// ID is the content-derived identifier and the directory name.
	ID string `yaml:"id"`

	// TimeAdded is the ingestion date (YYYY-MM-DD).
	TimeAdded string `yaml:"time_added"`

	// Dates is a free-text date extracted from the document. May be empty.
	Dates string `yaml:"dates"`

	// Title is the document title.
	Title string `yaml:"title"`

	// Authors is the document author string. May be empty.
	Authors string `yaml:"authors"`

	// Tags is free text edited by the user.
	Tags string `yaml:"tags"`

	// Label is the citation key root derived from the title.
	Label string `yaml:"label"`

	// URL is the source URL for documents fetched from the network.
	URL string `yaml:"url"`
}

var requiredRecordFields = []string{
	"original_name", "id", "time_added", "dates", "title", "authors", "label",
}

var optionalRecordFields = []string{"tags", "url"}

// ParseRecord builds a Record from loosely typed decoded fields.
// Every required key must be present with a string value; optional keys
// may be absent or null and default to the empty string. Unknown keys
// are ignored.
func ParseRecord(fields map[string]any) (Record, error) {
	values := make(map[string]string, len(requiredRecordFields)+len(optionalRecordFields))

	for _, key := range requiredRecordFields {
		raw, ok := fields[key]
		if !ok || raw == nil {
			return Record{}, &ValidationError{Field: key, Reason: "missing required field"}
		}
		s, ok := raw.(string)
		if !ok {
			return Record{}, &ValidationError{Field: key, Reason: fmt.Sprintf("expected string, got %T", raw)}
		}
		values[key] = s
	}

	for _, key := range optionalRecordFields {
		raw, ok := fields[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return Record{}, &ValidationError{Field: key, Reason: fmt.Sprintf("expected string, got %T", raw)}
		}
		values[key] = s
	}

	return Record{
		OriginalName: values["original_name"],
		ID:           values["id"],
		TimeAdded:    values["time_added"],
		Dates:        values["dates"],
		Title:        values["title"],
		Authors:      values["authors"],
		Tags:         values["tags"],
		Label:        values["label"],
		URL:          values["url"],
	}, nil
}

// Validate checks a record before it is written.
// Dates and Authors may legitimately be empty; the identifying fields may not.
func (r Record) Validate() error {
	checks := []struct {
		field string
		value string
	}{
		{"original_name", r.OriginalName},
		{"id", r.ID},
		{"time_added", r.TimeAdded},
		{"title", r.Title},
		{"label", r.Label},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return &ValidationError{Field: c.field, Reason: "missing required field"}
		}
	}
	if strings.ContainsAny(r.ID, `/\`) {
		return &ValidationError{Field: "id", Reason: "must not contain path separators"}
	}
	return nil
}

// IDPrefix returns the short id used in citation keys.
func (r Record) IDPrefix() string {
	if len(r.ID) <= IDPrefixLength {
		return r.ID
	}
	return r.ID[:IDPrefixLength]
}

// Matches reports whether any descriptive field contains query,
// ignoring case. An empty query matches everything.
func (r Record) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, v := range []string{r.Title, r.Authors, r.Tags, r.Label, r.Dates, r.URL, r.OriginalName} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// LabelFromTitle derives the citation key root for a title.
func LabelFromTitle(title string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
}
