package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driving"
)

type fakeDatasets struct {
	sets    []domain.Dataset
	created []string
	tracked bool
	err     error
}

func (f *fakeDatasets) List(context.Context) ([]domain.Dataset, error) { return f.sets, f.err }

func (f *fakeDatasets) Create(_ context.Context, name string) (domain.Dataset, error) {
	if f.err != nil {
		return domain.Dataset{}, f.err
	}
	f.created = append(f.created, name)
	return domain.Dataset{Name: name, Path: filepath.Join("/store", name)}, nil
}

func (f *fakeDatasets) Get(_ context.Context, name string) (domain.Dataset, error) {
	for _, ds := range f.sets {
		if ds.Name == name {
			return ds, nil
		}
	}
	return domain.Dataset{}, domain.ErrNotFound
}

func (f *fakeDatasets) Track(context.Context) error {
	f.tracked = true
	return f.err
}

type addCall struct {
	dataset string
	source  string
	opts    domain.IngestOptions
}

type fakeEvidence struct {
	docs    []domain.Document
	added   []addCall
	result  *domain.IngestResult
	addErr  error
	opened  []string
	queries []string
}

func (f *fakeEvidence) Add(_ context.Context, dataset, source string, opts domain.IngestOptions) (*domain.IngestResult, error) {
	f.added = append(f.added, addCall{dataset, source, opts})
	return f.result, f.addErr
}

func (f *fakeEvidence) List(_ context.Context, dataset string) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range f.docs {
		if d.Dataset == dataset {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeEvidence) Get(_ context.Context, dataset, id string) (domain.Document, error) {
	for _, d := range f.docs {
		if d.Dataset == dataset && strings.HasPrefix(d.Record.ID, id) {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}

func (f *fakeEvidence) Search(_ context.Context, query string) ([]domain.Document, error) {
	f.queries = append(f.queries, query)
	var out []domain.Document
	for _, d := range f.docs {
		if d.Record.Matches(query) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeEvidence) Open(_ context.Context, doc domain.Document) error {
	f.opened = append(f.opened, doc.Dir)
	return nil
}

type fakeLabels struct {
	generated []string
	labelled  []string
	autoLabel bool
	exists    bool
}

func (f *fakeLabels) Generate(_ context.Context, sourcePath string, autoLabel bool) (string, bool, error) {
	f.generated = append(f.generated, sourcePath)
	f.autoLabel = autoLabel
	return filepath.Join(filepath.Dir(sourcePath), domain.LabelFileName), !f.exists, nil
}

func (f *fakeLabels) Label(_ context.Context, sourcePath string, autoLabel bool) (string, error) {
	f.labelled = append(f.labelled, sourcePath)
	f.autoLabel = autoLabel
	return filepath.Join(filepath.Dir(sourcePath), domain.LabelFileName), nil
}

type fakeBib struct {
	paths       []string
	parallel    bool
	excludeNote bool
	failing     map[string]error
	watched     string
}

func (f *fakeBib) FromLabel(_ context.Context, labelPath string, excludeNote bool) (domain.BibResult, error) {
	f.excludeNote = excludeNote
	return domain.BibResult{Path: labelPath, Output: filepath.Join(filepath.Dir(labelPath), domain.BibFileName), Entries: 2}, nil
}

func (f *fakeBib) Compile(_ context.Context, exportPath string, excludeNote bool) (domain.BibResult, error) {
	return f.FromLabel(context.Background(), exportPath, excludeNote)
}

func (f *fakeBib) GenerateAll(_ context.Context, paths []string, parallel, excludeNote bool) []domain.BibResult {
	f.paths, f.parallel, f.excludeNote = paths, parallel, excludeNote
	results := make([]domain.BibResult, len(paths))
	for i, p := range paths {
		results[i] = domain.BibResult{Path: p, Output: filepath.Join(filepath.Dir(p), domain.BibFileName), Entries: 2}
		if err := f.failing[p]; err != nil {
			results[i] = domain.BibResult{Path: p, Err: err}
		}
	}
	return results
}

func (f *fakeBib) Watch(_ context.Context, labelPath string, excludeNote bool, report func(domain.BibResult)) error {
	f.watched, f.excludeNote = labelPath, excludeNote
	report(domain.BibResult{Path: labelPath, Output: "label.bib", Entries: 1})
	return nil
}

type fakeRebuttal struct {
	dir  string
	open bool
}

func (f *fakeRebuttal) Compose(_ context.Context, dir string) (string, bool, error) {
	return filepath.Join(dir, domain.RebuttalFileName), true, nil
}

func (f *fakeRebuttal) Rebut(_ context.Context, dir string, open bool) (string, error) {
	f.dir, f.open = dir, open
	return filepath.Join(dir, domain.RebuttalFileName), nil
}

type fakeSettings struct {
	values map[string]string
	err    error
}

func (f *fakeSettings) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	if f.values["bib.exclude_note"] == "false" {
		s.Bibliography.ExcludeNote = false
	}
	return &s, nil
}

func (f *fakeSettings) Set(key, value string) error {
	if f.err != nil {
		return f.err
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeSettings) Entries() ([]driving.SettingEntry, error) {
	entries := []driving.SettingEntry{
		{Key: "storage.directory", Value: "/store", Default: "~/Documents/evid"},
		{Key: "bib.parallel", Value: "4", Default: "4"},
	}
	for i := range entries {
		if v, ok := f.values[entries[i].Key]; ok {
			entries[i].Value = v
		}
	}
	return entries, nil
}

func (f *fakeSettings) Path() string { return "/cfg/config.yaml" }

var testDocs = []domain.Document{
	{
		Dataset: "housing",
		Dir:     "/store/housing/aa11bb22",
		Record: domain.Record{
			ID: "aa11bb22", OriginalName: "notice.pdf", Title: "Eviction notice",
			TimeAdded: "2024-03-09", Dates: "2024-01-05", Label: "eviction_notice",
		},
	},
	{
		Dataset: "housing",
		Dir:     "/store/housing/cc33dd44",
		Record:  domain.Record{ID: "cc33dd44", OriginalName: "ledger.pdf", Title: "Rent ledger", Label: "rent_ledger"},
	},
}

// testServices is the fake service graph installed by execute.
type testServices struct {
	datasets *fakeDatasets
	evidence *fakeEvidence
	labels   *fakeLabels
	bib      *fakeBib
	rebuttal *fakeRebuttal
	settings *fakeSettings
}

func newTestServices() *testServices {
	return &testServices{
		datasets: &fakeDatasets{sets: []domain.Dataset{{Name: "housing", Path: "/store/housing"}, {Name: "school", Path: "/store/school"}}},
		evidence: &fakeEvidence{docs: testDocs},
		labels:   &fakeLabels{},
		bib:      &fakeBib{},
		rebuttal: &fakeRebuttal{},
		settings: &fakeSettings{},
	}
}

func (s *testServices) install() {
	SetServices(&Services{
		Datasets:     s.datasets,
		Evidence:     s.evidence,
		Labels:       s.labels,
		Bibliography: s.bib,
		Rebuttal:     s.rebuttal,
		Settings:     s.settings,
	})
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args against svc and returns the output.
// A nil svc leaves all services unset.
func execute(t *testing.T, svc *testServices, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	SetServices(nil)
	if svc != nil {
		svc.install()
	}
	t.Cleanup(func() {
		SetServices(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// withInput replaces interactive input for the duration of the test.
func withInput(t *testing.T, terminal bool, input string) {
	t.Helper()
	oldStdin, oldTerminal, oldReader := stdin, isTerminal, stdinReader
	stdin = strings.NewReader(input)
	stdinReader = nil
	isTerminal = func() bool { return terminal }
	t.Cleanup(func() {
		stdin, isTerminal, stdinReader = oldStdin, oldTerminal, oldReader
	})
}
