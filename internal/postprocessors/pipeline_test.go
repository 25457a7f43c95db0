package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/evid-cli/evid/internal/core/domain"
)

// mockProcessor is a test processor that appends a suffix to every page.
type mockProcessor struct {
	name   string
	suffix string
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, pages []domain.LabelPage) ([]domain.LabelPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.LabelPage, len(pages))
	for i, p := range pages {
		out[i] = domain.LabelPage{Index: p.Index, Text: p.Text + m.suffix}
	}
	return out, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()
	pages := []domain.LabelPage{{Index: 0, Text: "a"}}

	out, err := p.Process(context.Background(), pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Text != "a" {
		t.Errorf("expected pages unchanged, got %+v", out)
	}
}

func TestPipeline_Process_Order(t *testing.T) {
	p := NewPipeline(
		&mockProcessor{name: "first", suffix: "1"},
		&mockProcessor{name: "second", suffix: "2"},
	)
	pages := []domain.LabelPage{{Index: 0, Text: "a"}, {Index: 1, Text: "b"}}

	out, err := p.Process(context.Background(), pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Text != "a12" || out[1].Text != "b12" {
		t.Errorf("unexpected output: %+v", out)
	}
	if out[1].Index != 1 {
		t.Errorf("expected index preserved, got %d", out[1].Index)
	}
	if pages[0].Text != "a" {
		t.Error("input pages were modified")
	}
}

func TestPipeline_Process_Error(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(
		&mockProcessor{name: "ok"},
		&mockProcessor{name: "broken", err: boom},
	)

	_, err := p.Process(context.Background(), []domain.LabelPage{{Text: "x"}})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped processor error, got %v", err)
	}
}

func TestPipeline_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(&mockProcessor{name: "test"})
	if _, err := p.Process(ctx, []domain.LabelPage{{Text: "x"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPipeline_Names(t *testing.T) {
	p := NewPipeline(&mockProcessor{name: "a"}, &mockProcessor{name: "b"})
	names := p.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected names: %v", names)
	}
}
