package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.Catalog = (*Catalog)(nil)

// Catalog is an in-memory driven.Catalog.
type Catalog struct {
	mu       sync.RWMutex
	datasets map[string][]domain.Document
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{datasets: make(map[string][]domain.Document)}
}

// Replace swaps the documents of a dataset.
func (c *Catalog) Replace(_ context.Context, dataset string, docs []domain.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[dataset] = append([]domain.Document(nil), docs...)
	return nil
}

// Search returns documents matching query ordered by dataset and title.
func (c *Catalog) Search(_ context.Context, query string, limit int) ([]domain.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Document
	for _, docs := range c.datasets {
		for _, d := range docs {
			if d.Record.Matches(query) {
				out = append(out, d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dataset != out[j].Dataset {
			return out[i].Dataset < out[j].Dataset
		}
		return out[i].Record.Title < out[j].Record.Title
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (c *Catalog) Close() error {
	return nil
}
