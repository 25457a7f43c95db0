package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evid-cli/evid/internal/core/domain"
)

func setupTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func doc(dataset, id, title string) domain.Document {
	return domain.Document{
		Dataset: dataset,
		Dir:     "/data/" + dataset + "/" + id,
		Record: domain.Record{
			OriginalName: title + ".pdf",
			ID:           id,
			TimeAdded:    "2024-01-01",
			Title:        title,
			Label:        domain.LabelFromTitle(title),
		},
	}
}

func TestNewCatalog_RecordsMigrations(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCatalog(dir)
	require.NoError(t, err)

	var version int
	require.NoError(t, c.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, c.Close())

	reopened, err := NewCatalog(dir)
	require.NoError(t, err, "reopening must not re-run applied migrations")
	require.NoError(t, reopened.Close())
}

func TestCatalog_ReplaceAndSearch(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Replace(ctx, "cases", []domain.Document{
		doc("cases", "aaaa", "Annual Report"),
		doc("cases", "bbbb", "Meeting Minutes"),
	}))
	require.NoError(t, c.Replace(ctx, "archive", []domain.Document{
		doc("archive", "cccc", "Old Report"),
	}))

	got, err := c.Search(ctx, "report", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "archive", got[0].Dataset)
	assert.Equal(t, "Old Report", got[0].Record.Title)
	assert.Equal(t, "Annual Report", got[1].Record.Title)
	assert.Equal(t, "/data/cases/aaaa", got[1].Dir)

	require.NoError(t, c.Replace(ctx, "cases", []domain.Document{doc("cases", "bbbb", "Meeting Minutes")}))
	got, err = c.Search(ctx, "report", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalog_SearchLimitAndWildcards(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Replace(ctx, "s", []domain.Document{
		doc("s", "a", "First"),
		doc("s", "b", "Second"),
		doc("s", "c", "100% sure"),
	}))

	all, err := c.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := c.Search(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	percent, err := c.Search(ctx, "%", 0)
	require.NoError(t, err)
	require.Len(t, percent, 1)
	assert.Equal(t, "100% sure", percent[0].Record.Title)
}
