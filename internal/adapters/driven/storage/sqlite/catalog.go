package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/evid-cli/evid/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.Catalog = (*Catalog)(nil)

// Catalog is a SQLite-backed driven.Catalog.
type Catalog struct {
	db   *sql.DB
	path string
}

// NewCatalog opens (or creates) the catalog database in dataDir.
// If dataDir is empty, defaults to ~/.evid.
func NewCatalog(dataDir string) (*Catalog, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".evid")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Catalog{db: db, path: dbPath}
	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// migrate runs all pending migrations and records each applied version.
func (c *Catalog) migrate(fsys fs.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_catalog.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := c.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Replace swaps the indexed documents of a dataset for docs.
func (c *Catalog) Replace(ctx context.Context, dataset string, docs []domain.Document) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE dataset = ?", dataset); err != nil {
		return fmt.Errorf("clearing dataset %s: %w", dataset, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (dataset, id, dir, original_name, time_added, dates, title, authors, tags, label, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dataset, id) DO UPDATE SET
			dir = excluded.dir,
			original_name = excluded.original_name,
			time_added = excluded.time_added,
			dates = excluded.dates,
			title = excluded.title,
			authors = excluded.authors,
			tags = excluded.tags,
			label = excluded.label,
			url = excluded.url
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		r := d.Record
		if _, err := stmt.ExecContext(ctx, dataset, r.ID, d.Dir, r.OriginalName, r.TimeAdded,
			r.Dates, r.Title, r.Authors, r.Tags, r.Label, r.URL); err != nil {
			return fmt.Errorf("indexing %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Search returns documents whose descriptive fields contain query,
// ordered by dataset and title. A limit of zero or less means no limit.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	if limit <= 0 {
		limit = -1
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT dataset, id, dir, original_name, time_added, dates, title, authors, tags, label, url
		FROM documents
		WHERE lower(title) LIKE ?1 ESCAPE '\'
		   OR lower(authors) LIKE ?1 ESCAPE '\'
		   OR lower(tags) LIKE ?1 ESCAPE '\'
		   OR lower(label) LIKE ?1 ESCAPE '\'
		   OR lower(dates) LIKE ?1 ESCAPE '\'
		   OR lower(url) LIKE ?1 ESCAPE '\'
		   OR lower(original_name) LIKE ?1 ESCAPE '\'
		ORDER BY dataset, title
		LIMIT ?2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		r := &d.Record
		if err := rows.Scan(&d.Dataset, &r.ID, &d.Dir, &r.OriginalName, &r.TimeAdded,
			&r.Dates, &r.Title, &r.Authors, &r.Tags, &r.Label, &r.URL); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
