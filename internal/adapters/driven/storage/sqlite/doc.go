// Package sqlite provides the catalog index on top of modernc.org/sqlite,
// a pure Go SQLite implementation that requires no CGO.
//
// The catalog mirrors the info.yml records of every dataset so that
// documents can be searched across datasets without walking the tree.
// The records on disk stay authoritative; the catalog is rebuilt per
// dataset on every search.
//
// # Schema
//
// The schema is managed through numbered migrations embedded from the
// migrations/ directory (NNN_name.up.sql). Applied versions are recorded
// in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.evid/catalog.db
package sqlite
