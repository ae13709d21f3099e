// Package sqlite provides an embedded SQLite implementation of the
// repositories and unit of work defined in the internal/store package.
//
// It uses the pure Go modernc.org/sqlite driver. Option and answer sequences
// are stored as JSON arrays, which compare by value in unique constraints
// because option sets are always sorted before they are encoded. The schema
// mirrors the PostgreSQL one and is applied with goose, see Migrate.
package sqlite
