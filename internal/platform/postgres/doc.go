// Package postgres provides the PostgreSQL implementation of the repositories
// and unit of work defined in the internal/store package.
//
// Connections go through database/sql with the pgx stdlib driver. Option and
// answer sequences are stored as TEXT[] columns. A question is split into a
// root question keyed by type and text, and one row per option set under that
// root. The schema is embedded and applied with goose, see Migrate.
package postgres
