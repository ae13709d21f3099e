// Package memory implements the store repositories and unit of work entirely
// in process memory.
//
// The memory backend is meant for tests and for running the core without a
// database. Each UnitOfWork owns its repositories and their data, so two
// UnitOfWork values never share state. Scope rollback restores a deep copy of
// the records taken at Begin and at every Commit.
package memory
