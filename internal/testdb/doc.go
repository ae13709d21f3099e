// Package testdb provides utilities for PostgreSQL integration tests.
//
// Integration tests run only when DATABASE_URL (or KITTENS_TEST_DB_URL) is
// set, and skip otherwise:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips without a database
//	    testdb.ResetTables(t, db)
//	    ...
//	}
//
// GetTestDBWithT applies the embedded migrations before returning, and closes
// the connection when the test finishes. Tests share one database, so they
// must not run in parallel and should call ResetTables before they start.
package testdb
