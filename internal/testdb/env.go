package testdb

import "os"

// databaseURLVars are checked in order by GetTestDatabaseURL.
var databaseURLVars = []string{"DATABASE_URL", "KITTENS_TEST_DB_URL"}

// GetTestDatabaseURL returns the first non-empty database URL from the
// environment, or "" if none is set.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLVars {
		if url := os.Getenv(name); url != "" {
			return url
		}
	}
	return ""
}

// IsIntegrationTestEnvironment returns true if a database URL is set,
// indicating that integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// ShouldSkipDatabaseTest returns true if integration tests cannot run.
func ShouldSkipDatabaseTest() bool {
	return !IsIntegrationTestEnvironment()
}
