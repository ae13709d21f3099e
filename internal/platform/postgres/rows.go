package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/store"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// textArray returns values, or an empty array when values is nil. TEXT[]
// columns are NOT NULL and compared by value.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// exists runs a single-parameter EXISTS query.
func exists(ctx context.Context, db store.DBTX, query string, uid uuid.UUID) (bool, error) {
	var found bool
	if err := db.QueryRowContext(ctx, query, uid).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", MapError(err))
	}
	return found, nil
}

const (
	userExistsQuery     = `SELECT EXISTS (SELECT 1 FROM users WHERE uid = $1)`
	questionExistsQuery = `SELECT EXISTS (SELECT 1 FROM questions WHERE uid = $1)`
)
