package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kittens-answers/answers-core/internal/store"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// encodeList encodes values as a JSON array. A nil slice encodes as [].
func encodeList(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		// A []string always marshals.
		panic(fmt.Sprintf("failed to encode list: %v", err))
	}
	return string(data)
}

// decodeList decodes a JSON array column.
func decodeList(column string) ([]string, error) {
	values := []string{}
	if err := json.Unmarshal([]byte(column), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list column: %w", err)
	}
	return values, nil
}

// exists runs a single-parameter EXISTS query.
func exists(ctx context.Context, db store.DBTX, query string, uid uuid.UUID) (bool, error) {
	var found bool
	if err := db.QueryRowContext(ctx, query, uid.String()).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", MapError(err))
	}
	return found, nil
}

const (
	userExistsQuery     = `SELECT EXISTS (SELECT 1 FROM users WHERE uid = ?)`
	questionExistsQuery = `SELECT EXISTS (SELECT 1 FROM questions WHERE uid = ?)`
)
