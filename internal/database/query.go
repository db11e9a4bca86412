package database

import (
	"context"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Query runs a SurrealQL statement and decodes the first statement's rows.
//
//	users, err := Query[domain.User](ctx, db, "SELECT * FROM user WHERE email = $email", params)
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	results, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, NewDBError(err, ErrQueryFailed.Error()).WithQuery(query)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

// QueryOne returns the first row, or nil when there is none. SELECTs get a
// LIMIT 1 appended unless they already carry one.
func QueryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	if isSelect(query) && !hasLimitClause(query) {
		query += " LIMIT 1"
	}
	rows, err := Query[T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func isSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}

func hasLimitClause(query string) bool {
	fields := strings.Fields(strings.ToUpper(query))
	for _, f := range fields {
		if f == "LIMIT" {
			return true
		}
	}
	return false
}
