package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common database errors that can be checked using errors.Is().
var (
	ErrNotConnected = errors.New("database not connected")
	ErrQueryFailed  = errors.New("query execution failed")
)

// DBError wraps a driver error with the operation and query that produced it.
type DBError struct {
	err     error
	context string
	query   string
}

// NewDBError creates a new DBError with the given error and context.
func NewDBError(err error, context string) *DBError {
	return &DBError{err: err, context: context}
}

// WithQuery adds query information to the error.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = query
	return e
}

func (e *DBError) Error() string {
	msg := e.context
	if e.query != "" {
		msg = fmt.Sprintf("%s\nQuery: %s", msg, strings.TrimSpace(e.query))
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

func (e *DBError) Unwrap() error { return e.err }

// isConnectionError checks if an error is likely due to a lost or failed
// connection rather than an application-level rejection.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNotConnected) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "unexpected eof") ||
		strings.Contains(errMsg, "use of closed network connection")
}
