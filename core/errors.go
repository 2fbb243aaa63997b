package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a logging connection is used before
	// Initialize has configured its sink.
	ErrNotInitialized = errors.New("logging connection has not been initialized")
	// ErrNoMoreRows is returned by Next once the current result set is exhausted.
	ErrNoMoreRows = errors.New("no more rows")
	// ErrNoResultSet is returned when rows are fetched before a statement
	// producing a result set has been executed.
	ErrNoResultSet = errors.New("no result set")
	// ErrCursorClosed is returned when a closed cursor is used.
	ErrCursorClosed = errors.New("cursor is closed")
)

// ColumnError reports a by-name lookup for a column that is not part of
// the current result set.
type ColumnError struct {
	Name string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("no such column %q", e.Name)
}
