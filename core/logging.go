package core

import (
	"context"
	"fmt"
	"time"
)

// LoggingCursor is a Cursor that reports every executed statement to
// its connection's log sink, whether or not execution succeeds. The
// connection's filter decides what, if anything, is written.
type LoggingCursor struct {
	*Cursor
}

// Execute runs a statement and logs it exactly once after the
// underlying execution returns. The execution error, if any, is
// propagated unchanged.
func (c *LoggingCursor) Execute(ctx context.Context, query string, args ...any) error {
	if c.conn.write == nil {
		return ErrNotInitialized
	}
	c.started = time.Now()
	defer func() {
		c.conn.log(logMessage(query, args), c.Cursor)
	}()
	return c.Cursor.Execute(ctx, query, args...)
}

// CallProc invokes a stored procedure with the same logging guarantees
// as Execute.
func (c *LoggingCursor) CallProc(ctx context.Context, name string, args ...any) error {
	return c.Execute(ctx, c.conn.procSQL(name, len(args)), args...)
}

// LoggingIndexedCursor combines statement logging with name-indexed
// rows. The two decorations are independent; fetch behavior is that of
// IndexedCursor.
type LoggingIndexedCursor struct {
	*IndexedCursor
}

func (c *LoggingIndexedCursor) Execute(ctx context.Context, query string, args ...any) error {
	if c.conn.write == nil {
		return ErrNotInitialized
	}
	c.started = time.Now()
	defer func() {
		c.conn.log(logMessage(query, args), c.Cursor)
	}()
	return c.IndexedCursor.Execute(ctx, query, args...)
}

func (c *LoggingIndexedCursor) CallProc(ctx context.Context, name string, args ...any) error {
	return c.Execute(ctx, c.conn.procSQL(name, len(args)), args...)
}

// logMessage renders the statement the way it was handed to the
// driver: the text plus its bound arguments, if any.
func logMessage(query string, args []any) string {
	if len(args) == 0 {
		return query
	}
	return fmt.Sprintf("%s | args: %v", query, args)
}
