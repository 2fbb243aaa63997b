package core

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Column describes one column of a result set.
type Column struct {
	Name string
}

// Row holds the values of one fetched row in column order.
type Row []any

// Cursor executes statements and fetches rows from one result set at a
// time. Executing a new statement discards the previous result set.
//
// A Cursor must not be shared between goroutines; this matches the
// contract of the underlying *sql.Rows.
type Cursor struct {
	conn         *Conn
	rows         *sql.Rows
	desc         []Column
	lastSQL      string
	lastArgs     []any
	rowsAffected int64
	started      time.Time
	closed       bool
}

func newCursor(conn *Conn) *Cursor {
	return &Cursor{conn: conn}
}

// Description returns the column descriptors of the most recently
// executed statement, or nil when it produced no tabular result.
func (c *Cursor) Description() []Column {
	return c.desc
}

// LastSQL returns the text of the most recently executed statement.
func (c *Cursor) LastSQL() string {
	return c.lastSQL
}

// LastArgs returns the arguments bound to the most recently executed statement.
func (c *Cursor) LastArgs() []any {
	return c.lastArgs
}

// RowsAffected returns the affected-row count of the most recent
// non-query statement.
func (c *Cursor) RowsAffected() int64 {
	return c.rowsAffected
}

// StartedAt returns the time the current statement began executing.
// It is recorded by logging cursors only.
func (c *Cursor) StartedAt() time.Time {
	return c.started
}

// Elapsed returns the time since the current statement began executing.
func (c *Cursor) Elapsed() time.Duration {
	return time.Since(c.started)
}

// Execute runs a statement. Statements that return rows open a new
// result set for the fetch methods; all others record their
// affected-row count. Errors from the underlying pool are returned
// unchanged.
func (c *Cursor) Execute(ctx context.Context, query string, args ...any) error {
	return c.execute(ctx, query, args...)
}

// CallProc invokes a stored procedure with the given arguments,
// using the placeholder style of the connection's driver.
func (c *Cursor) CallProc(ctx context.Context, name string, args ...any) error {
	return c.Execute(ctx, c.conn.procSQL(name, len(args)), args...)
}

func (c *Cursor) execute(ctx context.Context, query string, args ...any) error {
	if c.closed {
		return ErrCursorClosed
	}
	if err := c.discard(); err != nil {
		return err
	}
	c.lastSQL = query
	c.lastArgs = args

	if !returnsRows(query) {
		res, err := c.conn.pool.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			c.rowsAffected = n
		}
		return nil
	}

	rows, err := c.conn.pool.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return err
	}
	c.rows = rows
	c.desc = make([]Column, len(cols))
	for i, name := range cols {
		c.desc[i] = Column{Name: name}
	}
	return nil
}

// discard releases the previous result set, if any.
func (c *Cursor) discard() error {
	c.desc = nil
	c.rowsAffected = 0
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}

// FetchOne returns the next row of the current result set, or (nil, nil)
// once it is exhausted.
func (c *Cursor) FetchOne() (Row, error) {
	return c.fetchOne()
}

func (c *Cursor) fetchOne() (Row, error) {
	if c.closed {
		return nil, ErrCursorClosed
	}
	if c.rows == nil {
		return nil, ErrNoResultSet
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return c.scanRow()
}

func (c *Cursor) scanRow() (Row, error) {
	values := make([]any, len(c.desc))
	ptrs := make([]any, len(c.desc))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}

// FetchMany returns up to n rows from the current result set. Fewer
// rows (possibly none) are returned when the result set runs out.
func (c *Cursor) FetchMany(n int) ([]Row, error) {
	rows := make([]Row, 0, n)
	for len(rows) < n {
		row, err := c.fetchOne()
		if err != nil {
			return rows, err
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FetchAll returns all remaining rows of the current result set.
func (c *Cursor) FetchAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := c.fetchOne()
		if err != nil {
			return rows, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// Next returns the next row, or ErrNoMoreRows once the result set is
// exhausted.
func (c *Cursor) Next() (Row, error) {
	row, err := c.fetchOne()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNoMoreRows
	}
	return row, nil
}

// Close releases the current result set and marks the cursor unusable.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.discard()
}

// returnsRows classifies a statement by its leading verb. RETURNING
// clauses force the query path regardless of the verb.
func returnsRows(query string) bool {
	s := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(s, "SELECT"),
		strings.HasPrefix(s, "WITH"),
		strings.HasPrefix(s, "VALUES"),
		strings.HasPrefix(s, "SHOW"),
		strings.HasPrefix(s, "PRAGMA"),
		strings.HasPrefix(s, "EXPLAIN"),
		strings.HasPrefix(s, "CALL"):
		return true
	}
	return strings.Contains(s, "RETURNING")
}
