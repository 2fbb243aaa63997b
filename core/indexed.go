package core

import (
	"context"
	"fmt"
)

// indexState tracks the lifecycle of an IndexedCursor's column index.
type indexState int

const (
	noIndex indexState = iota
	indexPending
	indexReady
)

// ColumnIndex maps column names to ordinal positions for one executed
// statement. It is built at most once per execution and shared
// read-only by every row fetched from that execution.
//
// Lookups are case-sensitive. A result set with duplicate column names
// indexes the last occurrence; rely on column aliases if that matters.
type ColumnIndex struct {
	pos   map[string]int
	names []string
}

func buildColumnIndex(desc []Column) *ColumnIndex {
	ci := &ColumnIndex{
		pos:   make(map[string]int, len(desc)),
		names: make([]string, len(desc)),
	}
	for i, col := range desc {
		ci.pos[col.Name] = i
		ci.names[i] = col.Name
	}
	return ci
}

// Position returns the ordinal position of the named column.
func (ci *ColumnIndex) Position(name string) (int, bool) {
	i, ok := ci.pos[name]
	return i, ok
}

// Names returns the column names in ordinal order.
func (ci *ColumnIndex) Names() []string {
	out := make([]string, len(ci.names))
	copy(out, ci.names)
	return out
}

// Len returns the number of indexed columns.
func (ci *ColumnIndex) Len() int {
	return len(ci.names)
}

// IndexedCursor is a Cursor whose fetch methods produce rows that can
// be read by column name as well as by position. The column index is
// rebuilt lazily on the first fetch after each execution, so statements
// without a tabular result never build one.
type IndexedCursor struct {
	*Cursor
	state indexState
	index *ColumnIndex
}

// Execute runs a statement and invalidates the index of the previous
// execution. The new index is built on the first subsequent fetch.
func (c *IndexedCursor) Execute(ctx context.Context, query string, args ...any) error {
	c.state = indexPending
	c.index = nil
	return c.Cursor.Execute(ctx, query, args...)
}

// CallProc invokes a stored procedure; index handling is the same as
// for Execute.
func (c *IndexedCursor) CallProc(ctx context.Context, name string, args ...any) error {
	return c.Execute(ctx, c.conn.procSQL(name, len(args)), args...)
}

// Index returns the column index of the current execution, or nil when
// none has been built yet.
func (c *IndexedCursor) Index() *ColumnIndex {
	return c.index
}

func (c *IndexedCursor) buildIndex() {
	if c.state != indexPending || len(c.desc) == 0 {
		return
	}
	c.index = buildColumnIndex(c.desc)
	c.state = indexReady
}

// FetchOne returns the next row, or (nil, nil) once the result set is
// exhausted. Exhaustion still completes a pending index build, so an
// empty result set ends with a usable index.
func (c *IndexedCursor) FetchOne() (*IndexedRow, error) {
	row, err := c.Cursor.fetchOne()
	if err != nil {
		return nil, err
	}
	c.buildIndex()
	if row == nil {
		return nil, nil
	}
	return &IndexedRow{values: row, index: c.index}, nil
}

// FetchMany returns up to n rows.
func (c *IndexedCursor) FetchMany(n int) ([]*IndexedRow, error) {
	rows := make([]*IndexedRow, 0, n)
	for len(rows) < n {
		row, err := c.FetchOne()
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

// FetchAll returns all remaining rows.
func (c *IndexedCursor) FetchAll() ([]*IndexedRow, error) {
	var rows []*IndexedRow
	for {
		row, err := c.FetchOne()
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
func (c *IndexedCursor) Next() (*IndexedRow, error) {
	row, err := c.FetchOne()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNoMoreRows
	}
	return row, nil
}

// ColumnValue is one (name, value) pair of an IndexedRow.
type ColumnValue struct {
	Name  string
	Value any
}

// IndexedRow is a fixed-length row whose values can be read both by
// position and by column name. The column index is shared with every
// other row of the same execution and is never mutated after rows have
// been handed out.
type IndexedRow struct {
	values Row
	index  *ColumnIndex
}

// Len returns the number of values in the row.
func (r *IndexedRow) Len() int {
	return len(r.values)
}

// ByPos returns the value at position i.
func (r *IndexedRow) ByPos(i int) (any, error) {
	if i < 0 || i >= len(r.values) {
		return nil, fmt.Errorf("position %d out of range [0, %d)", i, len(r.values))
	}
	return r.values[i], nil
}

// ByName returns the value of the named column. Unknown names fail
// with a *ColumnError.
func (r *IndexedRow) ByName(name string) (any, error) {
	if r.index == nil {
		return nil, &ColumnError{Name: name}
	}
	i, ok := r.index.Position(name)
	if !ok {
		return nil, &ColumnError{Name: name}
	}
	return r.values[i], nil
}

// Get returns the value of the named column, or def when the name is
// not part of the result set. It never fails.
func (r *IndexedRow) Get(name string, def any) any {
	v, err := r.ByName(name)
	if err != nil {
		return def
	}
	return v
}

// Set replaces the value at position i. The row's length never changes.
func (r *IndexedRow) Set(i int, v any) error {
	if i < 0 || i >= len(r.values) {
		return fmt.Errorf("position %d out of range [0, %d)", i, len(r.values))
	}
	r.values[i] = v
	return nil
}

// Keys returns the column names in ordinal order.
func (r *IndexedRow) Keys() []string {
	if r.index == nil {
		return nil
	}
	return r.index.Names()
}

// Values returns the row's values in positional order.
func (r *IndexedRow) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// Items returns the row as (name, value) pairs in index order.
func (r *IndexedRow) Items() []ColumnValue {
	if r.index == nil {
		return nil
	}
	items := make([]ColumnValue, 0, len(r.values))
	for i, name := range r.index.names {
		items = append(items, ColumnValue{Name: name, Value: r.values[i]})
	}
	return items
}
