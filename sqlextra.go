package sqlextra

import (
	"github.com/shrek82/sqlextra/core"
	"github.com/shrek82/sqlextra/literal"
)

// Re-export core types and functions
type Conn = core.Conn
type IndexedConn = core.IndexedConn
type LoggingConn = core.LoggingConn
type MinTimeLoggingConn = core.MinTimeLoggingConn
type Options = core.Options

type Cursor = core.Cursor
type IndexedCursor = core.IndexedCursor
type LoggingCursor = core.LoggingCursor
type LoggingIndexedCursor = core.LoggingIndexedCursor

type Row = core.Row
type IndexedRow = core.IndexedRow
type Column = core.Column
type ColumnIndex = core.ColumnIndex
type ColumnValue = core.ColumnValue

type LogFilter = core.LogFilter
type PassFilter = core.PassFilter
type MinTimeFilter = core.MinTimeFilter
type RedactFilter = core.RedactFilter
type Chain = core.Chain

var (
	Open               = core.Open
	OpenIndexed        = core.OpenIndexed
	OpenLogging        = core.OpenLogging
	OpenMinTimeLogging = core.OpenMinTimeLogging

	ErrNotInitialized = core.ErrNotInitialized
	ErrNoMoreRows     = core.ErrNoMoreRows
	ErrNoResultSet    = core.ErrNoResultSet
)

// Re-export literal types and functions
type Literal = literal.Literal
type List = literal.List
type Registry = literal.Registry

var (
	Adapt       = literal.Adapt
	NewList     = literal.NewList
	NewRegistry = literal.NewRegistry
	Raw         = literal.Raw
)
