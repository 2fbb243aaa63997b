package core

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shrek82/sqlextra/logger"
	"github.com/shrek82/sqlextra/pool"
)

// Options defines the configuration for the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Conn wraps a database connection pool and hands out decorated
// cursors. All cursors created from one Conn share its log sink and
// filter; the sink is written to without locking, so sibling cursors
// used concurrently need a sink that tolerates concurrent writers.
type Conn struct {
	pool   pool.Pool
	driver string
	write  func(msg string) // nil until Initialize
	filter LogFilter
}

// Open initializes a new Conn with the given driver and DSN.
func Open(driver, dsn string, opts *Options) (*Conn, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	p := pool.NewStdPool(sqlDB)

	if opts != nil {
		if opts.MaxOpenConns > 0 {
			p.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			p.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			p.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := p.Ping(); err != nil {
		return nil, err
	}

	return &Conn{pool: p, driver: driver}, nil
}

// Close closes the database connection.
func (c *Conn) Close() error {
	return c.pool.Close()
}

// Cursor returns a plain cursor.
func (c *Conn) Cursor() *Cursor {
	return newCursor(c)
}

// IndexedCursor returns a cursor producing name-indexed rows.
func (c *Conn) IndexedCursor() *IndexedCursor {
	return &IndexedCursor{Cursor: newCursor(c)}
}

// LoggingCursor returns a cursor that logs every executed statement.
// The connection must have been initialized with a sink first.
func (c *Conn) LoggingCursor() (*LoggingCursor, error) {
	if c.write == nil {
		return nil, ErrNotInitialized
	}
	return &LoggingCursor{Cursor: newCursor(c)}, nil
}

// LoggingIndexedCursor returns a cursor combining statement logging
// with name-indexed rows.
func (c *Conn) LoggingIndexedCursor() (*LoggingIndexedCursor, error) {
	if c.write == nil {
		return nil, ErrNotInitialized
	}
	return &LoggingIndexedCursor{IndexedCursor: c.IndexedCursor()}, nil
}

// Initialize configures the connection to log to sink. The sink must
// be a logger.Debugger or an io.Writer; which of the two write paths
// is used is decided here, once, not per log entry.
func (c *Conn) Initialize(sink any) error {
	w, err := sinkWriter(sink)
	if err != nil {
		return err
	}
	c.write = w
	if c.filter == nil {
		c.filter = PassFilter{}
	}
	return nil
}

// InitializeMinTime configures the connection to log to sink only
// those statements whose execution took longer than min.
func (c *Conn) InitializeMinTime(sink any, min time.Duration) error {
	if min < 0 {
		return fmt.Errorf("negative minimum log time %v", min)
	}
	if err := c.Initialize(sink); err != nil {
		return err
	}
	c.filter = MinTimeFilter{Min: min}
	return nil
}

// SetFilter replaces the log filter. This is the extension point for
// custom log shaping; see LogFilter.
func (c *Conn) SetFilter(f LogFilter) {
	if f == nil {
		f = PassFilter{}
	}
	c.filter = f
}

func sinkWriter(sink any) (func(string), error) {
	switch s := sink.(type) {
	case logger.Debugger:
		return func(msg string) { s.Debug("%s", msg) }, nil
	case io.Writer:
		return func(msg string) { fmt.Fprintln(s, msg) }, nil
	}
	return nil, fmt.Errorf("unsupported log sink type %T", sink)
}

// log runs msg through the filter and writes the result, if any.
func (c *Conn) log(msg string, cur *Cursor) {
	if c.write == nil {
		return
	}
	if msg = c.filter.Filter(msg, cur); msg != "" {
		c.write(msg)
	}
}

// procSQL builds the statement invoking a stored procedure, using the
// placeholder style of the connection's driver.
func (c *Conn) procSQL(name string, argc int) string {
	ph := make([]string, argc)
	if c.driver == "postgres" {
		for i := range ph {
			ph[i] = fmt.Sprintf("$%d", i+1)
		}
		return fmt.Sprintf("SELECT * FROM %s(%s)", name, strings.Join(ph, ", "))
	}
	for i := range ph {
		ph[i] = "?"
	}
	return fmt.Sprintf("CALL %s(%s)", name, strings.Join(ph, ", "))
}

// IndexedConn is a Conn whose Cursor method returns name-indexed
// cursors, so callers opting into indexed rows need not pick the
// cursor type on every call.
type IndexedConn struct {
	*Conn
}

// OpenIndexed initializes a new IndexedConn.
func OpenIndexed(driver, dsn string, opts *Options) (*IndexedConn, error) {
	conn, err := Open(driver, dsn, opts)
	if err != nil {
		return nil, err
	}
	return &IndexedConn{Conn: conn}, nil
}

// Cursor returns a name-indexed cursor.
func (c *IndexedConn) Cursor() *IndexedCursor {
	return c.Conn.IndexedCursor()
}

// LoggingConn is a Conn whose Cursor method returns logging cursors.
// It must be initialized with a sink before cursors can be created.
type LoggingConn struct {
	*Conn
}

// OpenLogging initializes a new LoggingConn. The connection still
// needs Initialize before use.
func OpenLogging(driver, dsn string, opts *Options) (*LoggingConn, error) {
	conn, err := Open(driver, dsn, opts)
	if err != nil {
		return nil, err
	}
	return &LoggingConn{Conn: conn}, nil
}

// Cursor returns a logging cursor, or ErrNotInitialized when no sink
// has been configured.
func (c *LoggingConn) Cursor() (*LoggingCursor, error) {
	return c.Conn.LoggingCursor()
}

// MinTimeLoggingConn is a LoggingConn that only logs statements slower
// than a configured minimum time.
type MinTimeLoggingConn struct {
	*LoggingConn
}

// OpenMinTimeLogging initializes a new MinTimeLoggingConn. The
// connection still needs Initialize before use.
func OpenMinTimeLogging(driver, dsn string, opts *Options) (*MinTimeLoggingConn, error) {
	conn, err := OpenLogging(driver, dsn, opts)
	if err != nil {
		return nil, err
	}
	return &MinTimeLoggingConn{LoggingConn: conn}, nil
}

// Initialize configures the sink and the minimum execution time a
// statement must exceed to be logged.
func (c *MinTimeLoggingConn) Initialize(sink any, min time.Duration) error {
	return c.Conn.InitializeMinTime(sink, min)
}
