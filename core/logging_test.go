package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestLoggingCursorWritesOneEntry(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.Initialize(buf); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id FROM t ORDER BY id"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SELECT id FROM t ORDER BY id") {
		t.Errorf("log output missing statement: %q", out)
	}
	if n := strings.Count(out, "SELECT id FROM t"); n != 1 {
		t.Errorf("statement logged %d times, want 1", n)
	}

	// Fetching does not log.
	if _, err := cur.FetchAll(); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("fetch added log entries: %q", buf.String())
	}
}

func TestLoggingIncludesArgs(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.Initialize(buf); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT name FROM t WHERE id = ?", 1); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(buf.String(), "args: [1]") {
		t.Errorf("log output missing args: %q", buf.String())
	}
}

func TestLoggingOnFailedStatement(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.Initialize(buf); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT * FROM no_such_table"); err == nil {
		t.Fatal("expected execution error")
	}
	if !strings.Contains(buf.String(), "no_such_table") {
		t.Errorf("failed statement was not logged: %q", buf.String())
	}
}

func TestNotInitialized(t *testing.T) {
	conn := openTestConn(t)

	if _, err := conn.LoggingCursor(); err != ErrNotInitialized {
		t.Errorf("LoggingCursor = %v, want ErrNotInitialized", err)
	}
	if _, err := conn.LoggingIndexedCursor(); err != ErrNotInitialized {
		t.Errorf("LoggingIndexedCursor = %v, want ErrNotInitialized", err)
	}

	// A cursor constructed before initialization still refuses to execute.
	cur := &LoggingCursor{Cursor: newCursor(conn)}
	if err := cur.Execute(context.Background(), "SELECT 1"); err != ErrNotInitialized {
		t.Errorf("Execute = %v, want ErrNotInitialized", err)
	}
}

func TestInitializeRejectsBadSink(t *testing.T) {
	conn := openTestConn(t)
	if err := conn.Initialize(42); err == nil {
		t.Error("Initialize accepted a non-sink value")
	}
	if err := conn.InitializeMinTime(&bytes.Buffer{}, -time.Second); err == nil {
		t.Error("InitializeMinTime accepted a negative threshold")
	}
}

type debugSink struct {
	entries []string
}

func (s *debugSink) Debug(format string, args ...any) {
	s.entries = append(s.entries, fmt.Sprintf(format, args...))
}

func (s *debugSink) Write(p []byte) (int, error) {
	panic("writer path must not be used for a Debugger sink")
}

func TestSinkDispatchPrefersDebugger(t *testing.T) {
	conn := openTestConn(t)
	sink := &debugSink{}
	if err := conn.Initialize(sink); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id FROM t"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("Debugger got %d entries, want 1", len(sink.entries))
	}
}

func TestMinTimeSuppression(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.InitializeMinTime(buf, time.Hour); err != nil {
		t.Fatalf("InitializeMinTime failed: %v", err)
	}

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id FROM t"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("fast statement was logged: %q", buf.String())
	}
}

func TestMinTimeZeroLogsEverything(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.InitializeMinTime(buf, 0); err != nil {
		t.Fatalf("InitializeMinTime failed: %v", err)
	}

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id FROM t"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SELECT id FROM t") {
		t.Errorf("statement not logged: %q", out)
	}
	if !strings.Contains(out, "(execution time:") {
		t.Errorf("timing annotation missing: %q", out)
	}
}

func TestMinTimeFilter(t *testing.T) {
	f := MinTimeFilter{Min: 100 * time.Millisecond}

	slow := &Cursor{started: time.Now().Add(-150 * time.Millisecond)}
	msg := f.Filter("SELECT 1", slow)
	if !strings.HasPrefix(msg, "SELECT 1\n  (execution time: ") {
		t.Errorf("slow statement message = %q", msg)
	}

	fast := &Cursor{started: time.Now().Add(-50 * time.Millisecond)}
	if msg := f.Filter("SELECT 1", fast); msg != "" {
		t.Errorf("fast statement not suppressed: %q", msg)
	}
}

func TestSetFilterOverride(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.Initialize(buf); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	conn.SetFilter(RedactFilter{})

	cur, err := conn.LoggingCursor()
	if err != nil {
		t.Fatalf("LoggingCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id FROM t WHERE name = 'secret'"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Errorf("literal leaked into log: %q", out)
	}
	if !strings.Contains(out, "'***'") {
		t.Errorf("mask missing from log: %q", out)
	}
}

func TestLoggingIndexedCursor(t *testing.T) {
	conn := openTestConn(t)
	buf := &bytes.Buffer{}
	if err := conn.Initialize(buf); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cur, err := conn.LoggingIndexedCursor()
	if err != nil {
		t.Fatalf("LoggingIndexedCursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id, name FROM t ORDER BY id"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	row, err := cur.FetchOne()
	if err != nil || row == nil {
		t.Fatalf("FetchOne = %v, %v", row, err)
	}
	if v := row.Get("name", nil); v != "a" {
		t.Errorf("name = %v, want a", v)
	}
	if !strings.Contains(buf.String(), "SELECT id, name FROM t") {
		t.Errorf("statement not logged: %q", buf.String())
	}
}

func TestMinTimeLoggingConn(t *testing.T) {
	conn := openTestConn(t)
	mconn := &MinTimeLoggingConn{LoggingConn: &LoggingConn{Conn: conn}}

	if _, err := mconn.Cursor(); err != ErrNotInitialized {
		t.Errorf("Cursor before Initialize = %v, want ErrNotInitialized", err)
	}

	buf := &bytes.Buffer{}
	if err := mconn.Initialize(buf, time.Hour); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	cur, err := mconn.Cursor()
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if err := cur.Execute(context.Background(), "SELECT id FROM t"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("fast statement was logged: %q", buf.String())
	}
}
