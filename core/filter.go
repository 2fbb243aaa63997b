package core

import (
	"fmt"
	"strings"
	"time"
)

// LogFilter decides whether and how an executed statement is logged.
// Returning an empty string suppresses the entry entirely.
//
// Implementations receive the cursor that ran the statement, so
// timing-aware filters can consult its start timestamp.
type LogFilter interface {
	Filter(msg string, c *Cursor) string
}

// PassFilter logs every statement unchanged. It is the filter a
// logging connection starts out with.
type PassFilter struct{}

func (PassFilter) Filter(msg string, _ *Cursor) string {
	return msg
}

// MinTimeFilter suppresses statements that finished within Min and
// appends the execution time to those that did not.
type MinTimeFilter struct {
	Min time.Duration
}

func (f MinTimeFilter) Filter(msg string, c *Cursor) string {
	elapsed := c.Elapsed()
	if elapsed <= f.Min {
		return ""
	}
	return fmt.Sprintf("%s\n  (execution time: %d ms)", msg, elapsed.Milliseconds())
}

// Chain applies filters in order, feeding each one's output to the
// next. A suppressed message stops the chain.
type Chain []LogFilter

func (ch Chain) Filter(msg string, c *Cursor) string {
	for _, f := range ch {
		msg = f.Filter(msg, c)
		if msg == "" {
			return ""
		}
	}
	return msg
}

// RedactFilter masks single-quoted literals in logged statements so
// the log cannot leak sensitive values. Doubled quotes inside a
// literal are handled.
type RedactFilter struct {
	// Mask replaces each literal; defaults to '***'.
	Mask string
}

func (f RedactFilter) Filter(msg string, _ *Cursor) string {
	if !strings.ContainsRune(msg, '\'') {
		return msg
	}
	mask := f.Mask
	if mask == "" {
		mask = "'***'"
	}
	var b strings.Builder
	b.Grow(len(msg))
	for i := 0; i < len(msg); i++ {
		if msg[i] != '\'' {
			b.WriteByte(msg[i])
			continue
		}
		b.WriteString(mask)
		j := i + 1
		for j < len(msg) {
			if msg[j] != '\'' {
				j++
				continue
			}
			if j+1 < len(msg) && msg[j+1] == '\'' {
				j += 2
				continue
			}
			break
		}
		i = j
	}
	return b.String()
}
