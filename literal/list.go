package literal

import (
	"fmt"
	"reflect"
	"strings"
)

// List renders a sequence of values as a parenthesized, comma-separated
// SQL literal list, the form IN (...) clauses expect. The sequence is
// referenced, not copied, and is only inspected when Quoted is called.
type List struct {
	seq any
	reg *Registry
}

// NewList wraps seq, which must be a slice or array at render time.
// A nil registry means the package Default.
func NewList(seq any, reg *Registry) *List {
	if reg == nil {
		reg = Default
	}
	return &List{seq: seq, reg: reg}
}

// Quoted adapts each element through the registry and joins the quoted
// forms. An empty sequence renders as "()".
func (l *List) Quoted() (string, error) {
	rv := reflect.ValueOf(l.seq)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return "", fmt.Errorf("cannot render %T as a literal list", l.seq)
	}

	parts := make([]string, rv.Len())
	for i := range parts {
		lit, err := l.reg.Adapt(rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		q, err := lit.Quoted()
		if err != nil {
			return "", err
		}
		parts[i] = q
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}
