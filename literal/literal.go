package literal

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Literal is the SQL text form of a value, ready to be spliced into a
// statement.
type Literal interface {
	Quoted() (string, error)
}

// Adapter converts a native value into a Literal.
type Adapter func(v any) Literal

// Registry maps Go types to adapters. Instances are independent, so
// tests can use isolated registries; most callers use the package
// Default.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]Adapter
	kinds map[reflect.Kind]Adapter
}

// NewRegistry creates a registry preloaded with the builtin adapters,
// including the sequence fallback that renders slices and arrays as
// parenthesized lists.
func NewRegistry() *Registry {
	r := &Registry{
		types: make(map[reflect.Type]Adapter),
		kinds: make(map[reflect.Kind]Adapter),
	}
	r.registerBuiltins()
	return r
}

// Register registers an adapter for the exact type of sample.
// Type adapters take precedence over kind adapters.
func (r *Registry) Register(sample any, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[reflect.TypeOf(sample)] = a
}

// RegisterKind registers a fallback adapter for a reflect.Kind.
func (r *Registry) RegisterKind(k reflect.Kind, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k] = a
}

// Adapt resolves the Literal for v. Values already implementing
// Literal pass through unchanged; nil adapts to NULL.
func (r *Registry) Adapt(v any) (Literal, error) {
	if v == nil {
		return Raw("NULL"), nil
	}
	if l, ok := v.(Literal); ok {
		return l, nil
	}
	t := reflect.TypeOf(v)

	r.mu.RLock()
	a, ok := r.types[t]
	if !ok {
		a, ok = r.kinds[t.Kind()]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no literal adapter registered for %T", v)
	}
	return a(v), nil
}

// Default is the process-wide registry.
var Default *Registry

func init() {
	Default = NewRegistry()
}

// Register registers an adapter in the Default registry.
func Register(sample any, a Adapter) {
	Default.Register(sample, a)
}

// Adapt resolves the Literal for v using the Default registry.
func Adapt(v any) (Literal, error) {
	return Default.Adapt(v)
}

// text is a literal that renders as-is.
type text string

func (t text) Quoted() (string, error) {
	return string(t), nil
}

// Raw returns a literal rendering exactly as s.
func Raw(s string) Literal {
	return text(s)
}

// QuoteString renders s as a single-quoted SQL string literal,
// doubling embedded quotes.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (r *Registry) registerBuiltins() {
	intAdapter := func(v any) Literal {
		return text(strconv.FormatInt(reflect.ValueOf(v).Int(), 10))
	}
	uintAdapter := func(v any) Literal {
		return text(strconv.FormatUint(reflect.ValueOf(v).Uint(), 10))
	}
	floatAdapter := func(v any) Literal {
		return text(strconv.FormatFloat(reflect.ValueOf(v).Float(), 'g', -1, 64))
	}

	r.kinds[reflect.Bool] = func(v any) Literal {
		if reflect.ValueOf(v).Bool() {
			return text("TRUE")
		}
		return text("FALSE")
	}
	for _, k := range []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64} {
		r.kinds[k] = intAdapter
	}
	for _, k := range []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64} {
		r.kinds[k] = uintAdapter
	}
	r.kinds[reflect.Float32] = floatAdapter
	r.kinds[reflect.Float64] = floatAdapter
	r.kinds[reflect.String] = func(v any) Literal {
		return text(QuoteString(reflect.ValueOf(v).String()))
	}

	// Sequences render as parenthesized lists, so slice values used as
	// IN (...) arguments need no explicit wrapping.
	seqAdapter := func(v any) Literal {
		return NewList(v, r)
	}
	r.kinds[reflect.Slice] = seqAdapter
	r.kinds[reflect.Array] = seqAdapter

	// Type adapters win over the slice fallback.
	r.types[reflect.TypeOf([]byte(nil))] = func(v any) Literal {
		return text("X'" + hex.EncodeToString(v.([]byte)) + "'")
	}
	r.types[reflect.TypeOf(time.Time{})] = func(v any) Literal {
		return text("'" + v.(time.Time).Format("2006-01-02 15:04:05") + "'")
	}
}
