// Package validate checks untrusted key/value input against declarative field schemas.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/and161185/agenda/internal/errs"
)

// Input is already-parsed, untyped key/value input handed over by callers.
type Input map[string]any

// Type is the semantic type a field is checked against.
type Type string

const (
	Text      Type = "text"
	Number    Type = "number"
	Boolean   Type = "boolean"
	Timestamp Type = "timestamp"
	Sequence  Type = "sequence"
	Record    Type = "record"
)

// Field declares the expected type of a single input key.
type Field struct {
	Name string
	Type Type
}

// Schema is an ordered list of fields; validation follows its order.
type Schema []Field

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// FieldError names the first field that failed validation.
type FieldError struct {
	Field    string
	Expected Type  // empty for missing fields
	Err      error // errs.ErrMissingField or errs.ErrTypeMismatch
}

func (e *FieldError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("field '%s' is required", e.Field)
	}
	return fmt.Sprintf("field '%s' must be of type '%s'", e.Field, e.Expected)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Required fails on the first name whose value is absent, nil or an empty string.
func Required(in Input, names ...string) error {
	for _, name := range names {
		if !Present(in, name) {
			return &FieldError{Field: name, Err: errs.ErrMissingField}
		}
	}
	return nil
}

// Types checks every present, non-nil field against its declared type.
// Absent fields are skipped; the first violation wins.
func Types(in Input, schema Schema) error {
	for _, f := range schema {
		v, ok := in[f.Name]
		if !ok || isNil(v) {
			continue
		}
		if !Is(v, f.Type) {
			return &FieldError{Field: f.Name, Expected: f.Type, Err: errs.ErrTypeMismatch}
		}
	}
	return nil
}

// Present reports whether name holds a value other than nil or "".
func Present(in Input, name string) bool {
	v, ok := in[name]
	if !ok || isNil(v) {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

// Supplied reports whether name appears in the input at all, nil included.
func Supplied(in Input, name string) bool {
	_, ok := in[name]
	return ok
}

// Is reports whether v satisfies t.
func Is(v any, t Type) bool {
	if v == nil {
		return false
	}
	switch t {
	case Text:
		_, ok := v.(string)
		return ok
	case Number:
		_, ok := NumberOf(v)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Timestamp:
		_, ok := TimeOf(v)
		return ok
	case Sequence:
		rt := reflect.TypeOf(v)
		if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Array {
			return false
		}
		// byte slices and byte arrays (uuid.UUID included) are opaque values
		return rt.Elem().Kind() != reflect.Uint8
	case Record:
		rt := reflect.TypeOf(v)
		if rt.Kind() == reflect.Pointer {
			rt = rt.Elem()
		}
		if rt == timeType {
			return false
		}
		return rt.Kind() == reflect.Map || rt.Kind() == reflect.Struct
	default:
		return false
	}
}

// NumberOf converts numeric values to float64. NaN and infinities are rejected.
func NumberOf(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var timeType = reflect.TypeOf(time.Time{})

// maxMillis bounds representable instants to ±100,000,000 days around the epoch.
const maxMillis = 8.64e15

var (
	minInstant = time.UnixMilli(-maxMillis).UTC()
	maxInstant = time.UnixMilli(maxMillis).UTC()
)

func inRange(t time.Time) bool {
	return !t.Before(minInstant) && !t.After(maxInstant)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TimeOf coerces v into a valid instant. Strings are parsed with the common
// ISO-8601 layouts; numbers are Unix milliseconds. Instants outside
// ±8.64e15 ms of the epoch are rejected.
func TimeOf(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero() && inRange(t)
	case *time.Time:
		if t == nil || t.IsZero() || !inRange(*t) {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	}
	if ms, ok := NumberOf(v); ok && math.Abs(ms) <= maxMillis {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}

// TextOf returns the string value of name when it is present and textual.
func TextOf(in Input, name string) (string, bool) {
	s, ok := in[name].(string)
	return s, ok
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
