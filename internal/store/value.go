package store

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindInt64
	KindFloat
	KindBool
	KindTime
)

// Value is a column value bound as a query parameter. The zero Value is
// SQL NULL.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// Null returns a Value that encodes as SQL NULL.
func Null() Value { return Value{} }

// String returns a text Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns a 32-bit integer Value.
func Int(i int32) Value { return Value{kind: KindInt, i: int64(i)} }

// Int64 returns a 64-bit integer Value.
func Int64(i int64) Value { return Value{kind: KindInt64, i: i} }

// Float returns a double precision Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time returns a timestamp Value normalized to UTC.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t.UTC()} }

// NullableString returns String(*s), or Null when s is nil.
func NullableString(s *string) Value {
	if s == nil {
		return Null()
	}
	return String(*s)
}

// NullableTime returns Time(*t), or Null when t is nil.
func NullableTime(t *time.Time) Value {
	if t == nil {
		return Null()
	}
	return Time(*t)
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v encodes as SQL NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Cast returns the SQL type a placeholder for v is cast to, or "" when the
// parameter is left untyped.
func (v Value) Cast() string {
	switch v.kind {
	case KindTime:
		return "TIMESTAMPTZ"
	case KindInt:
		return "INTEGER"
	case KindInt64:
		return "BIGINT"
	case KindFloat:
		return "FLOAT"
	case KindBool:
		return "BOOLEAN"
	default:
		return ""
	}
}

// Value implements driver.Valuer so a []any of Values binds through pgx.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindString:
		return v.s, nil
	case KindInt, KindInt64:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindBool:
		return v.b, nil
	case KindTime:
		return v.t, nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// String renders v for logs and test output.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindInt, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return "NULL"
	}
}

// Field pairs a column name with a value. It is used both as an equality
// filter and as a column assignment.
type Field struct {
	Column string
	Value  Value
}

// Set returns a Field assigning v to column.
func Set(column string, v Value) Field {
	return Field{Column: column, Value: v}
}
