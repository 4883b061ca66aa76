// Package value defines the canonical form of stored field values.
//
// Every value written to a record and every literal used in a query is
// converted into a Value before it is stored or compared. A Value is either
// absent, null, or holds exactly one of bool, int64, float64 or string.
package value

import (
	"math"
	"strconv"
)

// Kind is the kind of data held by a Value.
type Kind uint8

const (
	// KindAbsent is the kind of a field that has never been set.
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is an immutable canonical value.
//
// The zero Value is absent.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

var (
	// Absent is the value of a field that is not present on a record.
	Absent = Value{}
	// Null is an explicitly stored null.
	Null = Value{kind: KindNull}
)

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the kind of data held by the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent returns true if the value is not present.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// IsNull returns true if the value is an explicit null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNumber returns true if the value is an int or a float.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// AsBool returns the bool held by the value.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the int64 held by the value.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the value as a float64 if it is a number.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string held by the value.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Interface returns the value as a plain Go value.
//
// Absent and null values are both returned as nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Key returns a string that is equal for two values if and only if they are Equal.
//
// Keys are used to address values in maps.
func (v Value) Key() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindInt:
		return "n:" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
			return "n:" + strconv.FormatInt(int64(v.f), 10)
		}
		return "n:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "s:" + v.s
	default:
		return ""
	}
}

// String returns a readable representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}
