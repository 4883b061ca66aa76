package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrConversion is returned when a value cannot be converted to a field type.
var ErrConversion = errors.New("value cannot be converted")

// Coerce converts the given Go value into the canonical Value for a field of type t.
//
// A nil input is stored as Null. Numeric text converts to numbers, numbers and
// booleans convert to text, and "true" / "false" convert to booleans.
func Coerce(v any, t Type) (Value, error) {
	if v == nil {
		return Null, nil
	}
	if c, ok := v.(Value); ok {
		return coerceValue(c, t)
	}
	switch t {
	case TypeString:
		s, err := toString(v)
		if err != nil {
			return Absent, err
		}
		return String(s), nil
	case TypeInt:
		i, err := toInt(v)
		if err != nil {
			return Absent, err
		}
		return Int(i), nil
	case TypeFloat:
		f, err := toFloat(v)
		if err != nil {
			return Absent, err
		}
		return Float(f), nil
	case TypeBoolean:
		b, err := toBool(v)
		if err != nil {
			return Absent, err
		}
		return Bool(b), nil
	default:
		return Absent, fmt.Errorf("%w: unknown field type %d", ErrConversion, t)
	}
}

// Literal converts a query literal into the canonical Value for a field of type t.
//
// The second return value is false when the literal cannot be represented by
// the field type; such a literal never equals a stored value.
func Literal(v any, t Type) (Value, bool) {
	c, err := Coerce(v, t)
	return c, err == nil
}

func coerceValue(v Value, t Type) (Value, error) {
	switch v.kind {
	case KindAbsent, KindNull:
		return v, nil
	default:
		return Coerce(v.Interface(), t)
	}
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	if i, ok := intOf(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if u, ok := v.(uint64); ok {
		return strconv.FormatUint(u, 10), nil
	}
	return "", conversionError(v, TypeString)
}

func toInt(v any) (int64, error) {
	if i, ok := intOf(v); ok {
		return i, nil
	}
	switch t := v.(type) {
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows Int", ErrConversion, t)
		}
		return int64(t), nil
	case float32:
		return floatToInt(float64(t))
	case float64:
		return floatToInt(t)
	case json.Number:
		return parseInt(t.String())
	case string:
		return parseInt(t)
	}
	return 0, conversionError(v, TypeInt)
}

func toFloat(v any) (float64, error) {
	if i, ok := intOf(v); ok {
		return float64(i), nil
	}
	var f float64
	switch t := v.(type) {
	case uint64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case json.Number:
		p, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrConversion, err)
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrConversion, err)
		}
		f = p
	default:
		return 0, conversionError(v, TypeFloat)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("%w: NaN is not comparable", ErrConversion)
	}
	return f, nil
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrConversion, err)
		}
		return b, nil
	}
	return false, conversionError(v, TypeBoolean)
}

// intOf returns the value of every integer type that fits into an int64.
func intOf(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	}
	return 0, false
}

func floatToInt(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrConversion, f)
	}
	return int64(f), nil
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	// accept integral numbers written with a fraction or exponent, such as "2.0"
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	return floatToInt(f)
}

func conversionError(v any, t Type) error {
	return fmt.Errorf("%w: %T to %s", ErrConversion, v, t)
}
