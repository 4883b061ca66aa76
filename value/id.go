package value

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// IDField is the name of the implicit identifier field.
const IDField = "id"

// CanonicalID converts an identifier supplied in any accepted representation
// into its canonical Value for the given key kind.
//
// Sequence identifiers accept every integer type, integral floats and decimal
// text. UUID identifiers accept uuid.UUID values and any textual form accepted
// by uuid.Parse. The second return value is false if v cannot identify a
// record of this kind.
func CanonicalID(kind KeyKind, v any) (Value, bool) {
	if c, ok := v.(Value); ok {
		if c.kind == KindAbsent || c.kind == KindNull {
			return Absent, false
		}
		v = c.Interface()
	}
	switch kind {
	case KeyUUID:
		return canonicalUUID(v)
	default:
		return canonicalSequence(v)
	}
}

func canonicalSequence(v any) (Value, bool) {
	switch t := v.(type) {
	case nil, bool:
		return Absent, false
	case string:
		i, err := parseInt(t)
		if err != nil {
			return Absent, false
		}
		return Int(i), true
	case json.Number:
		i, err := parseInt(t.String())
		if err != nil {
			return Absent, false
		}
		return Int(i), true
	}
	i, err := toInt(v)
	if err != nil {
		return Absent, false
	}
	return Int(i), true
}

func canonicalUUID(v any) (Value, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return String(t.String()), true
	case string:
		u, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil {
			return Absent, false
		}
		return String(u.String()), true
	case []byte:
		u, err := uuid.ParseBytes(t)
		if err != nil {
			return Absent, false
		}
		return String(u.String()), true
	default:
		return Absent, false
	}
}

// NewUUID returns a new random UUID identifier.
func NewUUID() (Value, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return Absent, err
	}
	return String(u.String()), nil
}
