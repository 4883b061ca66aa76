package value

// Type is the declared type of a schema field.
type Type uint8

const (
	TypeString Type = iota + 1
	TypeInt
	TypeFloat
	TypeBoolean
)

// typeNames maps GraphQL scalar names to field types.
var typeNames = map[string]Type{
	"String":  TypeString,
	"Int":     TypeInt,
	"Float":   TypeFloat,
	"Boolean": TypeBoolean,
}

// ParseType returns the Type matching the given GraphQL scalar name.
func ParseType(name string) (Type, bool) {
	t, ok := typeNames[name]
	return t, ok
}

// String returns the GraphQL scalar name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// IsNumber returns true for the numeric types.
func (t Type) IsNumber() bool {
	return t == TypeInt || t == TypeFloat
}

// KeyKind is the kind of identifier assigned to the records of a collection.
type KeyKind uint8

const (
	// KeySequence identifiers are monotonic int64 values starting at 1.
	KeySequence KeyKind = iota
	// KeyUUID identifiers are random version 4 UUIDs.
	KeyUUID
)

// ParseKeyKind returns the KeyKind matching the given GraphQL enum value.
func ParseKeyKind(name string) (KeyKind, bool) {
	switch name {
	case "SEQUENCE":
		return KeySequence, true
	case "UUID":
		return KeyUUID, true
	default:
		return 0, false
	}
}

func (k KeyKind) String() string {
	if k == KeyUUID {
		return "UUID"
	}
	return "SEQUENCE"
}
