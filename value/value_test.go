package value

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		input  any
		typ    Type
		expect Value
	}{
		{"John Lennon", TypeString, String("John Lennon")},
		{int64(5), TypeString, String("5")},
		{true, TypeString, String("true")},
		{5, TypeInt, Int(5)},
		{uint8(7), TypeInt, Int(7)},
		{float64(2), TypeInt, Int(2)},
		{"42", TypeInt, Int(42)},
		{"2.0", TypeInt, Int(2)},
		{json.Number("12"), TypeInt, Int(12)},
		{3, TypeFloat, Float(3)},
		{"3.5", TypeFloat, Float(3.5)},
		{"true", TypeBoolean, Bool(true)},
		{false, TypeBoolean, Bool(false)},
		{nil, TypeInt, Null},
	}
	for _, c := range cases {
		actual, err := Coerce(c.input, c.typ)
		require.NoError(t, err, "coerce %v to %s", c.input, c.typ)
		assert.Equal(t, c.expect, actual, "coerce %v to %s", c.input, c.typ)
	}
}

func TestCoerceErrors(t *testing.T) {
	cases := []struct {
		input any
		typ   Type
	}{
		{"lead", TypeInt},
		{2.5, TypeInt},
		{true, TypeInt},
		{"abc", TypeFloat},
		{map[string]any{}, TypeString},
		{"yes please", TypeBoolean},
		{1, TypeBoolean},
	}
	for _, c := range cases {
		_, err := Coerce(c.input, c.typ)
		assert.ErrorIs(t, err, ErrConversion, "coerce %v to %s", c.input, c.typ)
	}
}

func TestLiteral(t *testing.T) {
	v, ok := Literal("6", TypeInt)
	require.True(t, ok)
	assert.True(t, Equal(Int(6), v))

	_, ok = Literal("six", TypeInt)
	assert.False(t, ok)
}

func TestCompareOrdersPresentBeforeNullBeforeAbsent(t *testing.T) {
	values := []Value{Absent, Int(3), Null, Float(1.5), Int(2), Absent}
	slices.SortStableFunc(values, Compare)
	assert.Equal(t, []Value{Float(1.5), Int(2), Int(3), Null, Absent, Absent}, values)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(String("George Harrison"), String("John Lennon")))
	assert.Equal(t, 1, Compare(String("b"), String("B")))
	assert.Equal(t, 0, Compare(Int(2), Float(2)))
	assert.Equal(t, -1, Compare(Int(2), Float(2.5)))
	assert.Equal(t, -1, Compare(Bool(false), Bool(true)))
	assert.Equal(t, 0, Compare(Absent, Absent))
	assert.Equal(t, 1, Compare(Absent, String("")))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(String("lead"), String("lead")))
	assert.False(t, Equal(String("lead"), String("Lead")))
	assert.True(t, Equal(Int(1), Float(1)))
	assert.False(t, Equal(Absent, String("lead")))
	assert.False(t, Equal(Null, String("lead")))
	assert.True(t, Equal(Null, Null))
	assert.True(t, Equal(Absent, Null))
	assert.False(t, Equal(String("1"), Int(1)))
}

func TestKeyMatchesEqual(t *testing.T) {
	assert.Equal(t, Int(4).Key(), Float(4).Key())
	assert.NotEqual(t, Int(4).Key(), String("4").Key())
	assert.NotEqual(t, Float(4.5).Key(), Int(4).Key())
}

func TestCanonicalSequenceID(t *testing.T) {
	for _, input := range []any{1, int64(1), uint16(1), float64(1), "1", " 1 ", json.Number("1"), Int(1)} {
		id, ok := CanonicalID(KeySequence, input)
		require.True(t, ok, "input %#v", input)
		assert.Equal(t, Int(1), id, "input %#v", input)
	}
	for _, input := range []any{nil, "one", 1.5, true, Null} {
		_, ok := CanonicalID(KeySequence, input)
		assert.False(t, ok, "input %#v", input)
	}
}

func TestCanonicalUUID(t *testing.T) {
	u := uuid.New()

	id, ok := CanonicalID(KeyUUID, u)
	require.True(t, ok)
	assert.Equal(t, String(u.String()), id)

	upper, ok := CanonicalID(KeyUUID, "urn:uuid:"+u.String())
	require.True(t, ok)
	assert.Equal(t, id, upper)

	_, ok = CanonicalID(KeyUUID, 42)
	assert.False(t, ok)
}

func TestNewUUID(t *testing.T) {
	a, err := NewUUID()
	require.NoError(t, err)
	b, err := NewUUID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, ok := CanonicalID(KeyUUID, a)
	assert.True(t, ok)
}
