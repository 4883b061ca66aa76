package query

import (
	"testing"

	"github.com/nasdf/capyql/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsResolve(t *testing.T) {
	s := userSchema(t)
	cases := []struct {
		name   string
		fields Fields
		expect []string
	}{
		{"zero", Fields{}, []string{"name", "email", "role", "order"}},
		{"single name", Names("email"), []string{"email"}},
		{"id only", Names("id"), []string{}},
		{"names keep schema order", Names("order", "name"), []string{"name", "order"}},
		{"true flag", Flags(map[string]bool{"name": true}), []string{"name"}},
		{"false flag", Flags(map[string]bool{"name": false}), []string{"email", "role", "order"}},
		{"mixed flags", Flags(map[string]bool{"name": false, "id": true}), []string{}},
		{"id flag", Flags(map[string]bool{"id": true}), []string{}},
		{"empty flags", Flags(map[string]bool{}), []string{"name", "email", "role", "order"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := c.fields.Resolve(s)
			require.NoError(t, err)
			assert.Equal(t, c.expect, actual)
		})
	}
}

func TestFieldsResolveUnknown(t *testing.T) {
	s := userSchema(t)
	for _, f := range []Fields{Names("mail"), Flags(map[string]bool{"mail": false})} {
		_, err := f.Resolve(s)
		assert.ErrorIs(t, err, fault.ErrInvalidQuery)
	}
}

func TestFieldsFrom(t *testing.T) {
	f, err := FieldsFrom("id")
	require.NoError(t, err)
	assert.Equal(t, Names("id"), f)

	f, err = FieldsFrom([]any{"email"})
	require.NoError(t, err)
	assert.Equal(t, Names("email"), f)

	f, err = FieldsFrom(map[string]any{"name": false})
	require.NoError(t, err)
	assert.Equal(t, Flags(map[string]bool{"name": false}), f)

	f, err = FieldsFrom(nil)
	require.NoError(t, err)
	assert.True(t, f.IsZero())

	_, err = FieldsFrom(map[string]any{"name": "yes"})
	assert.Error(t, err)
	_, err = FieldsFrom(42)
	assert.Error(t, err)
}

func TestFieldsNotMutated(t *testing.T) {
	flags := map[string]bool{"name": false}
	f := Flags(flags)
	_, err := f.Resolve(userSchema(t))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"name": false}, flags)
}
