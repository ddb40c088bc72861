package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameSetAdd(t *testing.T) {
	var s NameSet
	assert.True(t, s.Add("Sekiro"))
	assert.False(t, s.Add("Sekiro"), "duplicate")
	assert.False(t, s.Add(""), "empty")
	assert.True(t, s.Add("sekiro"), "comparison is case-sensitive")
	assert.Equal(t, []string{"Sekiro", "sekiro"}, s.Values())
}

func TestNameSetNormalizesToNFC(t *testing.T) {
	composed := "Pokémon"
	decomposed := "Pokémon"

	s := NewNameSet(composed, decomposed)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(decomposed))
}

func TestNameSetRemoveDoesNotAliasCopies(t *testing.T) {
	a := NewNameSet("a", "b", "c")
	b := a

	require.True(t, b.Remove("a"))
	assert.Equal(t, []string{"b", "c"}, b.Values())
	assert.Equal(t, []string{"a", "b", "c"}, a.Values())

	assert.False(t, b.Remove("missing"))
	require.True(t, b.Remove("b"))
	require.True(t, b.Remove("c"))
	assert.Equal(t, 0, b.Len())
}

func TestNameSetValuesIsACopy(t *testing.T) {
	s := NewNameSet("x")
	v := s.Values()
	v[0] = "y"
	assert.True(t, s.Contains("x"))
}

func TestNameSetJSON(t *testing.T) {
	var empty NameSet
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	var s NameSet
	require.NoError(t, json.Unmarshal([]byte(`["A","","A","B"]`), &s))
	assert.Equal(t, []string{"A", "B"}, s.Values())

	b, err = json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["A","B"]`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"not":"a list"}`), &s))
}
