// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitNr(t *testing.T) {
	tests := []struct {
		size  int
		bitnr int
	}{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {1000, 10},
	}
	for _, tt := range tests {
		s := NewSymTab()
		values := make([]string, tt.size)
		for k := range values {
			values[k] = string(rune('A'+k%26)) + string(rune('a'+k/26%26)) + string(rune('0'+k/676))
		}
		require.NoError(t, s.InitValueUniverse(values))
		assert.Equal(t, tt.size, s.UniverseSize(), "size %d", tt.size)
		assert.Equal(t, tt.bitnr, s.BitNr(), "size %d", tt.size)
	}
}

func TestInitValueUniverse(t *testing.T) {
	s := NewSymTab()
	assert.Equal(t, 0, s.BitNr())
	require.NoError(t, s.InitValueUniverse([]string{"c", "a", "b", "a"}))
	assert.Equal(t, 3, s.UniverseSize())
	assert.Equal(t, 2, s.BitNr())
	for k, v := range []string{"a", "b", "c"} {
		n, err := s.ValueNum(v)
		require.NoError(t, err)
		assert.Equal(t, k, n)
		w, err := s.Value(k)
		require.NoError(t, err)
		assert.Equal(t, v, w)
		assert.True(t, s.IsValue(v))
	}
	assert.False(t, s.IsValue("d"))
	_, err := s.ValueNum("d")
	assert.ErrorIs(t, err, ErrUnknownValue)
	_, err = s.Value(3)
	assert.ErrorIs(t, err, ErrUnknownValue)
	assert.ErrorIs(t, s.InitValueUniverse([]string{"d"}), ErrUniverseFrozen)

	var buf bytes.Buffer
	require.NoError(t, s.WriteValueNames(&buf))
	assert.Equal(t, "0\ta\n1\tb\n2\tc\n", buf.String())
}

func TestAttributes(t *testing.T) {
	s := NewSymTab()
	require.NoError(t, s.AddAttribute("x"))
	_, err := s.AttributePos("x")
	assert.ErrorIs(t, err, ErrUniverseNotSet)
	require.NoError(t, s.InitValueUniverse([]string{"a", "b", "c"}))
	require.NoError(t, s.AddAttribute("y"))
	require.NoError(t, s.AddAttribute("z"))
	require.NoError(t, s.AddAttribute("y"))
	assert.Error(t, s.AddAttribute(""))

	for attr, pos := range map[string]int{"x": 0, "y": 2, "z": 4} {
		p, err := s.AttributePos(attr)
		require.NoError(t, err)
		assert.Equal(t, pos, p, attr)
	}
	_, err = s.AttributePos("w")
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	// removing an attribute does not move the others
	require.NoError(t, s.RemoveAttribute("y"))
	assert.ErrorIs(t, s.RemoveAttribute("y"), ErrUnknownAttribute)
	assert.False(t, s.HasAttribute("y"))
	require.NoError(t, s.AddAttribute("w"))
	p, _ := s.AttributePos("w")
	assert.Equal(t, 6, p)
	require.NoError(t, s.AddAttribute("v"))
	p, _ = s.AttributePos("v")
	assert.Equal(t, 8, p)

	order, err := s.VariableOrder([]string{"w", "x", "z", "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z", "w"}, order)
	_, err = s.VariableOrder([]string{"x", "y"})
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.Equal(t, []string{"x", "z", "w", "v"}, s.Attributes())

	name, ok := s.attributeAt(5)
	assert.True(t, ok)
	assert.Equal(t, "z", name)
	_, ok = s.attributeAt(11)
	assert.False(t, ok)

	s.RemoveAttributesNotMatchingPrefix("w")
	assert.Equal(t, []string{"w"}, s.Attributes())
}

func TestQuoted(t *testing.T) {
	s := NewSymTab()
	assert.False(t, s.IsQuoted("a b"))
	s.SetQuoted("a b")
	assert.True(t, s.IsQuoted("a b"))
}
