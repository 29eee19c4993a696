package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	v := Object{
		"b":   Number(2),
		"a":   Number(1),
		"nul": Null{},
	}
	data, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"nul":null}`, string(data))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(Object{"html": String("<a> & </a>")})
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<a> & </a>"}`, string(data))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := String("e\u0301")
	composed := String("\u00e9")

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	v := Object{
		"list": Array{Number(1), Bool(false), Object{"z": Null{}, "a": String("x")}},
	}
	a, err := MarshalCanonical(v)
	require.NoError(t, err)
	b, err := MarshalCanonical(Clone(v))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
