package doctree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	b, err := MarshalCanonical(Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"mid":   Int(3),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":3,"zebra":1}`, string(b))
}

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null{}, "null"},
		{"nil value", nil, "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float keeps fraction", Float(1.5), "1.5"},
		{"integral float keeps point", Float(3), "3.0"},
		{"string", String("hi"), `"hi"`},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonical(String("<a> & <b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a> & <b>"`, string(b))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent composes to the single code point U+00E9.
	decomposed := String("café")
	composed := String("café")

	db, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	cb, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(cb), string(db))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1D306 encodes as the surrogate pair D834 DF06, so it sorts before
	// U+FB00 in UTF-16 order even though its UTF-8 bytes sort after.
	b, err := MarshalCanonical(Object{
		"\U0001d306": Int(1),
		"ﬀ":     Int(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001d306\":1,\"ﬀ\":2}", string(b))
}

func TestMarshalCanonical_NonFiniteFloat(t *testing.T) {
	_, err := MarshalCanonical(Float(math.Inf(1)))
	assert.Error(t, err)

	_, err = MarshalCanonical(Float(math.NaN()))
	assert.Error(t, err)
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	v := Object{
		"items": Array{Int(1), Float(2.5), String("x")},
		"meta":  Object{"b": Bool(true), "a": Null{}},
	}

	first, err := MarshalCanonical(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(v)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestDigest_StableAndDistinct(t *testing.T) {
	a := Object{"k": Int(1)}
	b := Object{"k": Int(2)}

	da, err := Digest(a)
	require.NoError(t, err)
	da2, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)

	assert.Equal(t, da, da2)
	assert.NotEqual(t, da, db)
	assert.Len(t, da, 64)
}
