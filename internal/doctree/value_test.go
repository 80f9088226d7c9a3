package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_Scalars(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Value
	}{
		{"string", `"hello"`, String("hello")},
		{"int", `42`, Int(42)},
		{"negative int", `-7`, Int(-7)},
		{"float", `3.5`, Float(3.5)},
		{"exponent", `1e3`, Float(1000)},
		{"bool true", `true`, Bool(true)},
		{"bool false", `false`, Bool(false)},
		{"null", `null`, Null{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal_Nested(t *testing.T) {
	got, err := Unmarshal([]byte(`{"items":["a","b",{"n":1}],"title":"doc"}`))
	require.NoError(t, err)

	want := Object{
		"items": Array{String("a"), String("b"), Object{"n": Int(1)}},
		"title": String("doc"),
	}
	assert.Equal(t, want, got)
}

func TestUnmarshal_Malformed(t *testing.T) {
	_, err := Unmarshal([]byte(`{"unterminated":`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(``))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	original := Object{
		"title": String("notes"),
		"tags":  Array{String("a"), String("b")},
		"count": Int(3),
		"ratio": Float(0.5),
		"done":  Bool(false),
		"extra": Null{},
	}

	data, err := Marshal(original)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, Equal(original, back))
}

func TestMarshal_SortedKeys(t *testing.T) {
	data, err := Marshal(Object{"b": Int(2), "a": Int(1), "c": Int(3)})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(data))
}

func TestFromGo(t *testing.T) {
	got := FromGo(map[string]any{
		"items": []any{"a", 1, 2.5},
		"meta":  map[string]any{"ok": true},
		"gone":  nil,
	})

	want := Object{
		"items": Array{String("a"), Int(1), Float(2.5)},
		"meta":  Object{"ok": Bool(true)},
		"gone":  Null{},
	}
	assert.Equal(t, want, got)
}

func TestFromGo_WholeFloatBecomesInt(t *testing.T) {
	// encoding/json decodes all numbers as float64; whole values come
	// back as Int so round-tripping through Go maps is stable.
	assert.Equal(t, Int(4), FromGo(4.0))
}

func TestEqual(t *testing.T) {
	a := Object{"items": Array{String("x"), Int(1)}}
	b := Object{"items": Array{String("x"), Int(1)}}
	c := Object{"items": Array{String("x"), Int(2)}}

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(String("x"), Int(1)))
	assert.False(t, Equal(a, Array{}))
	assert.True(t, Equal(Null{}, Null{}))
}

func TestClone_Independent(t *testing.T) {
	original := Object{
		"items": Array{String("a"), Object{"n": Int(1)}},
	}

	cloned := Clone(original).(Object)
	cloned["items"].(Array)[0] = String("changed")
	cloned["items"].(Array)[1].(Object)["n"] = Int(99)

	// The original must not observe mutations of the clone.
	assert.Equal(t, String("a"), original["items"].(Array)[0])
	assert.Equal(t, Int(1), original["items"].(Array)[1].(Object)["n"])
}

func TestClone_Scalars(t *testing.T) {
	assert.Equal(t, String("x"), Clone(String("x")))
	assert.Equal(t, Int(5), Clone(Int(5)))
	assert.Nil(t, Clone(nil))
}
