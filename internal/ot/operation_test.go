package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomsync/loom/internal/doctree"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Op
	}{
		{
			"insert",
			`{"type":"insert","path":"items","position":2,"value":"x"}`,
			Insert{Path: "items", Position: 2, Value: doctree.String("x")},
		},
		{
			"insert defaults position to zero",
			`{"type":"insert","path":"items","value":"x"}`,
			Insert{Path: "items", Position: 0, Value: doctree.String("x")},
		},
		{
			"delete",
			`{"type":"delete","path":"items","position":1,"length":3}`,
			Delete{Path: "items", Position: 1, Length: 3},
		},
		{
			"delete defaults length to one",
			`{"type":"delete","path":"items","position":1}`,
			Delete{Path: "items", Position: 1, Length: 1},
		},
		{
			"update without position",
			`{"type":"update","path":"title","value":"new"}`,
			Update{Path: "title", Value: doctree.String("new")},
		},
		{
			"replace",
			`{"type":"replace","path":"meta","value":{"a":1}}`,
			Replace{Path: "meta", Value: doctree.Object{"a": doctree.Int(1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_UpdateWithPosition(t *testing.T) {
	got, err := Decode([]byte(`{"type":"update","path":"items","position":3,"value":"v"}`))
	require.NoError(t, err)

	upd, ok := got.(Update)
	require.True(t, ok)
	require.NotNil(t, upd.Position)
	assert.Equal(t, 3, *upd.Position)
}

func TestDecode_UnknownTypeYieldsRaw(t *testing.T) {
	got, err := Decode([]byte(`{"type":"rotate","path":"items","position":1}`))
	require.NoError(t, err)

	raw, ok := got.(Raw)
	require.True(t, ok)
	assert.Equal(t, "rotate", raw.Type)
	assert.Equal(t, "items", raw.Path)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestDecodeMap(t *testing.T) {
	op := DecodeMap(map[string]any{
		"type":     "insert",
		"path":     "items",
		"position": 2,
		"value":    "x",
	})
	assert.Equal(t, Op(Insert{Path: "items", Position: 2, Value: doctree.String("x")}), op)

	// YAML decoders hand over int, JSON decoders float64; both must land.
	op = DecodeMap(map[string]any{
		"type":     "delete",
		"path":     "items",
		"position": float64(1),
		"length":   float64(2),
	})
	assert.Equal(t, Op(Delete{Path: "items", Position: 1, Length: 2}), op)
}

func TestDecodeMap_MissingFieldsAreTotal(t *testing.T) {
	op := DecodeMap(map[string]any{})

	raw, ok := op.(Raw)
	require.True(t, ok)
	assert.Equal(t, "", raw.Type)
}

func TestEncode_RoundTrip(t *testing.T) {
	ops := []Op{
		Insert{Path: "items", Position: 2, Value: doctree.String("x")},
		Delete{Path: "items", Position: 0, Length: 2},
		Update{Path: "title", Value: doctree.String("t")},
		Update{Path: "items", Position: intp(1), Value: doctree.Int(9)},
		Replace{Path: "meta", Value: doctree.Object{"a": doctree.Bool(true)}},
		Raw{Type: "rotate", Path: "items", Position: intp(0)},
	}

	for _, op := range ops {
		b, err := Encode(op)
		require.NoError(t, err)
		back, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, op, back)
	}
}

func TestEncode_NilIsNull(t *testing.T) {
	b, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestKindAndPathOf(t *testing.T) {
	assert.Equal(t, "insert", Kind(Insert{Path: "p"}))
	assert.Equal(t, "delete", Kind(Delete{Path: "p"}))
	assert.Equal(t, "update", Kind(Update{Path: "p"}))
	assert.Equal(t, "replace", Kind(Replace{Path: "p"}))
	assert.Equal(t, "rotate", Kind(Raw{Type: "rotate"}))
	assert.Equal(t, "", Kind(nil))

	assert.Equal(t, "items", PathOf(Insert{Path: "items"}))
	assert.Equal(t, "", PathOf(nil))
}
