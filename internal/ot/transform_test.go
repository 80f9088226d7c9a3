package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomsync/loom/internal/doctree"
)

func intp(n int) *int { return &n }

func TestTransform_NilOperands(t *testing.T) {
	ins := Insert{Path: "items", Position: 1, Value: doctree.String("x")}

	assert.Nil(t, Transform(nil, ins))
	assert.Equal(t, Op(ins), Transform(ins, nil))
}

func TestTransform_DisjointPathsCommute(t *testing.T) {
	a := Insert{Path: "items", Position: 0, Value: doctree.String("x")}
	b := Delete{Path: "other", Position: 0, Length: 3}

	assert.Equal(t, Op(a), Transform(a, b))
}

func TestTransform_InsertInsert(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Insert
		wantPos int
	}{
		{
			"a after b shifts right",
			Insert{Path: "p", Position: 5, Value: doctree.String("x")},
			Insert{Path: "p", Position: 2, Value: doctree.String("yz")},
			7,
		},
		{
			"a before b unchanged",
			Insert{Path: "p", Position: 1, Value: doctree.String("x")},
			Insert{Path: "p", Position: 4, Value: doctree.String("y")},
			1,
		},
		{
			"tie shifts right, b lands first",
			Insert{Path: "p", Position: 3, Value: doctree.String("x")},
			Insert{Path: "p", Position: 3, Value: doctree.String("y")},
			4,
		},
		{
			"array insert displaces by one",
			Insert{Path: "p", Position: 2, Value: doctree.Int(1)},
			Insert{Path: "p", Position: 0, Value: doctree.Array{doctree.Int(9), doctree.Int(9)}},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.a, tt.b)
			require.IsType(t, Insert{}, got)
			assert.Equal(t, tt.wantPos, got.(Insert).Position)
		})
	}
}

func TestTransform_InsertAgainstDelete(t *testing.T) {
	del := Delete{Path: "p", Position: 2, Length: 3} // covers [2,5)

	tests := []struct {
		name string
		pos  int
		want Op
	}{
		{"before range unchanged", 1, Insert{Path: "p", Position: 1, Value: doctree.String("x")}},
		{"at range start survives", 2, Insert{Path: "p", Position: 2, Value: doctree.String("x")}},
		{"strictly inside annihilated", 3, nil},
		{"at range end shifts left", 5, Insert{Path: "p", Position: 2, Value: doctree.String("x")}},
		{"after range shifts left", 8, Insert{Path: "p", Position: 5, Value: doctree.String("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Insert{Path: "p", Position: tt.pos, Value: doctree.String("x")}
			assert.Equal(t, tt.want, Transform(a, del))
		})
	}
}

func TestTransform_DeleteDelete(t *testing.T) {
	b := Delete{Path: "p", Position: 1, Length: 2}

	tests := []struct {
		name    string
		a       Delete
		wantPos int
	}{
		{"after b shifts left", Delete{Path: "p", Position: 5, Length: 1}, 3},
		{"at same position unchanged", Delete{Path: "p", Position: 1, Length: 1}, 1},
		{"before b unchanged", Delete{Path: "p", Position: 0, Length: 1}, 0},
		{"shifts back to zero", Delete{Path: "p", Position: 3, Length: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.a, b)
			require.IsType(t, Delete{}, got)
			assert.Equal(t, tt.wantPos, got.(Delete).Position)
			// Length is never trimmed, even on overlap.
			assert.Equal(t, tt.a.Length, got.(Delete).Length)
		})
	}
}

func TestTransform_DeleteDelete_FloorsAtZero(t *testing.T) {
	a := Delete{Path: "p", Position: 2, Length: 1}
	b := Delete{Path: "p", Position: 0, Length: 5}

	got := Transform(a, b)
	require.IsType(t, Delete{}, got)
	assert.Equal(t, 0, got.(Delete).Position)
}

func TestTransform_DeleteAgainstInsert(t *testing.T) {
	b := Insert{Path: "p", Position: 2, Value: doctree.String("abc")}

	del := Delete{Path: "p", Position: 4, Length: 2}
	got := Transform(del, b)
	require.IsType(t, Delete{}, got)
	assert.Equal(t, 7, got.(Delete).Position)

	del = Delete{Path: "p", Position: 1, Length: 1}
	got = Transform(del, b)
	assert.Equal(t, 1, got.(Delete).Position)
}

func TestTransform_UpdateAgainstDelete(t *testing.T) {
	del := Delete{Path: "items", Position: 0, Length: 2}

	// Position 3 shifts to 1 once the first two elements are gone.
	upd := Update{Path: "items", Position: intp(3), Value: doctree.String("v")}
	got := Transform(upd, del)
	require.IsType(t, Update{}, got)
	assert.Equal(t, 1, *got.(Update).Position)

	// Updates addressing a deleted element are annihilated.
	upd = Update{Path: "items", Position: intp(1), Value: doctree.String("v")}
	assert.Nil(t, Transform(upd, del))
}

func TestTransform_UpdateAgainstInsert(t *testing.T) {
	ins := Insert{Path: "items", Position: 1, Value: doctree.Int(9)}

	upd := Update{Path: "items", Position: intp(1), Value: doctree.String("v")}
	got := Transform(upd, ins)
	require.IsType(t, Update{}, got)
	assert.Equal(t, 2, *got.(Update).Position)

	upd = Update{Path: "items", Position: intp(0), Value: doctree.String("v")}
	got = Transform(upd, ins)
	assert.Equal(t, 0, *got.(Update).Position)
}

func TestTransform_PositionlessUpdatePassesThrough(t *testing.T) {
	upd := Update{Path: "title", Value: doctree.String("new")}

	got := Transform(upd, Delete{Path: "title", Position: 0, Length: 5})
	assert.Equal(t, Op(upd), got)

	// Concurrent updates to the same path: last writer wins at apply
	// time, so neither is rewritten here.
	got = Transform(upd, Update{Path: "title", Value: doctree.String("other")})
	assert.Equal(t, Op(upd), got)
}

func TestTransform_ReplaceAgainstDelete(t *testing.T) {
	del := Delete{Path: "items", Position: 0, Length: 1}

	rep := Replace{Path: "items", Position: intp(2), Value: doctree.Int(1)}
	got := Transform(rep, del)
	require.IsType(t, Replace{}, got)
	assert.Equal(t, 1, *got.(Replace).Position)

	rep = Replace{Path: "items", Position: intp(0), Value: doctree.Int(1)}
	assert.Nil(t, Transform(rep, del))
}

func TestTransform_DoesNotMutateSharedPosition(t *testing.T) {
	pos := 5
	upd := Update{Path: "items", Position: &pos, Value: doctree.Int(1)}

	got := Transform(upd, Delete{Path: "items", Position: 0, Length: 2})
	require.IsType(t, Update{}, got)
	assert.Equal(t, 3, *got.(Update).Position)
	assert.Equal(t, 5, pos)
}

func TestTransform_RawPassesThrough(t *testing.T) {
	raw := Raw{Type: "rotate", Path: "items"}
	got := Transform(raw, Insert{Path: "items", Position: 0, Value: doctree.Int(1)})
	assert.Equal(t, Op(raw), got)

	ins := Insert{Path: "items", Position: 0, Value: doctree.Int(1)}
	assert.Equal(t, Op(ins), Transform(ins, raw))
}
