package ot

import (
	"encoding/json"
	"fmt"

	"github.com/loomsync/loom/internal/doctree"
)

// Wire type names for the operation envelope.
const (
	KindInsert  = "insert"
	KindDelete  = "delete"
	KindUpdate  = "update"
	KindReplace = "replace"
)

// Op is a sealed interface over the operation variants.
// Only Insert, Delete, Update, Replace, and Raw implement it.
// A nil Op means the operation has been annihilated by a transform and
// must not be applied.
type Op interface {
	op() // Sealed - only these types implement it
}

// Insert inserts Value at Position into the array or string found at Path.
type Insert struct {
	Path     string
	Position int
	Value    doctree.Value
}

func (Insert) op() {}

// Delete removes Length elements (or characters) starting at Position from
// the array or string found at Path.
type Delete struct {
	Path     string
	Position int
	Length   int
}

func (Delete) op() {}

// Update sets Path to Value. A non-nil Position addresses an element of
// the array at Path instead; position-addressed updates participate in
// positional transform rules the way inserts and deletes do.
type Update struct {
	Path     string
	Position *int
	Value    doctree.Value
}

func (Update) op() {}

// Replace is semantically identical to Update at the engine level; both
// resolve through the same path-set logic. It exists as a distinct wire
// type and survives round-trips as one.
type Replace struct {
	Path     string
	Position *int
	Value    doctree.Value
}

func (Replace) op() {}

// Raw carries an operation whose wire type the engine does not recognize.
// It passes through the transform matrix unmodified and applies as a no-op,
// but is still logged and still bumps the vector clock.
type Raw struct {
	Type     string
	Path     string
	Position *int
	Length   *int
	Value    doctree.Value
}

func (Raw) op() {}

// envelope is the wire shape: {type, path, position?, length?, value?}.
type envelope struct {
	Type     string          `json:"type"`
	Path     string          `json:"path"`
	Position *int            `json:"position,omitempty"`
	Length   *int            `json:"length,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// Decode parses a wire envelope into an Op. Unknown types yield Raw, not
// an error. Only malformed JSON itself is reported.
func Decode(data []byte) (Op, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode operation: %w", err)
	}

	var value doctree.Value
	if len(env.Value) > 0 {
		v, err := doctree.Unmarshal(env.Value)
		if err != nil {
			return nil, fmt.Errorf("decode operation value: %w", err)
		}
		value = v
	}

	return fromEnvelope(env, value), nil
}

// DecodeMap builds an Op from a decoded YAML/JSON map. Total: missing or
// wrong-typed fields fall back to zero values, unknown types yield Raw.
func DecodeMap(m map[string]any) Op {
	env := envelope{}
	if t, ok := m["type"].(string); ok {
		env.Type = t
	}
	if p, ok := m["path"].(string); ok {
		env.Path = p
	}
	if pos, ok := intField(m, "position"); ok {
		env.Position = &pos
	}
	if length, ok := intField(m, "length"); ok {
		env.Length = &length
	}

	var value doctree.Value
	if raw, ok := m["value"]; ok {
		value = doctree.FromGo(raw)
	}
	return fromEnvelope(env, value)
}

func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func fromEnvelope(env envelope, value doctree.Value) Op {
	switch env.Type {
	case KindInsert:
		pos := 0
		if env.Position != nil {
			pos = *env.Position
		}
		return Insert{Path: env.Path, Position: pos, Value: value}

	case KindDelete:
		pos := 0
		if env.Position != nil {
			pos = *env.Position
		}
		length := 1
		if env.Length != nil {
			length = *env.Length
		}
		return Delete{Path: env.Path, Position: pos, Length: length}

	case KindUpdate:
		return Update{Path: env.Path, Position: env.Position, Value: value}

	case KindReplace:
		return Replace{Path: env.Path, Position: env.Position, Value: value}

	default:
		return Raw{
			Type:     env.Type,
			Path:     env.Path,
			Position: env.Position,
			Length:   env.Length,
			Value:    value,
		}
	}
}

// Encode serializes an Op back to its wire envelope.
// A nil Op encodes as JSON null.
func Encode(op Op) ([]byte, error) {
	if op == nil {
		return []byte("null"), nil
	}

	env := envelope{}
	var value doctree.Value

	switch o := op.(type) {
	case Insert:
		pos := o.Position
		env = envelope{Type: KindInsert, Path: o.Path, Position: &pos}
		value = o.Value
	case Delete:
		pos, length := o.Position, o.Length
		env = envelope{Type: KindDelete, Path: o.Path, Position: &pos, Length: &length}
	case Update:
		env = envelope{Type: KindUpdate, Path: o.Path, Position: o.Position}
		value = o.Value
	case Replace:
		env = envelope{Type: KindReplace, Path: o.Path, Position: o.Position}
		value = o.Value
	case Raw:
		env = envelope{Type: o.Type, Path: o.Path, Position: o.Position, Length: o.Length}
		value = o.Value
	default:
		return nil, fmt.Errorf("unknown Op type: %T", op)
	}

	if value != nil {
		b, err := doctree.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode operation value: %w", err)
		}
		env.Value = b
	}

	return json.Marshal(env)
}

// Kind returns the wire type name of an op, or "" for nil.
func Kind(op Op) string {
	switch o := op.(type) {
	case Insert:
		return KindInsert
	case Delete:
		return KindDelete
	case Update:
		return KindUpdate
	case Replace:
		return KindReplace
	case Raw:
		return o.Type
	default:
		return ""
	}
}

// PathOf returns the target path of an op, or "" for nil.
func PathOf(op Op) string {
	switch o := op.(type) {
	case Insert:
		return o.Path
	case Delete:
		return o.Path
	case Update:
		return o.Path
	case Replace:
		return o.Path
	case Raw:
		return o.Path
	default:
		return ""
	}
}
