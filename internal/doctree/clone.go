package doctree

// Clone returns a structural deep copy of v.
//
// The applier clones before every mutation so that readers holding the
// previous state never observe an in-place edit. Scalar leaves are value
// types and are returned as-is; only containers allocate.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	default:
		return val
	}
}
