package doctree

import (
	"strconv"
	"strings"
)

// Paths are dot-delimited addresses into a document tree ("items.2.name").
// The empty path denotes the root. Numeric segments index arrays.

// Split breaks a path into its segments. The empty path yields nil.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get resolves path against root and returns the value found there.
// Missing keys, out-of-range indexes, and traversal through leaves all
// report ok=false rather than failing.
func Get(root Value, path string) (Value, bool) {
	cur := root
	for _, seg := range Split(path) {
		switch c := cur.(type) {
		case Object:
			next, present := c[seg]
			if !present {
				return nil, false
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at path inside root and returns the resulting root.
// Missing intermediate containers are created as objects along the way;
// a leaf standing where a container is needed is displaced by a fresh
// object. Writes through an array index that is out of range are dropped.
//
// Containers are mutated in place - callers clone before writing.
func Set(root Value, path string, v Value) Value {
	segs := Split(path)
	if len(segs) == 0 {
		return v
	}

	// The root itself may need replacing when it is not a container.
	obj, isObj := root.(Object)
	arr, isArr := root.(Array)
	if !isObj && !isArr {
		obj = Object{}
		root = obj
		isObj = true
	}

	if isObj {
		setInObject(obj, segs, v)
		return root
	}
	setInArray(arr, segs, v)
	return root
}

func setInObject(obj Object, segs []string, v Value) {
	key := segs[0]
	if len(segs) == 1 {
		obj[key] = v
		return
	}

	child := obj[key]
	switch c := child.(type) {
	case Object:
		setInObject(c, segs[1:], v)
	case Array:
		setInArray(c, segs[1:], v)
	default:
		created := Object{}
		obj[key] = created
		setInObject(created, segs[1:], v)
	}
}

func setInArray(arr Array, segs []string, v Value) {
	idx, err := strconv.Atoi(segs[0])
	if err != nil || idx < 0 || idx >= len(arr) {
		return
	}
	if len(segs) == 1 {
		arr[idx] = v
		return
	}

	switch c := arr[idx].(type) {
	case Object:
		setInObject(c, segs[1:], v)
	case Array:
		setInArray(c, segs[1:], v)
	default:
		created := Object{}
		arr[idx] = created
		setInObject(created, segs[1:], v)
	}
}
