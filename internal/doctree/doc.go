// Package doctree models the JSON-shaped document trees the merge engine
// operates on: a sealed Value type, dot-delimited path resolution,
// structural cloning, and canonical serialization for digests.
package doctree
