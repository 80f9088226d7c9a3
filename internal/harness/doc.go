// Package harness runs merge scenarios: YAML files describing a sequence
// of per-user operations against one document, with optional expected
// final state. Scenarios back both the conformance test suite (with
// golden trace files) and the loom CLI's script loading.
package harness
