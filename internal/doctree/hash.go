package doctree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainState is the domain prefix for state digests.
// Version suffix enables future algorithm migration.
const DomainState = "loom/state/v1"

// Digest computes a content digest of a document state.
// Format: SHA256(domain + 0x00 + canonical JSON), hex encoded.
// The null byte separator prevents domain/data boundary ambiguity.
//
// Replicas that converged on the same state produce the same digest,
// so a digest mismatch is a cheap convergence check across replicas.
func Digest(v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainState))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when the value is known to be finite.
func MustDigest(v Value) string {
	d, err := Digest(v)
	if err != nil {
		panic(err)
	}
	return d
}
