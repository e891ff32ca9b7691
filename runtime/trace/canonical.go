package trace

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// canonicalOp is the position-free encoding of an operation: two drawings
// that paint the same thing encode identically, whatever the source layout.
type canonicalOp struct {
	_    struct{} `cbor:",toarray"`
	Name string
	Args []string
}

// MarshalCanonical produces a deterministic CBOR encoding of the trace.
func MarshalCanonical(t Trace) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	ops := make([]canonicalOp, 0, len(t))
	for _, op := range t {
		ops = append(ops, canonicalOp{Name: op.Name(), Args: op.Args()})
	}

	data, err := encMode.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Fingerprint is the BLAKE2b-256 hash of the canonical encoding.
func Fingerprint(t Trace) ([32]byte, error) {
	data, err := MarshalCanonical(t)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// FingerprintHex returns Fingerprint as lower-case hex.
func FingerprintHex(t Trace) (string, error) {
	sum, err := Fingerprint(t)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}
