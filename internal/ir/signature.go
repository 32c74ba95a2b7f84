package ir

import (
	"encoding/hex"
	"fmt"
)

// SignatureLen is the number of bytes in a part signature.
const SignatureLen = 3

// Signature is a 3-byte silicon id. Position order is significant; equality
// is byte-for-byte.
type Signature [SignatureLen]byte

// SignatureFromBytes converts a byte sequence into a Signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureLen {
		return s, fmt.Errorf("signature must be %d bytes, got %d", SignatureLen, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// Hex returns the signature as six lowercase hex digits, e.g. "1e950f".
func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

// String returns the signature as "0x1e950f".
func (s Signature) String() string {
	return "0x" + s.Hex()
}

// Bytes returns a copy of the signature bytes.
func (s Signature) Bytes() []byte {
	return []byte{s[0], s[1], s[2]}
}
