package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainSource separates source hashes from any other hash this repo may
// compute. The version suffix allows an algorithm change later.
const DomainSource = "avrconf/source/v1"

// SourceHash returns the content address of a configuration source.
// Format: hex(SHA256(domain + 0x00 + src)).
func SourceHash(src []byte) string {
	return hashWithDomain(DomainSource, src)
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
